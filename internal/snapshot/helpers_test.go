package snapshot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bartekus/glazboot/internal/logger"
	"github.com/bartekus/glazboot/internal/toolchain"
)

// fakeCompiler stands in for glazc. The first line of a fixture selects the
// behaviour, the remaining lines are the diagnostic text:
//
//	reject  compilation fails, remaining lines go to stderr
//	panic   compiles; the binary prints the remaining lines to stderr, exits 1
//	clean   compiles; the binary prints the remaining lines to stderr, exits 0
//	ghost   exits 0 without writing a binary
const fakeCompiler = `#!/bin/sh
name=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    --src-name) name="$2"; shift 2 ;;
    --*) shift ;;
    *) src="$1"; shift ;;
  esac
done
mode=$(sed -n 1p "$src")
case "$mode" in
  reject)
    sed 1d "$src" >&2
    exit 1 ;;
  panic)
    printf '#!/bin/sh\nsed 1d %s >&2\nexit 1\n' "$src" > "$name"
    chmod +x "$name"
    exit 0 ;;
  clean)
    printf '#!/bin/sh\nsed 1d %s >&2\nexit 0\n' "$src" > "$name"
    chmod +x "$name"
    exit 0 ;;
  ghost)
    exit 0 ;;
esac
echo "unknown fixture mode: $mode" >&2
exit 2
`

// recordingRunner remembers every command handed to the toolchain.
type recordingRunner struct {
	toolchain.Runner
	calls []string
}

func (r *recordingRunner) Stream(ctx context.Context, cmd toolchain.Command) (int, error) {
	r.calls = append(r.calls, cmd.String())
	return r.Runner.Stream(ctx, cmd)
}

func (r *recordingRunner) Capture(ctx context.Context, cmd toolchain.Command) (toolchain.Result, error) {
	r.calls = append(r.calls, cmd.String())
	return r.Runner.Capture(ctx, cmd)
}

type harness struct {
	root   string
	corpus Corpus
	out    *bytes.Buffer
	runs   *recordingRunner
	gen    *Generator
	ver    *Verifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessIn(t, t.TempDir())
}

func newHarnessIn(t *testing.T, root string) *harness {
	t.Helper()
	writeExec(t, filepath.Join(root, "compiler", "glazc"), fakeCompiler)
	for _, d := range []string{"tests/bad", "tests/inout"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}

	corpus := Corpus{Root: root, TestsDir: "tests", Ext: ".glaz"}
	tc := &recordingRunner{Runner: toolchain.NewExecRunner()}
	evaluate := func(k Kind) Evaluator {
		return NewEvaluator(k, root, "./compiler/glazc", tc)
	}
	out := &bytes.Buffer{}
	report := NewReporter(out, false)

	return &harness{
		root:   root,
		corpus: corpus,
		out:    out,
		runs:   tc,
		gen:    &Generator{Corpus: corpus, Evaluate: evaluate, Report: report, Log: logger.Discard()},
		ver:    &Verifier{Corpus: corpus, Evaluate: evaluate, Report: report},
	}
}

func (h *harness) fixture(t *testing.T, category, stem, mode, diag string) {
	t.Helper()
	path := filepath.Join(h.root, "tests", category, stem+".glaz")
	require.NoError(t, os.WriteFile(path, []byte(mode+"\n"+diag), 0o644))
}

func (h *harness) golden(t *testing.T, category, stem, content string) {
	t.Helper()
	path := filepath.Join(h.root, "tests", category, stem+".out")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (h *harness) readGolden(t *testing.T, category, stem string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.root, "tests", category, stem+".out"))
	require.NoError(t, err)
	return string(data)
}

func writeExec(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}
