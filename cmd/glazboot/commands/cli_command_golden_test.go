package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/glazboot/cmd/glazboot/internal/clierr"
)

// fixtureCompiler fails on fixtures starting with "reject" and otherwise
// emits a binary that prints the fixture's remaining lines and exits 1.
const fixtureCompiler = `#!/bin/sh
name=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    --src-name) name="$2"; shift 2 ;;
    --*) shift ;;
    *) src="$1"; shift ;;
  esac
done
if [ "$(sed -n 1p "$src")" = reject ]; then
  sed 1d "$src" >&2
  exit 1
fi
printf '#!/bin/sh\nsed 1d %s >&2\nexit 1\n' "$src" > "$name"
chmod +x "$name"
`

func fixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string, mode os.FileMode) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), mode))
	}
	write("compiler/glazc", fixtureCompiler, 0o755)
	write("tests/bad/undeclared_var.glaz", "reject\nerror: undeclared variable 'x'\n", 0o644)
	write("tests/bad/compiles_fine.glaz", "accept\n", 0o644)
	write("tests/inout/div_zero.glaz", "accept\npanic: division by zero\n", 0o644)
	return root
}

func TestCLIGolden_GenerateThenVerify(t *testing.T) {
	root := fixtureTree(t)

	stdout, stderr, err := execute(t, "--root", root, "golden", "generate")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "[BAD: exit_code == 0] tests/bad/compiles_fine.glaz\n")
	assert.Contains(t, stderr, ">> bad: wrote 1 golden files, rejected 1 fixtures\n")
	assert.Contains(t, stderr, ">> inout: wrote 1 golden files, rejected 0 fixtures\n")

	data, err := os.ReadFile(filepath.Join(root, "tests", "inout", "div_zero.out"))
	require.NoError(t, err)
	assert.Equal(t, "panic: division by zero\n", string(data))
	assert.NoFileExists(t, filepath.Join(root, "div_zero"))

	stdout, _, err = execute(t, "--root", root, "golden", "verify", "inout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1/1] tests/inout/div_zero.glaz -> OK\n")

	// compiles_fine has no golden, so the bad category fails as a whole.
	stdout, _, err = execute(t, "--root", root, "golden", "verify", "bad")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitFailure, clierr.ExitCodeOf(err))
	assert.Equal(t, "1 of 2 bad fixtures failed", err.Error())
	assert.Contains(t, stdout, "[1/2] tests/bad/compiles_fine.glaz -> FAIL [.out file not found]\n")
	assert.Contains(t, stdout, "[2/2] tests/bad/undeclared_var.glaz -> OK\n")
}

func TestCLIGolden_VerifyRequiresOneCategory(t *testing.T) {
	root := fixtureTree(t)

	_, _, err := execute(t, "--root", root, "golden", "verify")
	require.Error(t, err)

	_, _, err = execute(t, "--root", root, "golden", "verify", "bad", "inout")
	require.Error(t, err)
}

func TestCLIGolden_UnknownCategoryUsesBadRules(t *testing.T) {
	root := fixtureTree(t)
	path := filepath.Join(root, "tests", "regressions", "shadow.glaz")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("reject\nerror: shadowed\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "regressions", "shadow.out"), []byte("error: shadowed\n"), 0o644))

	stdout, _, err := execute(t, "--root", root, "golden", "verify", "regressions")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1/1] tests/regressions/shadow.glaz -> OK\n")
}
