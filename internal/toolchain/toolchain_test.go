package toolchain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocationArgs(t *testing.T) {
	tests := []struct {
		name     string
		inv      Invocation
		expected []string
	}{
		{
			name:     "library build",
			inv:      Invocation{Compiler: "../../glazc", SrcName: "std", NoStd: true, Lib: true, Sources: []string{"src/*.glaz"}},
			expected: []string{"--src-name", "std", "--no-std", "--lib", "src/*.glaz"},
		},
		{
			name:     "release build",
			inv:      Invocation{Compiler: "./compiler/glazc", SrcName: "glaz", Release: true, Sources: []string{"src/*.glaz"}},
			expected: []string{"--release", "--src-name", "glaz", "src/*.glaz"},
		},
		{
			name:     "fixture",
			inv:      Invocation{Compiler: "./compiler/glazc", SrcName: "div_zero", Sources: []string{"tests/inout/div_zero.glaz"}},
			expected: []string{"--src-name", "div_zero", "tests/inout/div_zero.glaz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inv.Args())
		})
	}
}

func TestInvocationArtifact(t *testing.T) {
	assert.Equal(t, "glazc", Invocation{SrcName: "glazc"}.Artifact())
	assert.Empty(t, Invocation{SrcName: "std", Lib: true}.Artifact())
}

func TestInvocationExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/b.glaz", "")
	writeFile(t, dir, "src/a.glaz", "")
	writeFile(t, dir, "src/readme.md", "")

	cmd, err := Invocation{Compiler: "./glazc", SrcName: "glazc", Sources: []string{"src/*.glaz"}}.Expand(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cmd.Dir)
	assert.Equal(t, []string{"--src-name", "glazc", "src/a.glaz", "src/b.glaz"}, cmd.Args)
	assert.Equal(t, "./glazc --src-name glazc src/a.glaz src/b.glaz", cmd.String())
}

func TestExpandGlob_NoMatchPassesThrough(t *testing.T) {
	got, err := ExpandGlob(t.TempDir(), "src/*.glaz")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/*.glaz"}, got)
}

func TestExpandGlob_DirWithGlobMetacharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "glaz[dev]", "tests", "bad")
	writeFile(t, dir, "b.glaz", "")
	writeFile(t, dir, "a.glaz", "")

	got, err := ExpandGlob(dir, "*.glaz")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.glaz", "b.glaz"}, got)
}

func TestExpandGlob_RejectsEscapingPattern(t *testing.T) {
	_, err := ExpandGlob(t.TempDir(), "../src/*.glaz")
	require.Error(t, err)
}

func TestCommandExecutable(t *testing.T) {
	assert.Equal(t, filepath.Join("/work", "glazc"), Command{Dir: "/work", Path: "./glazc"}.Executable())
	assert.Equal(t, "/usr/bin/env", Command{Dir: "/work", Path: "/usr/bin/env"}.Executable())
	assert.Equal(t, "sh", Command{Dir: "/work", Path: "sh"}.Executable())
}

func TestExecRunner_Capture(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "tool", "#!/bin/sh\necho out\necho \"err $1\" >&2\nexit 3\n")

	res, err := NewExecRunner().Capture(context.Background(), Command{Dir: dir, Path: "./tool", Args: []string{"x"}})
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err x\n", string(res.Stderr))
}

func TestExecRunner_Stream(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "tool", "#!/bin/sh\necho streamed\n")

	var out, errOut bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &errOut}
	code, err := r.Stream(context.Background(), Command{Dir: dir, Path: "./tool"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "streamed\n", out.String())
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	_, err := NewExecRunner().Capture(context.Background(), Command{Dir: t.TempDir(), Path: "./missing"})
	require.Error(t, err)
}

func writeFile(t *testing.T, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func writeScript(t *testing.T, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o755))
}
