// Package toolchain is the boundary to the external Glaz executables: the
// compiler, the binaries it produces and the project manager. Everything is
// invoked as an opaque process; only exit codes and streams are observed.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command is a single process invocation rooted at an explicit directory.
type Command struct {
	// Dir is the working directory the process runs in.
	Dir string
	// Path is the executable. A path containing a separator is resolved
	// against Dir, so "./glazc" means Dir/glazc.
	Path string
	Args []string
}

// String renders the command the way an operator would type it.
func (c Command) String() string {
	parts := append([]string{c.Path}, c.Args...)
	return strings.Join(parts, " ")
}

// Executable returns the path handed to the OS.
func (c Command) Executable() string {
	if filepath.IsAbs(c.Path) || !strings.ContainsRune(c.Path, filepath.Separator) {
		return c.Path
	}
	return filepath.Join(c.Dir, c.Path)
}

// Result is the observed outcome of a captured command.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the process exited 0.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner executes commands synchronously. A non-nil error means the process
// could not be started at all; a process that ran and failed is reported
// through its exit code.
type Runner interface {
	// Stream runs the command with its output surfaced to the operator.
	Stream(ctx context.Context, cmd Command) (int, error)
	// Capture runs the command and returns its output streams.
	Capture(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner that streams to the process stdout/stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Stream(ctx context.Context, cmd Command) (int, error) {
	c := exec.CommandContext(ctx, cmd.Executable(), cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	return exitCode(c.Run())
}

func (r *ExecRunner) Capture(ctx context.Context, cmd Command) (Result, error) {
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Executable(), cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = &stdout
	c.Stderr = &stderr

	code, err := exitCode(c.Run())
	if err != nil {
		return Result{}, err
	}
	return Result{
		ExitCode: code,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		// -1 means the process was killed by a signal.
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	return 0, fmt.Errorf("starting process: %w", err)
}
