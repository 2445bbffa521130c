package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartekus/glazboot/internal/logger"
	"github.com/bartekus/glazboot/internal/toolchain"
)

// ErrArtifactMissing means a step's predecessor artifact is not on disk.
var ErrArtifactMissing = errors.New("required artifact missing")

// Deps contains dependencies injected into steps.
type Deps struct {
	// Root is the workspace root every step directory is relative to.
	Root      string
	Toolchain toolchain.Runner
	Log       *logger.Logger
}

// Step is one element of the bootstrap pipeline.
type Step struct {
	// Name is the unique identifier (e.g. "stage0:std").
	Name  string
	Stage Stage
	// Dir is the working directory, relative to the workspace root.
	Dir    string
	Action Action
}

// Action is the work a step performs inside its directory.
type Action interface {
	// String renders the action the way it is logged.
	String() string
	// Requires returns the artifact, relative to the step directory, that a
	// strictly earlier step must have produced. Empty means none.
	Requires() string
	// Run performs the action in dir.
	Run(ctx context.Context, deps *Deps, dir string) error
}

// CommandError reports an external command that exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

// Fetcher retrieves the seed compiler into a directory.
type Fetcher interface {
	Fetch(ctx context.Context, dir string) error
	String() string
}

// Fetch downloads and unpacks the seed compiler.
type Fetch struct {
	Source Fetcher
}

func (a Fetch) String() string   { return a.Source.String() }
func (a Fetch) Requires() string { return "" }

func (a Fetch) Run(ctx context.Context, deps *Deps, dir string) error {
	return a.Source.Fetch(ctx, dir)
}

// Compile runs the compiler with glob sources expanded against the step
// directory.
type Compile struct {
	toolchain.Invocation
}

func (a Compile) String() string   { return a.Invocation.Command("").String() }
func (a Compile) Requires() string { return a.Compiler }

func (a Compile) Run(ctx context.Context, deps *Deps, dir string) error {
	cmd, err := a.Expand(dir)
	if err != nil {
		return err
	}
	deps.Log.Debugf("expanded: %s", cmd)
	return stream(ctx, deps, cmd)
}

// Exec runs an arbitrary executable.
type Exec struct {
	Path string
	Args []string
}

func (a Exec) String() string {
	return toolchain.Command{Path: a.Path, Args: a.Args}.String()
}

func (a Exec) Requires() string {
	if strings.ContainsRune(a.Path, filepath.Separator) {
		return a.Path
	}
	return ""
}

func (a Exec) Run(ctx context.Context, deps *Deps, dir string) error {
	return stream(ctx, deps, toolchain.Command{Dir: dir, Path: a.Path, Args: a.Args})
}

// Remove deletes an artifact that later steps have superseded.
type Remove struct {
	Path string
}

func (a Remove) String() string   { return "rm " + a.Path }
func (a Remove) Requires() string { return a.Path }

func (a Remove) Run(_ context.Context, _ *Deps, dir string) error {
	return os.Remove(filepath.Join(dir, a.Path))
}

func stream(ctx context.Context, deps *Deps, cmd toolchain.Command) error {
	code, err := deps.Toolchain.Stream(ctx, cmd)
	if err != nil {
		return err
	}
	if code != 0 {
		return &CommandError{Command: cmd.String(), ExitCode: code}
	}
	return nil
}
