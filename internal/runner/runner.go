package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bartekus/glazboot/internal/workspace"
)

// StepError is returned when a step fails; the run stops at that step.
type StepError struct {
	Step     string
	Command  string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner executes the bootstrap pipeline.
type Runner struct {
	store *StateStore
	deps  *Deps
}

// NewRunner creates a new runner with the given state store and dependencies.
func NewRunner(store *StateStore, deps *Deps) *Runner {
	return &Runner{
		store: store,
		deps:  deps,
	}
}

// Run executes steps in order. Each step runs in its own directory, resolved
// against the workspace root; nothing changes the process working directory.
// The first failing step aborts the run: no later step is attempted because
// every stage consumes the previous stage's artifacts.
func (r *Runner) Run(ctx context.Context, steps []Step, release bool) error {
	last := LastRun{
		RunID:   uuid.NewString(),
		Status:  "pass",
		Release: release,
	}

	cwd := "."
	for _, step := range steps {
		dir := filepath.Clean(step.Dir)
		if dir != cwd {
			r.deps.Log.Infof("chdir `%s`", dir)
			cwd = dir
		}

		rec, err := r.execute(ctx, step, filepath.Join(r.deps.Root, dir))
		last.Steps = append(last.Steps, rec)
		if err != nil {
			last.Status = "fail"
			last.Failed = step.Name
			if werr := r.store.WriteLastRun(last); werr != nil {
				return errors.Join(err, fmt.Errorf("writing last run: %w", werr))
			}
			return err
		}
	}

	if err := r.store.WriteLastRun(last); err != nil {
		return fmt.Errorf("writing last run: %w", err)
	}
	return nil
}

func (r *Runner) execute(ctx context.Context, step Step, dir string) (StepRecord, error) {
	command := step.Action.String()
	rec := StepRecord{
		Step:    step.Name,
		Stage:   step.Stage,
		Command: command,
		Status:  StatusPass,
	}

	r.deps.Log.Infof("%s", command)

	err := ctx.Err()
	if err == nil {
		if req := step.Action.Requires(); req != "" && !workspace.Exists(filepath.Join(dir, req)) {
			err = fmt.Errorf("%w: %s", ErrArtifactMissing, filepath.Join(step.Dir, req))
		}
	}
	if err == nil {
		err = step.Action.Run(ctx, r.deps, dir)
	}
	if err == nil {
		return rec, nil
	}

	r.deps.Log.Errorf("    failed command")

	stepErr := &StepError{Step: step.Name, Command: command, ExitCode: 1, Err: err}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		stepErr.ExitCode = cmdErr.ExitCode
	}

	rec.Status = StatusFail
	rec.ExitCode = stepErr.ExitCode
	rec.Note = err.Error()
	return rec, stepErr
}
