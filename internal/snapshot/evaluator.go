package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bartekus/glazboot/internal/toolchain"
	"github.com/bartekus/glazboot/internal/workspace"
)

// Observation is what a fixture did when compiled and, for InOut, executed.
type Observation struct {
	Compiled    bool
	CompileExit int
	Ran         bool
	RunExit     int
	// Stream is the diagnostic stream the golden file records for this
	// category: compiler stderr for Bad, execution stderr for InOut.
	Stream []byte
}

// Evaluator runs fixtures of one kind. Both kinds share the skeleton
// "compile, optionally execute, report the recorded stream" and differ in
// which outcome they expect and which stream is recorded.
type Evaluator interface {
	Kind() Kind
	// Observe runs tc and removes any executable it produced. The error is
	// non-nil only when a process could not be started.
	Observe(ctx context.Context, tc TestCase) (Observation, error)
	// Recordable reports whether obs may be recorded as golden. reason
	// describes the contradiction otherwise.
	Recordable(obs Observation) (ok bool, reason string)
	// Polarity reports whether obs has the exit codes a passing fixture
	// needs, independent of stream content.
	Polarity(obs Observation) (ok bool, reason string)
}

// NewEvaluator returns the evaluator for kind.
func NewEvaluator(kind Kind, root, compiler string, tc toolchain.Runner) Evaluator {
	b := base{root: root, compiler: compiler, toolchain: tc}
	if kind == KindInOut {
		return inoutEvaluator{b}
	}
	return badEvaluator{b}
}

type base struct {
	root      string
	compiler  string
	toolchain toolchain.Runner
}

func (b base) compile(ctx context.Context, tc TestCase) (toolchain.Result, error) {
	inv := toolchain.Invocation{
		Compiler: b.compiler,
		SrcName:  tc.Stem(),
		Sources:  []string{tc.Path},
	}
	res, err := b.toolchain.Capture(ctx, inv.Command(b.root))
	if err != nil {
		return res, fmt.Errorf("compiling %s: %w", tc.Path, err)
	}
	return res, nil
}

func (b base) execute(ctx context.Context, tc TestCase) (toolchain.Result, error) {
	res, err := b.toolchain.Capture(ctx, toolchain.Command{Dir: b.root, Path: "./" + tc.Stem()})
	if err != nil {
		return res, fmt.Errorf("executing %s: %w", tc.Stem(), err)
	}
	return res, nil
}

func (b base) removeBinary(tc TestCase) error {
	return workspace.Remove(filepath.Join(b.root, tc.Stem()))
}

type badEvaluator struct{ base }

func (badEvaluator) Kind() Kind { return KindBad }

func (e badEvaluator) Observe(ctx context.Context, tc TestCase) (Observation, error) {
	res, err := e.compile(ctx, tc)
	if err != nil {
		return Observation{}, err
	}
	obs := Observation{
		Compiled:    res.Success(),
		CompileExit: res.ExitCode,
		Stream:      res.Stderr,
	}
	if obs.Compiled {
		// Unexpected success leaves a stray executable behind.
		if err := e.removeBinary(tc); err != nil {
			return obs, err
		}
	}
	return obs, nil
}

func (badEvaluator) Recordable(obs Observation) (bool, string) {
	if obs.Compiled {
		return false, "exit_code == 0"
	}
	return true, ""
}

func (e badEvaluator) Polarity(obs Observation) (bool, string) {
	if obs.Compiled {
		return false, "unexpected exit code 0"
	}
	return true, ""
}

type inoutEvaluator struct{ base }

func (inoutEvaluator) Kind() Kind { return KindInOut }

func (e inoutEvaluator) Observe(ctx context.Context, tc TestCase) (obs Observation, err error) {
	res, err := e.compile(ctx, tc)
	if err != nil {
		return Observation{}, err
	}
	obs.CompileExit = res.ExitCode
	if !res.Success() {
		obs.Stream = res.Stderr
		return obs, nil
	}
	obs.Compiled = true
	if !workspace.Exists(filepath.Join(e.root, tc.Stem())) {
		return obs, nil
	}

	defer func() {
		if rerr := e.removeBinary(tc); err == nil {
			err = rerr
		}
	}()

	run, err := e.execute(ctx, tc)
	if err != nil {
		return obs, err
	}
	obs.Ran = true
	obs.RunExit = run.ExitCode
	obs.Stream = run.Stderr
	return obs, nil
}

// ReasonNoExecutable marks an InOut compile that exited 0 without writing
// the executable.
const ReasonNoExecutable = "no executable produced"

func (inoutEvaluator) Recordable(obs Observation) (bool, string) {
	if !obs.Compiled {
		return false, "failed compilation"
	}
	if !obs.Ran {
		return false, ReasonNoExecutable
	}
	return true, ""
}

func (inoutEvaluator) Polarity(obs Observation) (bool, string) {
	if !obs.Compiled {
		return false, "failed compilation"
	}
	if !obs.Ran {
		return false, ReasonNoExecutable
	}
	if obs.RunExit == 0 {
		return false, "unexpected exit code 0"
	}
	return true, ""
}
