package snapshot

import (
	"bytes"
	"context"
	"fmt"
)

// Summary is the aggregate verdict of one verification pass.
type Summary struct {
	Category string
	Total    int
	Passed   int
	// Failed lists failing fixture paths in run order.
	Failed []string
}

// OK reports whether every fixture passed.
func (s Summary) OK() bool { return len(s.Failed) == 0 }

// Verifier checks live compiler behaviour against recorded golden files.
type Verifier struct {
	Corpus   Corpus
	Evaluate func(Kind) Evaluator
	Report   *Reporter
}

// Verify runs every fixture of cat, reporting one status line each. A
// failing fixture never stops the pass; the summary carries the verdict.
// The error is reserved for an unreadable fixture directory.
func (v *Verifier) Verify(ctx context.Context, cat Category) (Summary, error) {
	sum := Summary{Category: cat.Name}

	cases, err := v.Corpus.Discover(cat)
	if err != nil {
		return sum, err
	}
	sum.Total = len(cases)
	eval := v.Evaluate(cat.Kind)

	for i, tc := range cases {
		st := v.check(ctx, eval, tc)
		st.Index = i + 1
		st.Total = len(cases)
		v.Report.Status(st)

		if st.Passed {
			sum.Passed++
		} else {
			sum.Failed = append(sum.Failed, tc.Path)
		}
	}

	v.Report.Summary(sum)
	return sum, nil
}

func (v *Verifier) check(ctx context.Context, eval Evaluator, tc TestCase) Status {
	st := Status{Case: tc}

	golden, found, err := v.Corpus.ReadGolden(tc)
	if err != nil {
		st.Reason = err.Error()
		return st
	}
	if !found {
		st.Reason = ReasonGoldenMissing
		return st
	}

	obs, err := eval.Observe(ctx, tc)
	if err != nil {
		st.Reason = err.Error()
		return st
	}
	if ok, reason := eval.Polarity(obs); !ok {
		st.Reason = reason
		return st
	}
	if !bytes.Equal(obs.Stream, golden) {
		st.Mismatch = true
		st.Expected = string(golden)
		st.Got = string(obs.Stream)
		return st
	}

	st.Passed = true
	return st
}

// ReasonGoldenMissing marks a fixture whose golden file does not exist.
const ReasonGoldenMissing = ".out file not found"

func (s Summary) String() string {
	return fmt.Sprintf("%s: %d/%d passed", s.Category, s.Passed, s.Total)
}
