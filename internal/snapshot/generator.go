package snapshot

import (
	"context"
	"fmt"

	"github.com/bartekus/glazboot/internal/logger"
	"github.com/bartekus/glazboot/internal/workspace"
)

// GenerateResult lists what a generation pass did, by fixture path.
type GenerateResult struct {
	Written  []string
	Rejected []string
}

// Generator records golden files from the current compiler's behaviour.
type Generator struct {
	Corpus   Corpus
	Evaluate func(Kind) Evaluator
	Report   *Reporter
	Log      *logger.Logger
}

// Generate refreshes the golden file of every fixture in cat. A fixture
// whose outcome contradicts its category is reported, its stale golden is
// purged, and generation moves on to the next fixture. Errors are returned
// only for failures outside the corpus, such as an unstartable compiler or
// an unwritable golden file.
func (g *Generator) Generate(ctx context.Context, cat Category) (GenerateResult, error) {
	var result GenerateResult

	cases, err := g.Corpus.Discover(cat)
	if err != nil {
		return result, err
	}
	eval := g.Evaluate(cat.Kind)

	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		obs, err := eval.Observe(ctx, tc)
		if err != nil {
			return result, err
		}

		golden := g.Corpus.abs(tc.GoldenPath())
		if ok, reason := eval.Recordable(obs); !ok {
			g.Report.Rejected(tc, reason)
			if err := workspace.Remove(golden); err != nil {
				return result, err
			}
			result.Rejected = append(result.Rejected, tc.Path)
			continue
		}

		if obs.Ran && obs.RunExit == 0 {
			g.Log.Warnf("%s: execution exited 0; verification expects a runtime failure", tc.Path)
		}

		if err := workspace.AtomicWrite(golden, obs.Stream); err != nil {
			return result, fmt.Errorf("writing golden for %s: %w", tc.Path, err)
		}
		g.Log.Debugf("wrote %s", tc.GoldenPath())
		result.Written = append(result.Written, tc.Path)
	}

	return result, nil
}
