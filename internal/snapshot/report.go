package snapshot

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Status is the verification outcome of a single fixture.
type Status struct {
	Case   TestCase
	Index  int
	Total  int
	Passed bool
	// Reason explains a failure that is not a content mismatch.
	Reason string
	// Mismatch is set when the stream differs from the golden content.
	Mismatch bool
	Expected string
	Got      string
}

// Reporter writes harness output for the operator.
type Reporter struct {
	w    io.Writer
	ok   *color.Color
	fail *color.Color
	dim  *color.Color
}

// NewReporter creates a Reporter. Colour is used only when colorful is set.
func NewReporter(w io.Writer, colorful bool) *Reporter {
	r := &Reporter{
		w:    w,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{r.ok, r.fail, r.dim} {
		if colorful {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Status prints one verification line, with expected/got blocks and a
// unified diff on content mismatch.
func (r *Reporter) Status(st Status) {
	fmt.Fprintf(r.w, "[%d/%d] %s -> ", st.Index, st.Total, st.Case.Path)

	switch {
	case st.Passed:
		fmt.Fprintln(r.w, r.ok.Sprint("OK"))
	case !st.Mismatch:
		fmt.Fprintf(r.w, "%s [%s]\n", r.fail.Sprint("FAIL"), st.Reason)
	default:
		fmt.Fprintln(r.w, r.fail.Sprint("FAIL"))
		fmt.Fprintf(r.w, "Expected:\n%s", withNewline(st.Expected))
		fmt.Fprintf(r.w, "Got:\n%s", withNewline(st.Got))
		fmt.Fprintf(r.w, "Diff:\n%s", r.dim.Sprint(unifiedDiff(st.Expected, st.Got)))
	}
}

// Rejected prints a fixture whose outcome contradicts its category.
func (r *Reporter) Rejected(tc TestCase, reason string) {
	fmt.Fprintf(r.w, "[%s] %s\n", r.fail.Sprintf("BAD: %s", reason), tc.Path)
}

// Summary prints the aggregate verdict line.
func (r *Reporter) Summary(s Summary) {
	verdict := r.ok.Sprint("PASS")
	if !s.OK() {
		verdict = r.fail.Sprint("FAIL")
	}
	fmt.Fprintf(r.w, "%s %s\n", verdict, s)
}

func unifiedDiff(expected, got string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(got),
		FromFile: "expected",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		return err.Error() + "\n"
	}
	return withNewline(diff)
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
