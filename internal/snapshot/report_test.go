package snapshot

import (
	"bytes"
	"testing"

	"github.com/bartekus/glazboot/internal/testutil/golden"
)

func TestReporter_VerifyTranscript(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)

	r.Status(Status{
		Case:   TestCase{Path: "tests/bad/undeclared_var.glaz", Category: Bad},
		Index:  1,
		Total:  3,
		Passed: true,
	})
	r.Status(Status{
		Case:   TestCase{Path: "tests/bad/no_golden.glaz", Category: Bad},
		Index:  2,
		Total:  3,
		Reason: ReasonGoldenMissing,
	})
	r.Status(Status{
		Case:     TestCase{Path: "tests/bad/wrong_name.glaz", Category: Bad},
		Index:    3,
		Total:    3,
		Mismatch: true,
		Expected: "error: undeclared variable 'x'\n",
		Got:      "error: undeclared variable 'y'\n",
	})
	r.Summary(Summary{Category: "bad", Total: 3, Passed: 1, Failed: []string{"b", "c"}})

	golden.Assert(t, golden.TestdataDir(t), "verify_transcript", buf.String())
}

func TestReporter_GenerateTranscript(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)

	r.Rejected(TestCase{Path: "tests/bad/compiles_fine.glaz", Category: Bad}, "exit_code == 0")
	r.Rejected(TestCase{Path: "tests/inout/broken.glaz", Category: InOut}, "failed compilation")

	golden.Assert(t, golden.TestdataDir(t), "generate_transcript", buf.String())
}
