package runner

// Stage groups the steps that use one compiler generation.
type Stage string

const (
	StageSeed  Stage = "seed"
	StageZero  Stage = "stage0"
	StageOne   Stage = "stage1"
	StageFinal Stage = "final"
)

// StepStatus represents the outcome of a step execution.
type StepStatus string

const (
	StatusPass StepStatus = "pass"
	StatusFail StepStatus = "fail"
)

// StepRecord is the persisted outcome of one executed step.
type StepRecord struct {
	Step     string     `json:"step"`
	Stage    Stage      `json:"stage"`
	Command  string     `json:"command"`
	Status   StepStatus `json:"status"`
	ExitCode int        `json:"exit_code"`
	Note     string     `json:"note,omitempty"`
}

// LastRun summarises the most recent bootstrap.
// Matches <state_dir>/last-bootstrap.json.
type LastRun struct {
	RunID   string       `json:"run_id"`
	Status  string       `json:"status"` // "pass" or "fail"
	Release bool         `json:"release"`
	Steps   []StepRecord `json:"steps"`  // Executed steps, in order
	Failed  string       `json:"failed"` // Step that stopped the run
}
