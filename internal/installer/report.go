package installer

import (
	"fmt"

	"github.com/errobs/clientkit/internal/detect"
)

// Operation names an installer operation.
type Operation string

const (
	OpInstall      Operation = "install"
	OpUpdateDSN    Operation = "update-dsn"
	OpUpdateClient Operation = "update-client"
)

// StepStatus classifies a Step.
type StepStatus string

const (
	// StepDone is a completed action.
	StepDone StepStatus = "done"
	// StepWarning is a recoverable failure; the operation went on.
	StepWarning StepStatus = "warning"
	// StepManual is an action the user must perform by hand.
	StepManual StepStatus = "manual"
)

// Step is one human-readable outcome of an operation.
type Step struct {
	Status  StepStatus
	Message string
	// Detail carries a multi-line snippet for manual steps.
	Detail string
}

// ManualAction is the single integration edit the user must still make at the
// application entry point.
type ManualAction struct {
	Instruction string
	Snippet     string
}

// Report is the result of an installer operation. Steps are in execution order.
type Report struct {
	Operation Operation
	Language  detect.Language
	Steps     []Step
	Manual    *ManualAction
}

func newReport(op Operation, lang detect.Language) Report {
	return Report{Operation: op, Language: lang}
}

func (r *Report) done(format string, args ...any) {
	r.Steps = append(r.Steps, Step{Status: StepDone, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warn(format string, args ...any) {
	r.Steps = append(r.Steps, Step{Status: StepWarning, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) manual(message, detail string) {
	r.Steps = append(r.Steps, Step{Status: StepManual, Message: message, Detail: detail})
}

// Warnings returns the warning steps.
func (r Report) Warnings() []Step {
	var out []Step
	for _, s := range r.Steps {
		if s.Status == StepWarning {
			out = append(out, s)
		}
	}
	return out
}
