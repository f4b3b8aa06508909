package sync

import (
	"time"

	"device-sync/core/model"
)

// Phase names used in status messages and log fields.
const (
	PhaseSizing    = "sizing"
	PhaseConstants = "constants"
	PhaseCompile   = "compile"
	PhaseComments  = "comments"
	PhaseVerify    = "verify"
)

// PhaseOutcome is the result of one Synchronize run.
type PhaseOutcome struct {
	Category string `json:"category"`

	Sizing    bool `json:"sizing"`
	Constants bool `json:"constants"`
	Compile   bool `json:"compile"`
	// Comments stays false when the compile phase failed and patching was skipped.
	Comments bool `json:"comments"`
	// Verified is true when the post-sync comparison found every record synchronized.
	Verified bool `json:"verified"`

	// Overall is true when every phase succeeded and verification matched.
	Overall bool `json:"overall"`
	// Aborted is set when the sizing phase failed and later phases did not run.
	Aborted bool `json:"aborted"`
	// Critical is set when the run was stopped by an unexpected fault.
	Critical bool `json:"critical"`

	CompileErrors int               `json:"compile_errors"`
	Diff          *model.DiffResult `json:"diff,omitempty"`
	Duration      time.Duration     `json:"duration"`
}

func (o *PhaseOutcome) finish() {
	o.Overall = !o.Critical && o.Sizing && o.Constants && o.Compile && o.Comments && o.Verified
}
