package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is one community report. At most one exists per (target, reporter).
type Report struct {
	ID         int64
	Target     ContentRef
	ReporterID uuid.UUID
	Reason     string
	CreatedAt  time.Time
}

// ReportOutcome is the state of the target after a report was counted.
type ReportOutcome struct {
	Target      ContentRef `json:"target"`
	ReportCount int        `json:"report_count"`
	Hidden      bool       `json:"hidden"`
	// JustHidden is set when this report moved the target from Visible to Hidden.
	JustHidden bool      `json:"-"`
	AuthorID   uuid.UUID `json:"-"`
}
