package logging

import "time"

// #region warning-entry
// Entry kinds stored in run_warnings.
const (
	KindWarning = "warning" // document analyzed, something was skipped
	KindFailure = "failure" // document produced no bundle
)

// WarningEntry is a single row in the run_warnings table.
type WarningEntry struct {
	RunID      string
	DocumentID string
	Kind       string // "warning" | "failure"
	Stage      string // failures only: "load" | "annotate" | "analyze"
	Message    string
	CreatedAt  time.Time
}

// #endregion warning-entry
