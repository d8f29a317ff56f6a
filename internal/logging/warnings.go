package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-warning
// LogWarning writes one diagnostic to the run_warnings table.
func LogWarning(db *sql.DB, entry WarningEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO run_warnings (run_id, doc_id, kind, stage, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		nullIfEmpty(entry.DocumentID),
		entry.Kind,
		nullIfEmpty(entry.Stage),
		entry.Message,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log warning: %w", err)
	}
	return nil
}

// #endregion log-warning

// #region list-warnings
// ListWarnings returns a run's diagnostics in insertion order.
func ListWarnings(db *sql.DB, runID string) ([]WarningEntry, error) {
	rows, err := db.Query(
		`SELECT run_id, doc_id, kind, stage, message, created_at
		 FROM run_warnings WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list warnings: %w", err)
	}
	defer rows.Close()

	var out []WarningEntry
	for rows.Next() {
		var e WarningEntry
		var docID, stage sql.NullString
		var createdStr string
		if err := rows.Scan(&e.RunID, &docID, &e.Kind, &stage, &e.Message, &createdStr); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		e.DocumentID = docID.String
		e.Stage = stage.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-warnings

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
