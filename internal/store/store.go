package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/logging"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/pipeline"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	created_at     TEXT NOT NULL,
	seed           INTEGER NOT NULL,
	document_count INTEGER NOT NULL,
	failure_count  INTEGER NOT NULL,
	warning_count  INTEGER NOT NULL,
	config_json    TEXT,
	report_json    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_documents (
	run_id        TEXT NOT NULL,
	doc_id        TEXT NOT NULL,
	period        TEXT,
	language      TEXT NOT NULL,
	word_count    INTEGER NOT NULL,
	average_depth REAL NOT NULL,
	article_rate  REAL NOT NULL,
	bundle_json   TEXT NOT NULL,
	PRIMARY KEY (run_id, doc_id),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS run_warnings (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	doc_id     TEXT,
	kind       TEXT NOT NULL,
	stage      TEXT,
	message    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// #endregion schema

// #region types

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunRecord is one stored analysis run.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	CreatedAt  time.Time `json:"created_at"`
	Seed       uint64    `json:"seed"`
	Documents  int       `json:"documents"`
	Failures   int       `json:"failures"`
	Warnings   int       `json:"warnings"`
	ConfigJSON string    `json:"-"`
	ReportJSON string    `json:"-"`
}

// Report decodes the stored report.
func (r RunRecord) Report() (*pipeline.Report, error) {
	var rep pipeline.Report
	if err := json.Unmarshal([]byte(r.ReportJSON), &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", r.RunID, err)
	}
	return &rep, nil
}

// DocumentRow is the per-document summary stored with a run.
type DocumentRow struct {
	DocumentID   string  `json:"document_id"`
	Period       string  `json:"period"`
	Language     string  `json:"language"`
	WordCount    int     `json:"word_count"`
	AverageDepth float64 `json:"average_depth"`
	ArticleRate  float64 `json:"article_rate"`
}

// #endregion types

// #region store-struct
// Store persists analysis runs in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region save-run
// SaveRun assigns the report a run ID and stores it with its documents,
// warnings and failures. configJSON may be empty.
func (s *Store) SaveRun(report *pipeline.Report, configJSON string) (string, error) {
	report.RunID = uuid.New().String()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, created_at, seed, document_count, failure_count, warning_count, config_json, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.CreatedAt.UTC().Format(timeLayout), int64(report.Seed),
		len(report.Documents), len(report.Failures), len(report.Warnings),
		nullIfEmpty(configJSON), string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, b := range report.Documents {
		bundleJSON, err := json.Marshal(b)
		if err != nil {
			return "", fmt.Errorf("marshal bundle %s: %w", b.DocumentID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO run_documents (run_id, doc_id, period, language, word_count, average_depth, article_rate, bundle_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, b.DocumentID, nullIfEmpty(string(b.Period)), string(b.Language),
			b.WordCount(), b.Dependency.AverageDepth, b.Normalized.ArticleRate, string(bundleJSON),
		)
		if err != nil {
			return "", fmt.Errorf("insert document %s: %w", b.DocumentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	for _, w := range report.Warnings {
		if err := logging.LogWarning(s.db, logging.WarningEntry{
			RunID:      report.RunID,
			DocumentID: w.DocumentID,
			Kind:       logging.KindWarning,
			Message:    w.Message,
		}); err != nil {
			return report.RunID, err
		}
	}
	for _, f := range report.Failures {
		if err := logging.LogWarning(s.db, logging.WarningEntry{
			RunID:      report.RunID,
			DocumentID: f.DocumentID,
			Kind:       logging.KindFailure,
			Stage:      f.Stage,
			Message:    f.Error,
		}); err != nil {
			return report.RunID, err
		}
	}
	return report.RunID, nil
}

// #endregion save-run

// #region get-run
// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (RunRecord, error) {
	var rec RunRecord
	var createdStr string
	var seed int64
	var configJSON sql.NullString

	err := s.db.QueryRow(
		`SELECT run_id, created_at, seed, document_count, failure_count, warning_count, config_json, report_json
		 FROM runs WHERE run_id = ?`, id,
	).Scan(&rec.RunID, &createdStr, &seed, &rec.Documents, &rec.Failures, &rec.Warnings, &configJSON, &rec.ReportJSON)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	rec.Seed = uint64(seed)
	rec.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	rec.ConfigJSON = configJSON.String
	return rec, nil
}

// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs first, without their report bodies.
// A limit of 0 or less returns every run.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT run_id, created_at, seed, document_count, failure_count, warning_count
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdStr string
		var seed int64
		if err := rows.Scan(&rec.RunID, &createdStr, &seed, &rec.Documents, &rec.Failures, &rec.Warnings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Seed = uint64(seed)
		rec.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion list-runs

// #region list-documents
// ListDocuments returns a run's per-document rows ordered by identifier.
func (s *Store) ListDocuments(runID string) ([]DocumentRow, error) {
	rows, err := s.db.Query(
		`SELECT doc_id, period, language, word_count, average_depth, article_rate
		 FROM run_documents WHERE run_id = ? ORDER BY doc_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var d DocumentRow
		var period sql.NullString
		if err := rows.Scan(&d.DocumentID, &period, &d.Language, &d.WordCount, &d.AverageDepth, &d.ArticleRate); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.Period = period.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// #endregion list-documents

// Warnings returns the diagnostics stored with a run.
func (s *Store) Warnings(runID string) ([]logging.WarningEntry, error) {
	return logging.ListWarnings(s.db, runID)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
