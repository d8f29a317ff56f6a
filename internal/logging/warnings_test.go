package logging

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TABLE run_warnings (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		doc_id     TEXT,
		kind       TEXT NOT NULL,
		stage      TEXT,
		message    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-warning-tests
func TestLogWarning_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := WarningEntry{
		RunID:      "run-1",
		DocumentID: "unknown_text_1",
		Kind:       KindWarning,
		Message:    "no period prefix matches",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := LogWarning(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ListWarnings(db, "run-1")
	if err != nil {
		t.Fatalf("ListWarnings: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].DocumentID != "unknown_text_1" || got[0].Kind != KindWarning {
		t.Errorf("unexpected entry: %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("created_at: got %v", got[0].CreatedAt)
	}
}

func TestLogWarning_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	before := time.Now().UTC()
	if err := LogWarning(db, WarningEntry{RunID: "run-2", Kind: KindFailure, Message: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM run_warnings").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogWarning_EmptyOptionalFields(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	if err := LogWarning(db, WarningEntry{RunID: "run-3", Kind: KindWarning, Message: "m"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var docID, stage sql.NullString
	db.QueryRow("SELECT doc_id, stage FROM run_warnings").Scan(&docID, &stage)
	if docID.Valid {
		t.Error("expected NULL doc_id for empty string")
	}
	if stage.Valid {
		t.Error("expected NULL stage for empty string")
	}
}

func TestLogWarning_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	if err := LogWarning(db, WarningEntry{RunID: "run-4", Kind: KindWarning, Message: "m"}); err == nil {
		t.Fatal("expected error on closed db")
	}
}

func TestListWarnings_FiltersByRun(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	LogWarning(db, WarningEntry{RunID: "a", Kind: KindWarning, Message: "1"})
	LogWarning(db, WarningEntry{RunID: "b", Kind: KindFailure, Stage: "annotate", Message: "2"})
	LogWarning(db, WarningEntry{RunID: "a", Kind: KindWarning, Message: "3"})

	got, err := ListWarnings(db, "a")
	if err != nil {
		t.Fatalf("ListWarnings: %v", err)
	}
	if len(got) != 2 || got[0].Message != "1" || got[1].Message != "3" {
		t.Errorf("unexpected warnings: %+v", got)
	}
}

// #endregion log-warning-tests

// #region null-if-empty-tests
func TestNullIfEmpty(t *testing.T) {
	if nullIfEmpty("") != nil {
		t.Error("expected nil for empty string")
	}
	if nullIfEmpty("hello") != "hello" {
		t.Error("expected 'hello'")
	}
}

// #endregion null-if-empty-tests
