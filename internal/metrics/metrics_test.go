package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Document(t *testing.T) {
	r := New()
	r.Document("Classical", 12, 3*time.Millisecond)
	r.Document("Classical", 3, time.Millisecond)
	r.Document("Spanish", 5, time.Millisecond)

	if got := testutil.ToFloat64(r.DocumentsTotal.WithLabelValues("Classical")); got != 2 {
		t.Errorf("DocumentsTotal[Classical] = %f, want 2", got)
	}
	if got := testutil.ToFloat64(r.SentencesTotal); got != 20 {
		t.Errorf("SentencesTotal = %f, want 20", got)
	}
	if got := testutil.CollectAndCount(r.AnalysisSeconds); got != 1 {
		t.Errorf("AnalysisSeconds collected %d metrics, want 1", got)
	}
}

func TestRecorder_Failures(t *testing.T) {
	r := New()
	r.IntegrityError("cycle")
	r.IntegrityError("cycle")
	r.IntegrityError("dangling_head")
	r.AnnotatorFailure()
	r.Dropped(3)

	if got := testutil.ToFloat64(r.IntegrityErrorsTotal.WithLabelValues("cycle")); got != 2 {
		t.Errorf("IntegrityErrorsTotal[cycle] = %f, want 2", got)
	}
	if got := testutil.ToFloat64(r.AnnotatorFailuresTotal); got != 1 {
		t.Errorf("AnnotatorFailuresTotal = %f, want 1", got)
	}
	if got := testutil.ToFloat64(r.DroppedDocumentsTotal); got != 3 {
		t.Errorf("DroppedDocumentsTotal = %f, want 3", got)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.Document("Classical", 1, time.Millisecond)
	r.IntegrityError("cycle")
	r.AnnotatorFailure()
	r.Dropped(1)
	if _, err := r.Gatherer().Gather(); err != nil {
		t.Errorf("nil recorder gather: %v", err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.Document("Medieval", 4, time.Millisecond)

	path := filepath.Join(t.TempDir(), "complexity.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `complexity_documents_analyzed_total{period="Medieval"} 1`) {
		t.Errorf("textfile missing document counter:\n%s", data)
	}
}
