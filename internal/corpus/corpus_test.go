package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/metrics"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/pipeline"
)

const caesarCoNLLU = `# text = Caesar vidit hostes
1	Caesar	Caesar	PROPN	_	Case=Nom	2	nsubj	_	_
2	vidit	video	VERB	_	Tense=Perf	0	root	_	_
3	hostes	hostis	NOUN	_	Case=Acc	2	obj	_	_

`

const cidJSON = `[[
 {"id": 1, "text": "el", "upos": "DET", "head": 2, "deprel": "det"},
 {"id": 2, "text": "rey", "upos": "NOUN", "head": 0, "deprel": "root"}
]]`

// #region helpers
type fakeAnnotator struct {
	mu    sync.Mutex
	calls map[string]annotation.Language
	err   error
}

func (f *fakeAnnotator) Annotate(_ context.Context, docID string, lang annotation.Language, text string) ([]annotation.Sentence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]annotation.Language)
	}
	f.calls[docID] = lang
	if f.err != nil {
		return nil, f.err
	}
	var tokens []annotation.Token
	for i, w := range strings.Fields(text) {
		head := 1
		if i == 0 {
			head = 0
		}
		tokens = append(tokens, annotation.Token{ID: i + 1, Text: w, UPOS: "NOUN", Head: head, DepRel: "dep"})
	}
	return []annotation.Sentence{{Tokens: tokens}}, nil
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newLoader(ann Annotator) *Loader {
	return &Loader{
		Layout:    DefaultLayout(),
		Periods:   aggregate.DefaultPeriods(),
		Annotator: ann,
		Workers:   2,
	}
}

// #endregion helpers

func TestLoad_Layout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "classical_latin", "caesar_bg_1.conllu"), caesarCoNLLU)
	writeFile(t, filepath.Join(root, "early_spanish", "cid.json"), cidJSON)
	writeFile(t, filepath.Join(root, "medieval_latin", "bede.txt"), "Beda scripsit historiam")
	writeFile(t, filepath.Join(root, "medieval_latin", "notes.md"), "ignored")

	ann := &fakeAnnotator{}
	res, err := newLoader(ann).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", res.Failures)
	}
	if len(res.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(res.Documents))
	}

	want := []struct {
		id   string
		lang annotation.Language
	}{
		{"latin_caesar_bg_1", annotation.Latin},
		{"medieval_bede", annotation.Latin},
		{"spanish_cid", annotation.Spanish},
	}
	for i, w := range want {
		d := res.Documents[i]
		if d.ID != w.id || d.Language != w.lang {
			t.Errorf("document %d: got (%s, %s), want (%s, %s)", i, d.ID, d.Language, w.id, w.lang)
		}
	}
	if res.Documents[0].TokenCount() != 3 {
		t.Errorf("caesar tokens: %d", res.Documents[0].TokenCount())
	}
	if ann.calls["medieval_bede"] != annotation.Latin {
		t.Errorf("medieval text must be annotated as latin, got %q", ann.calls["medieval_bede"])
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "classical_latin", "bad.conllu"), "1\tonly\tthree\n")
	writeFile(t, filepath.Join(root, "classical_latin", "good.conllu"), caesarCoNLLU)

	res, err := newLoader(nil).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Documents) != 1 || res.Documents[0].ID != "latin_good" {
		t.Errorf("documents: %+v", res.Documents)
	}
	if len(res.Failures) != 1 || res.Failures[0].DocumentID != "latin_bad" || res.Failures[0].Stage != pipeline.StageLoad {
		t.Errorf("failures: %+v", res.Failures)
	}
}

func TestLoad_RootFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "unknown_text_1.conllu"), caesarCoNLLU)
	writeFile(t, filepath.Join(root, "spanish_cid.json"), cidJSON)

	res, err := newLoader(nil).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(res.Documents))
	}
	if res.Documents[1].ID != "unknown_text_1" || res.Documents[1].Language != "" {
		t.Errorf("unknown prefix keeps its id and no language: %+v", res.Documents[1])
	}
}

func TestLoad_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, path, "x")
	if _, err := newLoader(nil).Load(context.Background(), path); err == nil {
		t.Error("expected error for a file root")
	}
	if _, err := newLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for a missing root")
	}
}

func TestLoadTexts(t *testing.T) {
	ann := &fakeAnnotator{}
	res, err := newLoader(ann).LoadTexts(context.Background(), map[string]string{
		"spanish_cid":    "mio cid",
		"latin_caesar":   "Gallia est",
		"unknown_text_1": "nihil",
	})
	if err != nil {
		t.Fatalf("LoadTexts: %v", err)
	}
	if len(res.Documents) != 2 || res.Documents[0].ID != "latin_caesar" {
		t.Errorf("documents: %+v", res.Documents)
	}
	if len(res.Failures) != 1 || res.Failures[0].DocumentID != "unknown_text_1" {
		t.Errorf("failures: %+v", res.Failures)
	}
	if _, called := ann.calls["unknown_text_1"]; called {
		t.Error("text with no known language should not be sent")
	}
}

func TestLoadTexts_AnnotatorFailure(t *testing.T) {
	rec := metrics.New()
	l := newLoader(&fakeAnnotator{err: errors.New("stanza down")})
	l.Metrics = rec

	res, err := l.LoadTexts(context.Background(), map[string]string{"spanish_a": "x", "spanish_b": "y"})
	if err != nil {
		t.Fatalf("LoadTexts: %v", err)
	}
	if len(res.Failures) != 2 || res.Failures[0].Stage != pipeline.StageAnnotate {
		t.Errorf("failures: %+v", res.Failures)
	}
	if got := testutil.ToFloat64(rec.AnnotatorFailuresTotal); got != 2 {
		t.Errorf("annotator failures: %f", got)
	}
}

func TestLoadTexts_NoAnnotator(t *testing.T) {
	res, err := newLoader(nil).LoadTexts(context.Background(), map[string]string{"latin_a": "x"})
	if err != nil {
		t.Fatalf("LoadTexts: %v", err)
	}
	if len(res.Failures) != 1 || !strings.Contains(res.Failures[0].Error, "annotation service") {
		t.Errorf("failures: %+v", res.Failures)
	}
}

func TestDocumentID(t *testing.T) {
	tests := []struct{ prefix, name, want string }{
		{"latin_", "caesar_bg_1.conllu", "latin_caesar_bg_1"},
		{"latin_", "latin_caesar.json", "latin_caesar"},
		{"", "unknown_text_1.txt", "unknown_text_1"},
	}
	for _, tt := range tests {
		if got := DocumentID(tt.prefix, tt.name); got != tt.want {
			t.Errorf("DocumentID(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}
