package depmetrics

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
)

// #region helpers
func tok(id, head int, deprel string) annotation.Token {
	return annotation.Token{ID: id, Head: head, DepRel: deprel, Text: "w"}
}

func sent(tokens ...annotation.Token) annotation.Sentence {
	return annotation.Sentence{Tokens: tokens}
}

// subjVerbObj is nsubj <- root -> obj.
func subjVerbObj() annotation.Sentence {
	return sent(tok(1, 2, "nsubj"), tok(2, 0, "root"), tok(3, 2, "obj"))
}

// #endregion helpers

// #region sentence-depth-tests
func TestSentenceDepths_SubjVerbObj(t *testing.T) {
	sm, err := SentenceDepths(subjVerbObj())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(sm.Depths, []int{1, 0, 1}) {
		t.Errorf("depths: got %v, want [1 0 1]", sm.Depths)
	}
	if sm.MaxDepth != 1 {
		t.Errorf("max depth: got %d, want 1", sm.MaxDepth)
	}
}

func TestSentenceDepths_Chain(t *testing.T) {
	// 4 -> 3 -> 2 -> 1 -> root
	sm, err := SentenceDepths(sent(tok(1, 0, "root"), tok(2, 1, "obj"), tok(3, 2, "nmod"), tok(4, 3, "amod")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.MaxDepth != 3 {
		t.Errorf("max depth: got %d, want 3", sm.MaxDepth)
	}
}

func TestSentenceDepths_FlatIsZero(t *testing.T) {
	sm, err := SentenceDepths(sent(tok(1, 0, "root"), tok(2, 0, "root"), tok(3, 0, "root")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.MaxDepth != 0 {
		t.Errorf("flat sentence should have depth 0, got %d", sm.MaxDepth)
	}
}

func TestSentenceDepths_NonFlatIsPositive(t *testing.T) {
	sm, _ := SentenceDepths(sent(tok(1, 0, "root"), tok(2, 0, "root"), tok(3, 1, "obj")))
	if sm.MaxDepth == 0 {
		t.Error("a sentence with any non-root head must have depth > 0")
	}
}

func TestSentenceDepths_Malformed(t *testing.T) {
	tests := []struct {
		name string
		s    annotation.Sentence
		want annotation.IntegrityKind
	}{
		{"cycle", sent(tok(1, 2, "x"), tok(2, 1, "x")), annotation.KindCycle},
		{"self", sent(tok(1, 1, "x")), annotation.KindCycle},
		{"dangling", sent(tok(1, 0, "root"), tok(2, 9, "obj")), annotation.KindDanglingHead},
		{"bad-id", sent(tok(2, 0, "root")), annotation.KindBadID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SentenceDepths(tt.s)
			var ie *annotation.IntegrityError
			if !errors.As(err, &ie) {
				t.Fatalf("expected IntegrityError, got %v", err)
			}
			if ie.Kind != tt.want {
				t.Errorf("kind: got %q, want %q", ie.Kind, tt.want)
			}
		})
	}
}

// #endregion sentence-depth-tests

// #region compute-tests
func TestCompute_Scenario(t *testing.T) {
	m, skipped := Compute([]annotation.Sentence{subjVerbObj()})
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped sentences: %v", skipped)
	}
	if m.MaxDepth != 1 {
		t.Errorf("max depth: got %d, want 1", m.MaxDepth)
	}
	if !reflect.DeepEqual(m.Distances, map[int]int{1: 2}) {
		t.Errorf("distances: got %v, want map[1:2]", m.Distances)
	}
	if got := m.CategoryTotal(ArgumentStructure); got != 2 {
		t.Errorf("argument structure: got %d, want 2", got)
	}
	if m.Relations[ArgumentStructure]["nsubj"] != 1 || m.Relations[ArgumentStructure]["obj"] != 1 {
		t.Errorf("per-label counts: %v", m.Relations[ArgumentStructure])
	}
	if m.AverageDepth != 1.0 {
		t.Errorf("average depth: got %f, want 1", m.AverageDepth)
	}
}

func TestCompute_Categories(t *testing.T) {
	s := sent(
		tok(1, 0, "root"),
		tok(2, 1, "amod"),
		tok(3, 1, "advmod"),
		tok(4, 1, "conj"),
		tok(5, 4, "cc"),
		tok(6, 1, "punct"),
		tok(7, 1, "acl:relcl"),
	)
	m, _ := Compute([]annotation.Sentence{s})
	if got := m.CategoryTotal(Modification); got != 2 {
		t.Errorf("modification: got %d, want 2", got)
	}
	if got := m.CategoryTotal(Coordination); got != 2 {
		t.Errorf("coordination: got %d, want 2", got)
	}
	if got := m.CategoryTotal(ArgumentStructure); got != 0 {
		t.Errorf("argument structure: got %d, want 0", got)
	}
}

func TestCompute_DistancesAtLeastOne(t *testing.T) {
	s := sent(tok(1, 3, "nsubj"), tok(2, 3, "advmod"), tok(3, 0, "root"), tok(4, 3, "obj"), tok(5, 1, "amod"))
	m, _ := Compute([]annotation.Sentence{s})
	total := 0
	for d, n := range m.Distances {
		if d < 1 {
			t.Errorf("distance %d < 1", d)
		}
		total += n
	}
	if total != 4 {
		t.Errorf("expected 4 non-root distances, got %d", total)
	}
	if m.MeanDistance() != (2.0+1+1+4)/4 {
		t.Errorf("mean distance: got %f", m.MeanDistance())
	}
}

func TestCompute_SkipsMalformed(t *testing.T) {
	cyclic := sent(tok(1, 2, "nsubj"), tok(2, 1, "obj"))
	m, skipped := Compute([]annotation.Sentence{subjVerbObj(), cyclic, subjVerbObj()})
	if len(skipped) != 1 || skipped[0].Sentence != 1 {
		t.Fatalf("expected sentence 1 skipped, got %v", skipped)
	}
	if m.Sentences != 2 {
		t.Errorf("expected 2 analyzed sentences, got %d", m.Sentences)
	}
	if m.CategoryTotal(ArgumentStructure) != 4 {
		t.Errorf("malformed sentence leaked into counts: %v", m.Relations)
	}
}

func TestCompute_Empty(t *testing.T) {
	m, skipped := Compute(nil)
	if len(skipped) != 0 || m.AverageDepth != 0 || m.MaxDepth != 0 || m.Sentences != 0 {
		t.Errorf("unexpected metrics for empty text: %+v", m)
	}
	if m.MeanDistance() != 0 {
		t.Error("mean distance of empty text must be 0")
	}
}

func TestCompute_Idempotent(t *testing.T) {
	text := []annotation.Sentence{
		subjVerbObj(),
		sent(tok(1, 0, "root"), tok(2, 1, "conj"), tok(3, 2, "cc")),
	}
	a, _ := Compute(text)
	b, _ := Compute(text)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two runs differ:\n%+v\n%+v", a, b)
	}
}

// #endregion compute-tests
