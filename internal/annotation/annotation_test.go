package annotation

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// #region helpers
func sent(tokens ...Token) Sentence {
	return Sentence{Tokens: tokens}
}

func tok(id, head int, deprel string) Token {
	return Token{ID: id, Head: head, DepRel: deprel, Text: "w"}
}

// #endregion helpers

// #region features-tests
func TestParseFeatures(t *testing.T) {
	f := ParseFeatures("Case=Abl|VerbForm=Part|PronType=Int,Rel")
	if !f.Has("Case", "Abl") {
		t.Error("expected Case=Abl")
	}
	if !f.Has("VerbForm", "Part") {
		t.Error("expected VerbForm=Part")
	}
	if !f.Has("PronType", "Rel") {
		t.Error("expected multi-valued PronType to match Rel")
	}
	if f.Has("Tense", "Fut") {
		t.Error("absent feature must not match")
	}
}

func TestParseFeatures_Empty(t *testing.T) {
	for _, in := range []string{"", "_", "  "} {
		if f := ParseFeatures(in); f != nil {
			t.Errorf("ParseFeatures(%q) = %v, want nil", in, f)
		}
	}
	var f Features
	if f.Has("Tense", "Fut") {
		t.Error("nil features must report nothing present")
	}
	if f.String() != "_" {
		t.Errorf("nil features string = %q, want _", f.String())
	}
}

func TestFeaturesString_Sorted(t *testing.T) {
	f := Features{"Voice": "Pass", "Case": "Nom"}
	if got := f.String(); got != "Case=Nom|Voice=Pass" {
		t.Errorf("got %q", got)
	}
}

// #endregion features-tests

// #region validate-tests
func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		s        Sentence
		wantKind IntegrityKind // "" means valid
	}{
		{"valid", sent(tok(1, 2, "nsubj"), tok(2, 0, "root"), tok(3, 2, "obj")), ""},
		{"empty", sent(), ""},
		{"flat", sent(tok(1, 0, "root"), tok(2, 0, "root")), ""},
		{"bad-id", sent(tok(1, 0, "root"), tok(3, 1, "obj")), KindBadID},
		{"dangling", sent(tok(1, 0, "root"), tok(2, 7, "obj")), KindDanglingHead},
		{"negative-head", sent(tok(1, -1, "root")), KindDanglingHead},
		{"self-loop", sent(tok(1, 1, "root")), KindCycle},
		{"two-cycle", sent(tok(1, 2, "nsubj"), tok(2, 1, "obj"), tok(3, 0, "root")), KindCycle},
		{"long-cycle", sent(tok(1, 2, "x"), tok(2, 3, "x"), tok(3, 1, "x")), KindCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.s)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ie *IntegrityError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *IntegrityError, got %v", err)
			}
			if ie.Kind != tt.wantKind {
				t.Errorf("kind: got %q, want %q", ie.Kind, tt.wantKind)
			}
		})
	}
}

func TestSplitValid(t *testing.T) {
	good := sent(tok(1, 0, "root"))
	bad := sent(tok(1, 2, "x"), tok(2, 1, "x"))
	valid, errs := SplitValid([]Sentence{good, bad, good})

	if len(valid) != 2 {
		t.Fatalf("expected 2 valid sentences, got %d", len(valid))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 integrity error, got %d", len(errs))
	}
	if errs[0].Sentence != 1 {
		t.Errorf("expected sentence index 1, got %d", errs[0].Sentence)
	}
	if !strings.Contains(errs[0].Error(), "sentence 1") {
		t.Errorf("error text should name the sentence: %q", errs[0].Error())
	}
}

// #endregion validate-tests

// #region conllu-tests
const sampleCoNLLU = `# sent_id = 1
# text = Caesar Galliam vicit.
1	Caesar	Caesar	PROPN	_	Case=Nom|Number=Sing	3	nsubj	_	_
2	Galliam	Gallia	PROPN	_	Case=Acc|Number=Sing	3	obj	_	_
3	vicit	vinco	VERB	_	Tense=Perf|Voice=Act	0	root	_	_
4	.	.	PUNCT	_	_	3	punct	_	_

1-2	del	_	_	_	_	_	_	_	_
1	de	de	ADP	_	_	2	case	_	_
2	el	el	DET	_	Definite=Def	0	root	_	_
`

func TestReadCoNLLU(t *testing.T) {
	sentences, err := ReadCoNLLU(strings.NewReader(sampleCoNLLU))
	if err != nil {
		t.Fatalf("ReadCoNLLU: %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if sentences[0].Len() != 4 {
		t.Fatalf("expected 4 tokens, got %d", sentences[0].Len())
	}
	verb, ok := sentences[0].Token(3)
	if !ok {
		t.Fatal("token 3 missing")
	}
	if verb.UPOS != UPOSVerb || !verb.Feats.Has("Tense", "Perf") || !verb.IsRoot() {
		t.Errorf("unexpected verb token: %+v", verb)
	}
	punct, _ := sentences[0].Token(4)
	if punct.Feats != nil {
		t.Errorf("expected nil feats for '_', got %v", punct.Feats)
	}
	if sentences[1].Len() != 2 {
		t.Errorf("multiword range must be skipped, got %d tokens", sentences[1].Len())
	}
}

func TestReadCoNLLU_BadColumns(t *testing.T) {
	_, err := ReadCoNLLU(strings.NewReader("1\tonly\tthree\n"))
	if err == nil {
		t.Fatal("expected error for short line")
	}
}

func TestReadCoNLLU_BadHead(t *testing.T) {
	line := "1\tx\tx\tNOUN\t_\t_\tq\troot\t_\t_\n"
	if _, err := ReadCoNLLU(strings.NewReader(line)); err == nil {
		t.Fatal("expected error for non-numeric head")
	}
}

func TestWriteCoNLLU_RoundTrip(t *testing.T) {
	in, err := ReadCoNLLU(strings.NewReader(sampleCoNLLU))
	if err != nil {
		t.Fatalf("ReadCoNLLU: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCoNLLU(&buf, in); err != nil {
		t.Fatalf("WriteCoNLLU: %v", err)
	}
	out, err := ReadCoNLLU(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(out) != len(in) || out[0].Tokens[2].Feats.String() != in[0].Tokens[2].Feats.String() {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
}

// #endregion conllu-tests

// #region json-tests
func TestReadJSON_StanzaList(t *testing.T) {
	data := `[[
		{"id": [1, 2], "text": "del"},
		{"id": 1, "text": "Ha", "upos": "AUX", "head": 2, "deprel": "aux"},
		{"id": 2, "text": "venido", "upos": "VERB", "head": 0, "deprel": "root", "feats": "VerbForm=Part|Gender=Masc"}
	]]`
	sentences, err := ReadJSON(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(sentences) != 1 || sentences[0].Len() != 2 {
		t.Fatalf("unexpected shape: %+v", sentences)
	}
	if !sentences[0].Tokens[1].Feats.Has("VerbForm", "Part") {
		t.Error("expected VerbForm=Part parsed from feats string")
	}
}

func TestReadJSON_Object(t *testing.T) {
	data := `{"sentences": [{"tokens": [
		{"id": 1, "text": "amabit", "upos": "VERB", "head": 0, "deprel": "root", "feats": {"Tense": "Fut"}}
	]}]}`
	sentences, err := ReadJSON(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(sentences) != 1 || !sentences[0].Tokens[0].Feats.Has("Tense", "Fut") {
		t.Fatalf("unexpected result: %+v", sentences)
	}
}

func TestReadJSON_Empty(t *testing.T) {
	sentences, err := ReadJSON(strings.NewReader("  "))
	if err != nil || sentences != nil {
		t.Fatalf("expected nil, nil; got %v, %v", sentences, err)
	}
}

func TestReadJSON_BadID(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[[{"id": "x", "text": "a"}]]`))
	if err == nil {
		t.Fatal("expected error for string id")
	}
}

// #endregion json-tests
