package annotation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// #region language

// Language is the declared language code of a document.
type Language string

const (
	Latin   Language = "la"
	Spanish Language = "es"
)

// #endregion language

// #region upos

// Universal part-of-speech tags the engine reacts to.
const (
	UPOSVerb  = "VERB"
	UPOSAux   = "AUX"
	UPOSAdp   = "ADP"
	UPOSDet   = "DET"
	UPOSCConj = "CCONJ"
	UPOSSConj = "SCONJ"
	UPOSNoun  = "NOUN"
	UPOSPunct = "PUNCT"
)

// #endregion upos

// #region features

// Features is the morphological feature set of a token (Tense=Fut, Case=Abl, ...).
// A missing key means the feature is not present.
type Features map[string]string

// ParseFeatures parses the CoNLL-U/Stanza form "Key=Val|Key=Val". "_" and "" yield nil.
func ParseFeatures(s string) Features {
	s = strings.TrimSpace(s)
	if s == "" || s == "_" {
		return nil
	}
	f := make(Features)
	for _, pair := range strings.Split(s, "|") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		f[k] = v
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

// Has reports whether key is present with exactly value.
// Multi-valued features ("PronType=Int,Rel") match any listed value.
func (f Features) Has(key, value string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	if v == value {
		return true
	}
	for _, part := range strings.Split(v, ",") {
		if part == value {
			return true
		}
	}
	return false
}

// String renders features in sorted CoNLL-U form.
func (f Features) String() string {
	if len(f) == 0 {
		return "_"
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + f[k]
	}
	return strings.Join(parts, "|")
}

// MarshalJSON writes the feature set as its CoNLL-U string.
func (f Features) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts either "Key=Val|..." or a JSON object.
func (f *Features) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = ParseFeatures(s)
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("feats: %w", err)
	}
	*f = Features(m)
	return nil
}

// #endregion features

// #region token

// Token is one annotated word as produced by the external annotator.
type Token struct {
	ID     int      `json:"id"`
	Text   string   `json:"text"`
	Lemma  string   `json:"lemma,omitempty"`
	UPOS   string   `json:"upos"`
	Head   int      `json:"head"`
	DepRel string   `json:"deprel"`
	Feats  Features `json:"feats,omitempty"`
}

// Form returns the lower-cased surface form.
func (t Token) Form() string {
	return strings.ToLower(t.Text)
}

// IsRoot reports whether the token attaches to the implicit root.
func (t Token) IsRoot() bool {
	return t.Head == 0
}

// #endregion token

// #region sentence

// Sentence is an ordered token sequence with an implicit root (id 0).
type Sentence struct {
	Tokens []Token `json:"tokens"`
}

// Len returns the number of tokens.
func (s Sentence) Len() int {
	return len(s.Tokens)
}

// Token looks up a token by its 1-based id. Assumes ids follow positions,
// which Validate enforces.
func (s Sentence) Token(id int) (Token, bool) {
	if id < 1 || id > len(s.Tokens) {
		return Token{}, false
	}
	return s.Tokens[id-1], true
}

// #endregion sentence

// #region document

// Document is one annotated text keyed by its corpus identifier.
type Document struct {
	ID        string     `json:"id"`
	Language  Language   `json:"language"`
	Sentences []Sentence `json:"sentences"`
}

// TokenCount returns the number of tokens across all sentences.
func (d Document) TokenCount() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Tokens)
	}
	return n
}

// #endregion document
