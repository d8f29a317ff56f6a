package annotation

import "fmt"

// #region integrity-error

// IntegrityKind names the way a dependency tree is malformed.
type IntegrityKind string

const (
	KindBadID        IntegrityKind = "bad_id"
	KindDanglingHead IntegrityKind = "dangling_head"
	KindCycle        IntegrityKind = "cycle"
)

// IntegrityError reports a malformed dependency tree in one sentence.
type IntegrityError struct {
	Sentence int // 0-based index within the document, -1 if unknown
	TokenID  int
	Kind     IntegrityKind
	Detail   string
}

func (e *IntegrityError) Error() string {
	if e.Sentence >= 0 {
		return fmt.Sprintf("sentence %d token %d: %s: %s", e.Sentence, e.TokenID, e.Kind, e.Detail)
	}
	return fmt.Sprintf("token %d: %s: %s", e.TokenID, e.Kind, e.Detail)
}

// #endregion integrity-error

// #region validate

// Validate checks the tree invariant: ids run 1..n in order, every head is 0
// or another token of the sentence, and following heads always reaches the root.
// The returned error is an *IntegrityError with Sentence set to -1.
func Validate(s Sentence) error {
	n := len(s.Tokens)
	for i, tok := range s.Tokens {
		if tok.ID != i+1 {
			return &IntegrityError{Sentence: -1, TokenID: tok.ID, Kind: KindBadID,
				Detail: fmt.Sprintf("expected id %d at position %d", i+1, i)}
		}
		if tok.Head < 0 || tok.Head > n {
			return &IntegrityError{Sentence: -1, TokenID: tok.ID, Kind: KindDanglingHead,
				Detail: fmt.Sprintf("head %d outside sentence of %d tokens", tok.Head, n)}
		}
		if tok.Head == tok.ID {
			return &IntegrityError{Sentence: -1, TokenID: tok.ID, Kind: KindCycle,
				Detail: "token is its own head"}
		}
	}

	// reaches[i] is true once token i+1 is known to reach the root.
	reaches := make([]bool, n)
	for _, tok := range s.Tokens {
		cur := tok
		steps := 0
		for cur.Head != 0 && !reaches[cur.ID-1] {
			steps++
			if steps > n {
				return &IntegrityError{Sentence: -1, TokenID: tok.ID, Kind: KindCycle,
					Detail: fmt.Sprintf("head chain exceeds %d steps", n)}
			}
			cur = s.Tokens[cur.Head-1]
		}
		reaches[tok.ID-1] = true
	}
	return nil
}

// #endregion validate

// #region split-valid

// SplitValid partitions a document's sentences into those satisfying Validate
// and the integrity errors of those that do not, with Sentence indices filled in.
func SplitValid(sentences []Sentence) ([]Sentence, []*IntegrityError) {
	valid := make([]Sentence, 0, len(sentences))
	var bad []*IntegrityError
	for i, s := range sentences {
		if err := Validate(s); err != nil {
			ie := err.(*IntegrityError)
			ie.Sentence = i
			bad = append(bad, ie)
			continue
		}
		valid = append(valid, s)
	}
	return valid, bad
}

// #endregion split-valid
