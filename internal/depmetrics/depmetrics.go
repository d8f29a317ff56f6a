package depmetrics

import (
	"fmt"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
)

// #region sentence-depths

// SentenceDepths walks every token's head chain to the root, counting links.
// The walk is bounded by the sentence length, so cycles and heads pointing
// outside the sentence come back as an *annotation.IntegrityError instead of
// looping.
func SentenceDepths(s annotation.Sentence) (SentenceMetrics, error) {
	n := len(s.Tokens)
	out := SentenceMetrics{Depths: make([]int, n)}

	for i, tok := range s.Tokens {
		if tok.ID != i+1 {
			return SentenceMetrics{}, &annotation.IntegrityError{Sentence: -1, TokenID: tok.ID,
				Kind: annotation.KindBadID, Detail: fmt.Sprintf("expected id %d", i+1)}
		}
		depth := 0
		cur := tok
		for cur.Head != 0 {
			if cur.Head < 0 || cur.Head > n {
				return SentenceMetrics{}, &annotation.IntegrityError{Sentence: -1, TokenID: cur.ID,
					Kind: annotation.KindDanglingHead, Detail: fmt.Sprintf("head %d outside sentence", cur.Head)}
			}
			depth++
			if depth > n {
				return SentenceMetrics{}, &annotation.IntegrityError{Sentence: -1, TokenID: tok.ID,
					Kind: annotation.KindCycle, Detail: fmt.Sprintf("head chain exceeds %d steps", n)}
			}
			cur = s.Tokens[cur.Head-1]
		}
		out.Depths[i] = depth
		if depth > out.MaxDepth {
			out.MaxDepth = depth
		}
	}
	return out, nil
}

// #endregion sentence-depths

// #region compute

// Compute builds the dependency profile of a text. Malformed sentences are
// left out of every tally and returned as integrity errors with their index.
func Compute(sentences []annotation.Sentence) (Metrics, []*annotation.IntegrityError) {
	m := Metrics{
		EmbeddingDepths: make([]int, 0, len(sentences)),
		Distances:       make(map[int]int),
		Relations:       make(map[Category]map[string]int, len(Categories)),
	}
	for _, c := range Categories {
		m.Relations[c] = make(map[string]int)
	}

	var skipped []*annotation.IntegrityError
	depthSum := 0
	for i, s := range sentences {
		sm, err := SentenceDepths(s)
		if err != nil {
			ie := err.(*annotation.IntegrityError)
			ie.Sentence = i
			skipped = append(skipped, ie)
			continue
		}

		for _, tok := range s.Tokens {
			if tok.IsRoot() {
				continue
			}
			m.Distances[absInt(tok.ID-tok.Head)]++
			if c, ok := CategoryOf(tok.DepRel); ok {
				m.Relations[c][tok.DepRel]++
			}
		}

		m.EmbeddingDepths = append(m.EmbeddingDepths, sm.MaxDepth)
		depthSum += sm.MaxDepth
		if sm.MaxDepth > m.MaxDepth {
			m.MaxDepth = sm.MaxDepth
		}
	}

	m.Sentences = len(m.EmbeddingDepths)
	if m.Sentences > 0 {
		m.AverageDepth = float64(depthSum) / float64(m.Sentences)
	}
	return m, skipped
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// #endregion compute
