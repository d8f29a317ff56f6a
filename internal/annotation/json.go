package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// #region json-token

// jsonToken mirrors one word of a Stanza Document.to_dict() export. The id is
// raw because multiword tokens carry an [start, end] pair instead of an int.
type jsonToken struct {
	ID     json.RawMessage `json:"id"`
	Text   string          `json:"text"`
	Lemma  string          `json:"lemma"`
	UPOS   string          `json:"upos"`
	Head   int             `json:"head"`
	DepRel string          `json:"deprel"`
	Feats  Features        `json:"feats"`
}

// #endregion json-token

// #region read-json

// ReadJSON decodes annotated sentences from either a bare list of sentences
// (each a list of tokens, the Stanza export shape) or an object of the form
// {"sentences": [{"tokens": [...]}]}.
func ReadJSON(r io.Reader) ([]Sentence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raw [][]jsonToken
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse sentence list: %w", err)
		}
	} else {
		var wrapped struct {
			Sentences []struct {
				Tokens []jsonToken `json:"tokens"`
			} `json:"sentences"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parse sentence object: %w", err)
		}
		for _, s := range wrapped.Sentences {
			raw = append(raw, s.Tokens)
		}
	}

	sentences := make([]Sentence, 0, len(raw))
	for i, rs := range raw {
		s, err := fromJSONTokens(rs)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}

func fromJSONTokens(raw []jsonToken) (Sentence, error) {
	tokens := make([]Token, 0, len(raw))
	for _, jt := range raw {
		trimmed := bytes.TrimSpace(jt.ID)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			continue
		}
		var id int
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return Sentence{}, fmt.Errorf("token id %s: %w", string(jt.ID), err)
		}
		tokens = append(tokens, Token{
			ID:     id,
			Text:   jt.Text,
			Lemma:  jt.Lemma,
			UPOS:   jt.UPOS,
			Head:   jt.Head,
			DepRel: jt.DepRel,
			Feats:  jt.Feats,
		})
	}
	return Sentence{Tokens: tokens}, nil
}

// #endregion read-json
