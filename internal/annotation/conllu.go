package annotation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// #region read-conllu

// ReadCoNLLU parses CoNLL-U (the annotator's export format) into sentences.
// Multiword-token ranges ("3-4") and empty nodes ("5.1") are skipped; comment
// lines are ignored. Tree validity is not checked here, see Validate.
func ReadCoNLLU(r io.Reader) ([]Sentence, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var sentences []Sentence
	var cur []Token
	lineNo := 0

	flush := func() {
		if len(cur) > 0 {
			sentences = append(sentences, Sentence{Tokens: cur})
			cur = nil
		}
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 10 {
			return nil, fmt.Errorf("conllu line %d: expected 10 columns, got %d", lineNo, len(cols))
		}
		if strings.ContainsAny(cols[0], "-.") {
			continue
		}
		tok, err := parseCoNLLUToken(cols)
		if err != nil {
			return nil, fmt.Errorf("conllu line %d: %w", lineNo, err)
		}
		cur = append(cur, tok)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read conllu: %w", err)
	}
	flush()
	return sentences, nil
}

func parseCoNLLUToken(cols []string) (Token, error) {
	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return Token{}, fmt.Errorf("id %q: %w", cols[0], err)
	}
	head, err := strconv.Atoi(cols[6])
	if err != nil {
		return Token{}, fmt.Errorf("head %q: %w", cols[6], err)
	}
	return Token{
		ID:     id,
		Text:   cols[1],
		Lemma:  underscoreEmpty(cols[2]),
		UPOS:   underscoreEmpty(cols[3]),
		Feats:  ParseFeatures(cols[5]),
		Head:   head,
		DepRel: underscoreEmpty(cols[7]),
	}, nil
}

func underscoreEmpty(s string) string {
	if s == "_" {
		return ""
	}
	return s
}

// #endregion read-conllu

// #region write-conllu

// WriteCoNLLU writes sentences in CoNLL-U form. Columns the engine does not
// track (XPOS, DEPS, MISC) are written as "_".
func WriteCoNLLU(w io.Writer, sentences []Sentence) error {
	bw := bufio.NewWriter(w)
	for _, s := range sentences {
		for _, t := range s.Tokens {
			_, err := fmt.Fprintf(bw, "%d\t%s\t%s\t%s\t_\t%s\t%d\t%s\t_\t_\n",
				t.ID, t.Text, orUnderscore(t.Lemma), orUnderscore(t.UPOS),
				t.Feats.String(), t.Head, orUnderscore(t.DepRel))
			if err != nil {
				return fmt.Errorf("write conllu: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write conllu: %w", err)
		}
	}
	return bw.Flush()
}

func orUnderscore(s string) string {
	if s == "" {
		return "_"
	}
	return s
}

// #endregion write-conllu
