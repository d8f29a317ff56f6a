package construction

import (
	"fmt"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
)

// #region strategy

// Strategy holds the language-specific classification rules. One strategy is
// chosen per text from its declared language.
type Strategy interface {
	Language() annotation.Language
	// Constructions updates rec with the constructions found in s.
	Constructions(s annotation.Sentence, rec Constructions)
	// Preposition classifies the ADP token at index i of s.
	Preposition(s annotation.Sentence, i int) PrepositionRole
	// Article classifies the DET token at index i of s. ok is false when the
	// language has no article system and the token is not counted.
	Article(s annotation.Sentence, i int) (role ArticleRole, ok bool)
	// Clauses updates c with the clause constructions found in s.
	Clauses(s annotation.Sentence, c *Clauses)
}

// StrategyFor returns the strategy for a declared language.
func StrategyFor(lang annotation.Language, lex Lexicon) (Strategy, error) {
	switch lang {
	case annotation.Latin:
		return NewSynthetic(lex), nil
	case annotation.Spanish:
		return NewAnalytic(lex), nil
	default:
		return nil, fmt.Errorf("no classification strategy for language %q", lang)
	}
}

// #endregion strategy

// #region shared-rules

type baseRules struct {
	lex compiledLexicon
}

// Preposition applies the lexicon's case-marking, grammaticalized and
// spatial lists in that order. Anything else is "other".
func (b baseRules) Preposition(s annotation.Sentence, i int) PrepositionRole {
	prep := s.Tokens[i]
	form := prep.Form()
	switch {
	case b.lex.caseMarking.has(form):
		if governs(s, prep.ID, "nmod") {
			return CaseReplacement
		}
	case b.lex.gramm.has(form):
		if governs(s, prep.ID, "iobj") {
			return CaseReplacement
		}
		return Semantic
	}
	if b.lex.spat.has(form) {
		return Semantic
	}
	return PrepositionOther
}

// governs reports whether any token in s depends on id with relation deprel.
func governs(s annotation.Sentence, id int, deprel string) bool {
	for _, t := range s.Tokens {
		if t.Head == id && t.DepRel == deprel {
			return true
		}
	}
	return false
}

// #endregion shared-rules

// #region synthetic

// Synthetic classifies a language whose verbs carry tense and voice
// morphology (Latin).
type Synthetic struct {
	baseRules
}

// NewSynthetic builds the synthetic-marking strategy.
func NewSynthetic(lex Lexicon) *Synthetic {
	return &Synthetic{baseRules{lex: compile(lex)}}
}

func (*Synthetic) Language() annotation.Language { return annotation.Latin }

// Constructions counts each VERB at most once, preferring future over
// perfect over passive.
func (*Synthetic) Constructions(s annotation.Sentence, rec Constructions) {
	for _, t := range s.Tokens {
		if t.UPOS != annotation.UPOSVerb {
			continue
		}
		switch {
		case t.Feats.Has("Tense", "Fut"):
			rec[FutureTense].Synthetic++
		case t.Feats.Has("Tense", "Perf"):
			rec[PerfectTense].Synthetic++
		case t.Feats.Has("Voice", "Pass"):
			rec[PassiveVoice].Synthetic++
		}
	}
}

// Article never counts: Latin has no articles.
func (*Synthetic) Article(annotation.Sentence, int) (ArticleRole, bool) {
	return "", false
}

// Clauses counts ablative absolutes (ablative participles) and other participles.
func (*Synthetic) Clauses(s annotation.Sentence, c *Clauses) {
	for _, t := range s.Tokens {
		if !t.Feats.Has("VerbForm", "Part") {
			continue
		}
		if t.Feats.Has("Case", "Abl") {
			c.AblativeAbsolute++
		} else {
			c.Participial++
		}
	}
}

// #endregion synthetic

// #region analytic

// Analytic classifies a language expressing tense and voice with auxiliaries
// (Spanish).
type Analytic struct {
	baseRules
}

// NewAnalytic builds the analytic-marking strategy.
func NewAnalytic(lex Lexicon) *Analytic {
	return &Analytic{baseRules{lex: compile(lex)}}
}

func (*Analytic) Language() annotation.Language { return annotation.Spanish }

// Constructions pairs every AUX with the first VERB after it in the sentence.
func (a *Analytic) Constructions(s annotation.Sentence, rec Constructions) {
	for i, aux := range s.Tokens {
		if aux.UPOS != annotation.UPOSAux {
			continue
		}
		j := nextVerb(s, i)
		if j < 0 {
			continue
		}
		verb := s.Tokens[j]
		ct, ok := a.identify(s, i, verb)
		if !ok {
			continue
		}
		r := rec[ct]
		r.Analytic++
		r.Components[aux.Form()]++
		r.Components[verb.Form()]++
	}
}

func nextVerb(s annotation.Sentence, from int) int {
	for j := from + 1; j < len(s.Tokens); j++ {
		if s.Tokens[j].UPOS == annotation.UPOSVerb {
			return j
		}
	}
	return -1
}

func (a *Analytic) identify(s annotation.Sentence, auxIdx int, verb annotation.Token) (Type, bool) {
	aux := s.Tokens[auxIdx].Form()
	participle := verb.Feats.Has("VerbForm", "Part")
	switch {
	case a.lex.goAux.has(aux) && a.particleAfter(s, auxIdx):
		return FutureTense, true
	case a.lex.haveAux.has(aux) && participle:
		return PerfectTense, true
	case a.lex.beAux.has(aux) && participle:
		return PassiveVoice, true
	}
	return "", false
}

func (a *Analytic) particleAfter(s annotation.Sentence, auxIdx int) bool {
	if a.lex.futureParticle == "" {
		return false
	}
	for _, t := range s.Tokens[auxIdx+1:] {
		if t.Form() == a.lex.futureParticle {
			return true
		}
	}
	return false
}

// Article separates definite articles marking a core argument from plain
// definiteness. Determiners outside both article lists are "other".
func (a *Analytic) Article(s annotation.Sentence, i int) (ArticleRole, bool) {
	det := s.Tokens[i]
	form := det.Form()
	switch {
	case a.lex.definite.has(form):
		for _, t := range s.Tokens {
			if t.Head == det.Head && (t.DepRel == "nsubj" || t.DepRel == "obj") {
				return CaseMarking, true
			}
		}
		return Definiteness, true
	case a.lex.indefinite.has(form):
		return Definiteness, true
	}
	return ArticleOther, true
}

// Clauses counts subordination strategies, one per token, in the order
// complementizer, gerund, infinitive, relative clause.
func (a *Analytic) Clauses(s annotation.Sentence, c *Clauses) {
	for _, t := range s.Tokens {
		switch {
		case a.lex.complementizer != "" && t.Form() == a.lex.complementizer && t.UPOS == annotation.UPOSSConj:
			c.QueClauses++
		case t.Feats.Has("VerbForm", "Ger"):
			c.GerundClauses++
		case t.Feats.Has("VerbForm", "Inf"):
			c.InfinitiveClauses++
		case t.DepRel == "acl:relcl":
			c.RelativeClauses++
		}
	}
}

// #endregion analytic
