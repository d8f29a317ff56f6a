package construction

import "github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"

// #region classify

// Classify runs strategy over every sentence of a text and returns fresh
// records; nothing is carried between calls.
func Classify(strategy Strategy, sentences []annotation.Sentence) Result {
	res := Result{
		Language:      strategy.Language(),
		Constructions: newConstructions(),
		FunctionWords: newFunctionWords(),
	}

	for _, s := range sentences {
		strategy.Constructions(s, res.Constructions)
		strategy.Clauses(s, &res.Clauses)
		classifyFunctionWords(strategy, s, &res.FunctionWords)
	}
	return res
}

// #endregion classify

// #region function-words

func classifyFunctionWords(strategy Strategy, s annotation.Sentence, fw *FunctionWords) {
	for i, t := range s.Tokens {
		fw.WordCount++
		form := t.Form()

		switch t.UPOS {
		case annotation.UPOSAdp:
			role := strategy.Preposition(s, i)
			fw.Prepositions[role][form]++
			fw.TotalByType[TypePrepositions]++
		case annotation.UPOSDet:
			role, ok := strategy.Article(s, i)
			if !ok {
				continue
			}
			fw.Articles[role][form]++
			fw.TotalByType[TypeArticles]++
		case annotation.UPOSCConj:
			fw.Conjunctions[CoordinatingConj][form]++
			fw.TotalByType[TypeConjunctions]++
		case annotation.UPOSSConj:
			fw.Conjunctions[SubordinatingConj][form]++
			fw.TotalByType[TypeConjunctions]++
		}
	}
}

// #endregion function-words
