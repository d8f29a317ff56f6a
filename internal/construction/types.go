package construction

import "github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"

// #region construction-type

// Type names a grammatical meaning that can be expressed synthetically or analytically.
type Type string

const (
	FutureTense  Type = "future_tense"
	PerfectTense Type = "perfect_tense"
	PassiveVoice Type = "passive_voice"
	Conditional  Type = "conditional"
)

// Types lists construction types in report order.
var Types = []Type{FutureTense, PerfectTense, PassiveVoice, Conditional}

// ShiftTypes are the types summed by the synthetic-to-analytic shift analysis.
var ShiftTypes = []Type{PassiveVoice, PerfectTense, FutureTense}

// #endregion construction-type

// #region record

// Record counts one construction type in one text. Components tallies the
// lower-cased auxiliary and main-verb forms of every analytic match.
type Record struct {
	Synthetic  int            `json:"synthetic"`
	Analytic   int            `json:"analytic"`
	Components map[string]int `json:"components"`
}

// Constructions maps every construction type to its record.
type Constructions map[Type]*Record

func newConstructions() Constructions {
	c := make(Constructions, len(Types))
	for _, t := range Types {
		c[t] = &Record{Components: make(map[string]int)}
	}
	return c
}

// Totals sums synthetic and analytic counts over the given types.
func (c Constructions) Totals(types ...Type) (synthetic, analytic int) {
	for _, t := range types {
		if r, ok := c[t]; ok && r != nil {
			synthetic += r.Synthetic
			analytic += r.Analytic
		}
	}
	return synthetic, analytic
}

// #endregion record

// #region function-word-roles

// PrepositionRole classifies an ADP token.
type PrepositionRole string

const (
	CaseReplacement  PrepositionRole = "case_replacement"
	Semantic         PrepositionRole = "semantic"
	PrepositionOther PrepositionRole = "other"
)

// ArticleRole classifies a DET token in a language with articles.
type ArticleRole string

const (
	Definiteness ArticleRole = "definiteness"
	CaseMarking  ArticleRole = "case_marking"
	ArticleOther ArticleRole = "other"
)

// ConjunctionType separates CCONJ from SCONJ.
type ConjunctionType string

const (
	CoordinatingConj  ConjunctionType = "coordination"
	SubordinatingConj ConjunctionType = "subordination"
)

// Function-word type keys used in FunctionWords.TotalByType.
const (
	TypePrepositions = "prepositions"
	TypeArticles     = "articles"
	TypeConjunctions = "conjunctions"
)

// #endregion function-word-roles

// #region function-words

// FunctionWords tallies surface forms per functional role plus the text's word count.
type FunctionWords struct {
	Prepositions map[PrepositionRole]map[string]int `json:"prepositions"`
	Articles     map[ArticleRole]map[string]int     `json:"articles"`
	Conjunctions map[ConjunctionType]map[string]int `json:"conjunctions"`
	TotalByType  map[string]int                     `json:"total_by_type"`
	WordCount    int                                `json:"word_count"`
}

func newFunctionWords() FunctionWords {
	return FunctionWords{
		Prepositions: map[PrepositionRole]map[string]int{
			CaseReplacement: {}, Semantic: {}, PrepositionOther: {},
		},
		Articles: map[ArticleRole]map[string]int{
			Definiteness: {}, CaseMarking: {}, ArticleOther: {},
		},
		Conjunctions: map[ConjunctionType]map[string]int{
			CoordinatingConj: {}, SubordinatingConj: {},
		},
		TotalByType: make(map[string]int),
	}
}

// ArticleTotal sums every article sub-category.
func (f FunctionWords) ArticleTotal() int {
	total := 0
	for _, forms := range f.Articles {
		for _, n := range forms {
			total += n
		}
	}
	return total
}

// #endregion function-words

// #region clauses

// Clauses counts clause-level constructions: Latin participial structures
// and the subordination strategies that replace them in Spanish.
type Clauses struct {
	AblativeAbsolute  int `json:"ablative_absolute"`
	Participial       int `json:"participial_constructions"`
	QueClauses        int `json:"que_clauses"`
	GerundClauses     int `json:"gerund_clauses"`
	InfinitiveClauses int `json:"infinitive_clauses"`
	RelativeClauses   int `json:"relative_clauses"`
}

// Total sums every clause count.
func (c Clauses) Total() int {
	return c.AblativeAbsolute + c.Participial + c.QueClauses +
		c.GerundClauses + c.InfinitiveClauses + c.RelativeClauses
}

// Subordination sums the subordination strategies: que, gerund, infinitive
// and relative clauses.
func (c Clauses) Subordination() int {
	return c.QueClauses + c.GerundClauses + c.InfinitiveClauses + c.RelativeClauses
}

// #endregion clauses

// #region result

// Result is the classifier output for one text.
type Result struct {
	Language      annotation.Language `json:"language"`
	Constructions Constructions       `json:"analytical_constructions"`
	FunctionWords FunctionWords       `json:"function_words"`
	Clauses       Clauses             `json:"clause_transformations"`
}

// #endregion result
