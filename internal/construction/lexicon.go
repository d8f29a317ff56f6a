package construction

import "strings"

// #region lexicon

// Lexicon is the closed vocabulary one language's rules match against.
// Forms outside these lists never match.
type Lexicon struct {
	// Auxiliary forms for periphrastic tense and voice.
	GoAuxiliaries   []string `yaml:"go_auxiliaries" json:"go_auxiliaries"`
	HaveAuxiliaries []string `yaml:"have_auxiliaries" json:"have_auxiliaries"`
	BeAuxiliaries   []string `yaml:"be_auxiliaries" json:"be_auxiliaries"`
	FutureParticle  string   `yaml:"future_particle" json:"future_particle"`

	// Prepositions that replace a case when they govern a nominal modifier.
	CaseMarkingPrepositions []string `yaml:"case_marking_prepositions" json:"case_marking_prepositions"`
	// Prepositions that replace a case when they govern an indirect object,
	// and are semantic otherwise.
	GrammaticalizedPrepositions []string `yaml:"grammaticalized_prepositions" json:"grammaticalized_prepositions"`
	SpatialPrepositions         []string `yaml:"spatial_prepositions" json:"spatial_prepositions"`

	DefiniteArticles   []string `yaml:"definite_articles" json:"definite_articles"`
	IndefiniteArticles []string `yaml:"indefinite_articles" json:"indefinite_articles"`

	Complementizer string `yaml:"complementizer" json:"complementizer"`
}

// LatinLexicon returns the default Classical/Medieval Latin vocabulary.
func LatinLexicon() Lexicon {
	return Lexicon{
		CaseMarkingPrepositions:     []string{"de"},
		GrammaticalizedPrepositions: []string{"a"},
		SpatialPrepositions:         []string{"in", "ad", "ex", "ab", "cum"},
	}
}

// SpanishLexicon returns the default Early Spanish vocabulary.
func SpanishLexicon() Lexicon {
	return Lexicon{
		GoAuxiliaries:               []string{"ir", "voy", "vas", "va"},
		HaveAuxiliaries:             []string{"he", "has", "ha", "hemos"},
		BeAuxiliaries:               []string{"ser", "es", "son"},
		FutureParticle:              "a",
		CaseMarkingPrepositions:     []string{"de"},
		GrammaticalizedPrepositions: []string{"a", "para", "por"},
		SpatialPrepositions:         []string{"en", "sobre", "bajo"},
		DefiniteArticles:            []string{"el", "la", "los", "las"},
		IndefiniteArticles:          []string{"un", "una", "unos", "unas"},
		Complementizer:              "que",
	}
}

// #endregion lexicon

// #region word-set

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// #endregion word-set

// #region compiled-lexicon

// compiledLexicon holds the lexicon as lookup sets.
type compiledLexicon struct {
	goAux, haveAux, beAux    wordSet
	futureParticle           string
	caseMarking, gramm, spat wordSet
	definite, indefinite     wordSet
	complementizer           string
}

func compile(l Lexicon) compiledLexicon {
	return compiledLexicon{
		goAux:          newWordSet(l.GoAuxiliaries),
		haveAux:        newWordSet(l.HaveAuxiliaries),
		beAux:          newWordSet(l.BeAuxiliaries),
		futureParticle: strings.ToLower(l.FutureParticle),
		caseMarking:    newWordSet(l.CaseMarkingPrepositions),
		gramm:          newWordSet(l.GrammaticalizedPrepositions),
		spat:           newWordSet(l.SpatialPrepositions),
		definite:       newWordSet(l.DefiniteArticles),
		indefinite:     newWordSet(l.IndefiniteArticles),
		complementizer: strings.ToLower(l.Complementizer),
	}
}

// #endregion compiled-lexicon
