package aggregate

import (
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/construction"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/depmetrics"
)

// #region period

// Period is a historical language stage.
type Period string

const (
	Classical Period = "Classical"
	Medieval  Period = "Medieval"
	Spanish   Period = "Spanish"
)

// Periods lists the cohorts in chronological order.
var Periods = []Period{Classical, Medieval, Spanish}

// PeriodSpec ties a period to the document-identifier prefix naming it and
// the language its texts are written in.
type PeriodSpec struct {
	Name     Period              `yaml:"name" json:"name"`
	Prefix   string              `yaml:"prefix" json:"prefix"`
	Language annotation.Language `yaml:"language" json:"language"`
}

// DefaultPeriods returns the three fixed cohorts and their corpus prefixes.
func DefaultPeriods() []PeriodSpec {
	return []PeriodSpec{
		{Name: Classical, Prefix: "latin_", Language: annotation.Latin},
		{Name: Medieval, Prefix: "medieval_", Language: annotation.Latin},
		{Name: Spanish, Prefix: "spanish_", Language: annotation.Spanish},
	}
}

// #endregion period

// #region normalized

// Normalized holds the per-word rates derived from a text's raw counts.
type Normalized struct {
	AnalyticalDensity   map[construction.Type]float64 `json:"analytical_density"`
	FunctionWordDensity map[string]float64            `json:"function_word_density"`
	DependencyDepth     float64                       `json:"dependency_depth"`
	ClauseComplexity    float64                       `json:"clause_complexity"`
	// ArticleRate is articles per 1000 words.
	ArticleRate float64 `json:"article_rate"`
}

// #endregion normalized

// #region bundle

// Bundle is the complete analysis of one text. It is built once and not
// modified afterwards.
type Bundle struct {
	DocumentID    string                     `json:"document_id"`
	Language      annotation.Language        `json:"language"`
	Period        Period                     `json:"period,omitempty"`
	Constructions construction.Constructions `json:"analytical_constructions"`
	FunctionWords construction.FunctionWords `json:"function_words"`
	Clauses       construction.Clauses       `json:"clause_transformations"`
	Dependency    depmetrics.Metrics         `json:"dependency_complexity"`
	Normalized    Normalized                 `json:"normalized_metrics"`
	Warnings      []string                   `json:"warnings,omitempty"`
}

// WordCount is the token count used as the normalization base.
func (b Bundle) WordCount() int {
	return b.FunctionWords.WordCount
}

// #endregion bundle

// #region cohort

// Cohort groups the bundles of one period.
type Cohort struct {
	Period  Period   `json:"period"`
	Bundles []Bundle `json:"-"`
}

// Metric extracts one number from a bundle. ok=false leaves the bundle out.
type Metric func(Bundle) (value float64, ok bool)

// Values applies metric to every bundle of the cohort.
func (c Cohort) Values(metric Metric) []float64 {
	out := make([]float64, 0, len(c.Bundles))
	for _, b := range c.Bundles {
		if v, ok := metric(b); ok {
			out = append(out, v)
		}
	}
	return out
}

// CohortSummary is the reportable view of a cohort.
type CohortSummary struct {
	Period          Period   `json:"period"`
	Documents       []string `json:"documents"`
	Texts           int      `json:"texts"`
	Words           int      `json:"words"`
	MeanDepth       float64  `json:"mean_average_depth"`
	MeanArticleRate float64  `json:"mean_article_rate"`
	SyntheticTotal  int      `json:"synthetic_total"`
	AnalyticTotal   int      `json:"analytic_total"`
	Warnings        int      `json:"warnings"`
}

// #endregion cohort

// #region warning

// Warning is a non-fatal diagnostic about one document.
type Warning struct {
	DocumentID string `json:"document_id"`
	Message    string `json:"message"`
}

// #endregion warning
