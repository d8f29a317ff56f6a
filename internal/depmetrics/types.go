package depmetrics

// #region category

// Category is a coarse bucket of dependency relations.
type Category string

const (
	ArgumentStructure Category = "argument_structure"
	Modification      Category = "modification"
	Coordination      Category = "coordination"
)

// Categories lists the buckets in report order.
var Categories = []Category{ArgumentStructure, Modification, Coordination}

// relationCategories maps a relation label to its bucket. Labels not listed
// are not counted in any category.
var relationCategories = map[string]Category{
	"nsubj":  ArgumentStructure,
	"obj":    ArgumentStructure,
	"iobj":   ArgumentStructure,
	"ccomp":  ArgumentStructure,
	"amod":   Modification,
	"advmod": Modification,
	"nmod":   Modification,
	"conj":   Coordination,
	"cc":     Coordination,
}

// CategoryOf returns the bucket of a relation label and whether it has one.
func CategoryOf(deprel string) (Category, bool) {
	c, ok := relationCategories[deprel]
	return c, ok
}

// #endregion category

// #region sentence-metrics

// SentenceMetrics holds the per-token depths of one sentence.
type SentenceMetrics struct {
	Depths   []int // Depths[i] is the depth of token i+1
	MaxDepth int
}

// #endregion sentence-metrics

// #region metrics

// Metrics is the dependency profile of one text.
type Metrics struct {
	// EmbeddingDepths holds one maximum depth per analyzed sentence.
	EmbeddingDepths []int `json:"embedding_depths"`
	// Distances maps |id - head| to its frequency over non-root tokens.
	Distances map[int]int `json:"dependency_distances"`
	// Relations holds per-label counts inside each category.
	Relations    map[Category]map[string]int `json:"dependency_types"`
	AverageDepth float64                     `json:"average_depth"`
	MaxDepth     int                         `json:"max_depth"`
	Sentences    int                         `json:"sentences"`
}

// CategoryTotal sums every label counted under c.
func (m Metrics) CategoryTotal(c Category) int {
	total := 0
	for _, n := range m.Relations[c] {
		total += n
	}
	return total
}

// MeanDistance is the token-weighted mean dependency distance, 0 if none.
func (m Metrics) MeanDistance() float64 {
	var sum, n int
	for d, count := range m.Distances {
		sum += d * count
		n += count
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// #endregion metrics
