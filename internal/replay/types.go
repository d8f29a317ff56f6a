package replay

// #region types

// Section names compared by Replay, in report order.
const (
	SectionCohorts             = "cohorts"
	SectionDependencyEvolution = "dependency_evolution"
	SectionAnalyticalShift     = "analytical_shift"
	SectionArticleDevelopment  = "article_development"
)

// SectionResult is the comparison of one report section.
type SectionResult struct {
	Name  string `json:"name"`
	Match bool   `json:"match"`
}

// Result captures the outcome of recomputing a stored run.
type Result struct {
	RunID    string          `json:"run_id,omitempty"`
	Seed     uint64          `json:"seed"`
	Sections []SectionResult `json:"sections"`
}

// Match reports whether every section was reproduced exactly.
func (r Result) Match() bool {
	for _, s := range r.Sections {
		if !s.Match {
			return false
		}
	}
	return true
}

// Mismatches lists the sections that differ.
func (r Result) Mismatches() []string {
	var out []string
	for _, s := range r.Sections {
		if !s.Match {
			out = append(out, s.Name)
		}
	}
	return out
}

// #endregion types
