package parser

// Defaults enumerates exactly what the extractor produces when a step finds
// nothing usable. Tests assert against this table rather than scattered
// inline literals.
var Defaults = struct {
	Summary    string
	PhaseTitle string
	Goal       string
	Tactic     string
	Tactics    []string
}{
	Summary:    "Your personalized content strategy.",
	PhaseTitle: "Getting Started",
	Goal:       "Build a consistent posting habit and grow your audience",
	Tactic:     "Post consistently and engage with your audience",
	Tactics: []string{
		"Pick one core content format and post on a fixed schedule",
		"Engage with comments within the first hour of posting",
		"Review what performed best each week and double down",
	},
}

// syntheticPhase is the document-level last resort: it guarantees every
// parsed document carries at least one phase.
func syntheticPhase() []phase {
	return []phase{{
		title:   Defaults.PhaseTitle,
		goal:    Defaults.Goal,
		tactics: append([]string(nil), Defaults.Tactics...),
	}}
}
