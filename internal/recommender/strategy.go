package recommender

import "github.com/yungbote/lexipath/internal/domain"

// SentinelExcluded marks a hard-excluded candidate. Assemblers drop these
// from the exploratory output instead of ranking them low.
const SentinelExcluded = 0.01

// ScoringStrategy ranks one exploratory candidate. The two implementations
// carry every regime-specific constant, so the shared orchestration never
// branches on the regime.
type ScoringStrategy interface {
	Name() string
	Score(node domain.KnowledgeNode, mastery, prereqMastery float64, frontier int, hasFrontier bool) float64
}

// strategyFor selects the scorer once per invocation from the decided
// regime. An unknown regime falls back to the continuous scorer, whose
// neutral-component defaults behave sensibly without tier data.
func strategyFor(regime domain.Regime, cfg Config, nodes map[string]domain.KnowledgeNode) ScoringStrategy {
	if regime == domain.RegimeDiscrete {
		return NewDiscreteStrategy(cfg)
	}
	return NewContinuousStrategy(cfg, nodes)
}
