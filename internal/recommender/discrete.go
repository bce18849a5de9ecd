package recommender

import "github.com/yungbote/lexipath/internal/domain"

// DiscreteStrategy scores for languages graded on an integer ladder (HSK
// style). Base readiness is adjusted by tier distance from the frontier and
// by how early the word is natively acquired.
type DiscreteStrategy struct {
	cfg Config
}

func NewDiscreteStrategy(cfg Config) DiscreteStrategy {
	return DiscreteStrategy{cfg: cfg}
}

func (s DiscreteStrategy) Name() string { return "discrete" }

func (s DiscreteStrategy) Score(node domain.KnowledgeNode, mastery, prereqMastery float64, frontier int, hasFrontier bool) float64 {
	if s.cfg.MentalAge > 0 && node.AgeOfAcquisition != nil && *node.AgeOfAcquisition > s.cfg.MentalAge+s.cfg.AoABuffer {
		return SentinelExcluded
	}

	score := (1-mastery)*s.cfg.ChallengeWeight + prereqMastery*s.cfg.PrereqWeight

	if hasFrontier && node.DiscreteLevel != nil {
		switch distance := *node.DiscreteLevel - frontier; {
		case distance == 0:
			score += s.cfg.MatchBonus
		case distance == 1:
			score += s.cfg.MatchBonus * 0.5
		case distance > 1:
			score -= s.cfg.TierPenalty * float64(distance)
		}
	}

	// Earlier-acquired words get a linear bump, centered at the midpoint of
	// the 0-15 year range and scaled to +/-0.2.
	if node.AgeOfAcquisition != nil {
		score += 0.2 * (7.5 - *node.AgeOfAcquisition) / 7.5
	}
	return score
}
