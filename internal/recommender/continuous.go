package recommender

import (
	"math"

	"github.com/yungbote/lexipath/internal/domain"
)

// ContinuousStrategy scores for languages graded on the A1..C2 ladder. It
// filters hard (tier too far past the frontier, word acquired too late) and
// ranks survivors by a frequency/ease blend, so the learner sees common,
// graspable words first.
type ContinuousStrategy struct {
	cfg        Config
	maxRank    int
	maxLogFreq float64
}

// NewContinuousStrategy pins the corpus normalization bounds to the fetched
// node set: the largest frequency rank and the largest log-frequency seen.
func NewContinuousStrategy(cfg Config, nodes map[string]domain.KnowledgeNode) ContinuousStrategy {
	s := ContinuousStrategy{cfg: cfg}
	for _, n := range nodes {
		if n.FrequencyRank != nil && *n.FrequencyRank > s.maxRank {
			s.maxRank = *n.FrequencyRank
		}
		if n.Frequency != nil && *n.Frequency > 0 {
			if lf := math.Log10(*n.Frequency + 1); lf > s.maxLogFreq {
				s.maxLogFreq = lf
			}
		}
	}
	return s
}

func (s ContinuousStrategy) Name() string { return "continuous" }

func (s ContinuousStrategy) Score(node domain.KnowledgeNode, mastery, prereqMastery float64, frontier int, hasFrontier bool) float64 {
	if hasFrontier && node.ContinuousLevel != nil {
		if idx, ok := domain.ContinuousTierIndex(*node.ContinuousLevel); ok && idx-frontier > 1 {
			return SentinelExcluded
		}
	}
	if s.cfg.MentalAge > 0 && node.AgeOfAcquisition != nil && *node.AgeOfAcquisition > s.cfg.MentalAge+s.cfg.AoABuffer {
		return SentinelExcluded
	}

	// Missing attributes stay neutral rather than sinking the candidate.
	concreteness := 0.5
	if node.Concreteness != nil {
		concreteness = clamp01((*node.Concreteness - 1) / 4)
	}
	aoa := 0.5
	if node.AgeOfAcquisition != nil {
		aoa = math.Max(0, 1-*node.AgeOfAcquisition/15)
	}
	frequency := s.frequencyScore(node)

	ease := 0.7*concreteness + 0.3*aoa
	weighted := (1-s.cfg.Slider)*frequency + s.cfg.Slider*ease
	return weighted*10 + 0.1*(1-mastery)
}

// frequencyScore prefers Zipf-style rank normalization; raw frequency is only
// a fallback when no rank was recorded. Both normalize against the maximum
// observed in the fetched set.
func (s ContinuousStrategy) frequencyScore(node domain.KnowledgeNode) float64 {
	if node.FrequencyRank != nil && *node.FrequencyRank > 0 {
		if s.maxRank <= 1 {
			return 1
		}
		return clamp01(1 - math.Log(float64(*node.FrequencyRank))/math.Log(float64(s.maxRank)))
	}
	if node.Frequency != nil && *node.Frequency > 0 && s.maxLogFreq > 0 {
		return clamp01(math.Log10(*node.Frequency+1) / s.maxLogFreq)
	}
	return 0.5
}
