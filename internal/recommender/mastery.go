// Package recommender turns review telemetry and a prerequisite graph into
// ranked study recommendations: exploratory picks the learner is ready for
// and remedial picks worth reinforcing.
package recommender

import (
	"math"

	"github.com/yungbote/lexipath/internal/domain"
)

// BuildMasteryVector converts grouped review states into per-node mastery.
// For each node:
//
//	normalized_interval = ln(min interval + 1) / ln(max_interval_for_norm + 1)
//	lapse_penalty       = total lapses * lapse_penalty_coefficient
//	ease_term           = (mean ease factor / ease_scale) * 0.2, 0 when absent
//	score               = clamp(normalized_interval + ease_term - lapse_penalty, 0, 1)
//
// The minimum interval across a node's cards is used so one overdue sibling
// card cannot inflate a node the learner still misses elsewhere. Nodes with
// no states are not emitted; consumers read absence as mastery 0.
func BuildMasteryVector(states map[string][]domain.ReviewState, cfg Config) domain.MasteryVector {
	vector := make(domain.MasteryVector, len(states))
	for nodeID, list := range states {
		if len(list) == 0 {
			continue
		}
		vector[nodeID] = masteryScore(list, cfg)
	}
	return vector
}

func masteryScore(states []domain.ReviewState, cfg Config) float64 {
	minInterval := states[0].IntervalDays
	totalLapses := 0
	easeSum := 0.0
	easeCount := 0
	for _, st := range states {
		if st.IntervalDays < minInterval {
			minInterval = st.IntervalDays
		}
		totalLapses += st.Lapses
		if st.EaseFactor != nil {
			easeSum += float64(*st.EaseFactor)
			easeCount++
		}
	}
	if minInterval < 0 {
		minInterval = 0
	}

	normalized := math.Log(minInterval+1) / math.Log(cfg.MaxIntervalForNorm+1)
	penalty := float64(totalLapses) * cfg.LapsePenaltyCoefficient
	ease := 0.0
	if easeCount > 0 {
		ease = easeSum / float64(easeCount) / cfg.EaseScale * 0.2
	}
	return clamp01(normalized + ease - penalty)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
