package recommender

import (
	"sort"
	"strconv"

	"github.com/yungbote/lexipath/internal/domain"
)

// Exploratory assembles the ready-to-learn list: unmastered nodes whose every
// prerequisite clears prereq_threshold. A node with any weak prerequisite is
// dropped outright rather than penalized, so missing_prereqs stays empty
// here. Sentinel-scored candidates never reach the output.
func Exploratory(nodes map[string]domain.KnowledgeNode, mastery domain.MasteryVector, strategy ScoringStrategy, frontier int, hasFrontier bool, cfg Config) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(nodes))
	for _, node := range nodes {
		m := mastery.Score(node.NodeID)
		if m >= cfg.MasteryThreshold {
			continue
		}
		prereqMastery, missing := prereqDiagnostics(node, mastery, cfg.PrereqThreshold)
		if len(missing) > 0 {
			continue
		}
		score := strategy.Score(node, m, prereqMastery, frontier, hasFrontier)
		if score == SentinelExcluded {
			continue
		}
		out = append(out, domain.Recommendation{
			NodeID:        node.NodeID,
			Label:         node.Label,
			Level:         levelLabel(node),
			Mastery:       m,
			PrereqMastery: prereqMastery,
			Score:         score,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].NodeID < out[j].NodeID
	})
	return capList(out, cfg.TopN)
}

// Remedial lists seen-but-weak nodes, weakest first. Prerequisite gaps are
// reported for diagnostics, not enforced: a weak node is worth reinforcing
// regardless of what sits beneath it.
func Remedial(nodes map[string]domain.KnowledgeNode, mastery domain.MasteryVector, cfg Config) []domain.Recommendation {
	out := make([]domain.Recommendation, 0)
	for nodeID, m := range mastery {
		if m >= cfg.RemedialThreshold {
			continue
		}
		node, ok := nodes[nodeID]
		if !ok {
			// Reviewed once but absent from the fetched graph slice.
			continue
		}
		prereqMastery, missing := prereqDiagnostics(node, mastery, cfg.PrereqThreshold)
		out = append(out, domain.Recommendation{
			NodeID:         node.NodeID,
			Label:          node.Label,
			Level:          levelLabel(node),
			Mastery:        m,
			PrereqMastery:  prereqMastery,
			Score:          m,
			MissingPrereqs: missing,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Mastery != out[j].Mastery {
			return out[i].Mastery < out[j].Mastery
		}
		return out[i].NodeID < out[j].NodeID
	})
	return capList(out, cfg.TopN)
}

// prereqDiagnostics returns the weakest prerequisite mastery (full credit
// with none) and the prerequisites still below the threshold.
func prereqDiagnostics(node domain.KnowledgeNode, mastery domain.MasteryVector, threshold float64) (float64, []string) {
	if len(node.Prerequisites) == 0 {
		return 1.0, nil
	}
	minMastery := 1.0
	var missing []string
	for _, pid := range node.Prerequisites {
		pm := mastery.Score(pid)
		if pm < minMastery {
			minMastery = pm
		}
		if pm < threshold {
			missing = append(missing, pid)
		}
	}
	return minMastery, missing
}

func levelLabel(node domain.KnowledgeNode) string {
	if node.DiscreteLevel != nil {
		return strconv.Itoa(*node.DiscreteLevel)
	}
	if node.ContinuousLevel != nil {
		return *node.ContinuousLevel
	}
	return ""
}

func capList(list []domain.Recommendation, n int) []domain.Recommendation {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
