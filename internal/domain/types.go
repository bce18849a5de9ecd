package domain

// ReviewState is the per-card scheduling state a telemetry source reports for
// one flashcard linked to a knowledge node. Immutable once read.
type ReviewState struct {
	NodeID       string  `json:"node_id"`
	IntervalDays float64 `json:"interval_days"`
	Lapses       int     `json:"lapses"`
	Reps         int     `json:"reps"`
	EaseFactor   *int    `json:"ease_factor,omitempty"`
}

// KnowledgeNode is one learnable concept from the knowledge graph, together
// with the optional psycholinguistic attributes the scorers consume. Exactly
// one of DiscreteLevel/ContinuousLevel is populated per language regime; both
// may be absent when the store carries no tier data for the node.
type KnowledgeNode struct {
	NodeID           string   `json:"node_id"`
	Label            string   `json:"label"`
	DiscreteLevel    *int     `json:"discrete_level,omitempty"`
	ContinuousLevel  *string  `json:"continuous_level,omitempty"`
	Concreteness     *float64 `json:"concreteness,omitempty"`      // 1..5 rating scale
	Frequency        *float64 `json:"frequency,omitempty"`         // raw corpus frequency
	FrequencyRank    *int     `json:"frequency_rank,omitempty"`    // 1 = most frequent
	AgeOfAcquisition *float64 `json:"age_of_acquisition,omitempty"` // years
	Prerequisites    []string `json:"prerequisites,omitempty"`     // sorted, unique node ids
}

// MasteryVector maps node id to an estimated proficiency in [0,1]. Nodes
// without review history are simply absent; Score treats them as 0.
type MasteryVector map[string]float64

// Score returns the mastery for a node, 0.0 when the node was never reviewed.
func (m MasteryVector) Score(nodeID string) float64 {
	if m == nil {
		return 0
	}
	return m[nodeID]
}

// Recommendation is one ranked study candidate.
type Recommendation struct {
	NodeID         string   `json:"node_id"`
	Label          string   `json:"label"`
	Level          string   `json:"level"`
	Mastery        float64  `json:"mastery"`
	PrereqMastery  float64  `json:"prereq_mastery"`
	Score          float64  `json:"score"`
	MissingPrereqs []string `json:"missing_prereqs,omitempty"`
}
