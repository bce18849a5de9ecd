package recommender

import (
	"sort"
	"unicode"

	"github.com/yungbote/lexipath/internal/domain"
)

// frontierMasteredFraction is the tier-completion bar: the frontier is the
// first tier mastered below this fraction.
const frontierMasteredFraction = 0.8

// DetectRegime decides which tier ladder the fetched nodes grade with. A
// majority exposing only the continuous attribute means continuous, the
// reverse means discrete; short of a majority the raw counts break the tie,
// and with no tier data at all the label script decides.
func DetectRegime(nodes map[string]domain.KnowledgeNode) domain.Regime {
	total := len(nodes)
	if total == 0 {
		return domain.RegimeUnknown
	}
	discrete := 0
	continuous := 0
	for _, n := range nodes {
		switch {
		case n.ContinuousLevel != nil && n.DiscreteLevel == nil:
			continuous++
		case n.DiscreteLevel != nil && n.ContinuousLevel == nil:
			discrete++
		}
	}
	if continuous*2 > total && continuous > discrete {
		return domain.RegimeContinuous
	}
	if discrete*2 > total && discrete > continuous {
		return domain.RegimeDiscrete
	}
	if continuous > discrete {
		return domain.RegimeContinuous
	}
	if discrete > continuous {
		return domain.RegimeDiscrete
	}
	return regimeFromScript(nodes)
}

// regimeFromScript is the last resort when no node carries tier data: Han
// labels indicate the discrete (HSK-style) ladder, other letters the
// continuous one.
func regimeFromScript(nodes map[string]domain.KnowledgeNode) domain.Regime {
	han := 0
	other := 0
	for _, n := range nodes {
		for _, r := range n.Label {
			if unicode.Is(unicode.Han, r) {
				han++
			} else if unicode.IsLetter(r) {
				other++
			}
		}
	}
	if han > other {
		return domain.RegimeDiscrete
	}
	if other > 0 {
		return domain.RegimeContinuous
	}
	return domain.RegimeUnknown
}

// tierOf maps a node onto the regime's ordered ladder: the raw level for the
// discrete regime, the ladder index for the continuous one.
func tierOf(node domain.KnowledgeNode, regime domain.Regime) (int, bool) {
	switch regime {
	case domain.RegimeDiscrete:
		if node.DiscreteLevel != nil {
			return *node.DiscreteLevel, true
		}
	case domain.RegimeContinuous:
		if node.ContinuousLevel != nil {
			return domain.ContinuousTierIndex(*node.ContinuousLevel)
		}
	}
	return 0, false
}

// FrontierTier walks tiers from easiest to hardest and returns the first one
// whose mastered fraction falls below the completion bar. When every tier
// clears the bar the hardest tier present is returned; with no tier data the
// second result is false.
func FrontierTier(nodes map[string]domain.KnowledgeNode, mastery domain.MasteryVector, regime domain.Regime, cfg Config) (int, bool) {
	type stats struct {
		total    int
		mastered int
	}
	byTier := make(map[int]*stats)
	for _, n := range nodes {
		tier, ok := tierOf(n, regime)
		if !ok {
			continue
		}
		s := byTier[tier]
		if s == nil {
			s = &stats{}
			byTier[tier] = s
		}
		s.total++
		if mastery.Score(n.NodeID) >= cfg.MasteryThreshold {
			s.mastered++
		}
	}
	if len(byTier) == 0 {
		return 0, false
	}

	tiers := make([]int, 0, len(byTier))
	for tier := range byTier {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)

	for _, tier := range tiers {
		s := byTier[tier]
		if float64(s.mastered)/float64(s.total) < frontierMasteredFraction {
			return tier, true
		}
	}
	return tiers[len(tiers)-1], true
}
