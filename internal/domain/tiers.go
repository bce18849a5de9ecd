package domain

import "strings"

// Regime names the proficiency-ladder representation a language uses:
// integer tiers (HSK-style) or ordered labels (CEFR-style).
type Regime string

const (
	RegimeUnknown    Regime = ""
	RegimeDiscrete   Regime = "discrete"
	RegimeContinuous Regime = "continuous"
)

func (r Regime) String() string {
	if r == RegimeUnknown {
		return "unknown"
	}
	return string(r)
}

// ContinuousTiers is the ordered label ladder, easiest first.
var ContinuousTiers = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// ContinuousTierIndex returns the 0-based position of a ladder label,
// matching case-insensitively. ok is false for labels outside the ladder.
func ContinuousTierIndex(label string) (int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for i, t := range ContinuousTiers {
		if t == label {
			return i, true
		}
	}
	return 0, false
}

// ContinuousTierAt returns the label for a 0-based ladder position.
func ContinuousTierAt(idx int) (string, bool) {
	if idx < 0 || idx >= len(ContinuousTiers) {
		return "", false
	}
	return ContinuousTiers[idx], true
}
