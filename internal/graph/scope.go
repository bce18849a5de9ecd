package graph

import (
	"strings"

	"github.com/yungbote/lexipath/internal/domain"
)

// LanguageScope selects one language's slice of a shared knowledge store.
// The tier attribute doubles as the scope predicate: a node belongs to the
// scope when the attribute is present, so several languages can live in one
// store without cross-contamination.
type LanguageScope struct {
	Code          string        `json:"code"`
	Regime        domain.Regime `json:"regime"`
	TierAttribute string        `json:"tier_attribute"`
	Kinds         []string      `json:"kinds"`
}

// CacheKey identifies the scope's fetch result for the node cache.
func (s LanguageScope) CacheKey() string {
	code := s.Code
	if code == "" {
		code = "all"
	}
	return "nodes:" + code + ":" + s.TierAttribute + ":" + strings.Join(s.Kinds, ",")
}

var defaultKinds = []string{"word", "phrase", "grammar"}

// Tier attribute names below are interpolated into the fetch query, so they
// must stay a closed set defined here.
var scopes = map[string]LanguageScope{
	"zh": {Code: "zh", Regime: domain.RegimeDiscrete, TierAttribute: "hsk_level", Kinds: defaultKinds},
	"de": {Code: "de", Regime: domain.RegimeContinuous, TierAttribute: "cefr_level", Kinds: defaultKinds},
	"en": {Code: "en", Regime: domain.RegimeContinuous, TierAttribute: "cefr_level", Kinds: defaultKinds},
	"fr": {Code: "fr", Regime: domain.RegimeContinuous, TierAttribute: "cefr_level", Kinds: defaultKinds},
	"es": {Code: "es", Regime: domain.RegimeContinuous, TierAttribute: "cefr_level", Kinds: defaultKinds},
}

// ScopeFor resolves a language code to its registered scope.
func ScopeFor(code string) (LanguageScope, bool) {
	s, ok := scopes[strings.ToLower(strings.TrimSpace(code))]
	return s, ok
}

// DefaultScope is the unscoped fetch: every kind-filtered node regardless of
// language, with no tier predicate. Regime detection then falls to the
// frontier detector.
func DefaultScope() LanguageScope {
	return LanguageScope{Kinds: defaultKinds}
}
