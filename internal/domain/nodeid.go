package domain

import "strings"

// DefaultNamespace is the prefix attached to bare local names so that node
// ids from every collaborator land in the same "prefix:local" shape.
const DefaultNamespace = "lex"

// CanonicalNodeID collapses the identifier forms seen across collaborators
// into one comparable namespace-qualified local name. Full resource locators
// keep only the fragment (or the final path segment), bare names gain the
// default namespace, and already-qualified names pass through unchanged.
func CanonicalNodeID(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "://"); i >= 0 {
		rest := s[i+3:]
		local := rest
		if j := strings.LastIndex(rest, "#"); j >= 0 {
			local = rest[j+1:]
		} else if j := strings.LastIndex(rest, "/"); j >= 0 {
			local = rest[j+1:]
		}
		local = strings.TrimSpace(local)
		if local == "" {
			return ""
		}
		return DefaultNamespace + ":" + local
	}
	if strings.Contains(s, ":") {
		return s
	}
	return DefaultNamespace + ":" + s
}
