// moderation/matcher.go
package moderation

import "strings"

// MatchResult reports the first banned term found in a message, if any.
// It is ephemeral: produced per message and never stored.
type MatchResult struct {
	Matched bool
	Term    string
	Level   StrictnessLevel
}

// Matcher scans message content against a guild's banned terms.
type Matcher struct {
	registry *TermRegistry
}

func NewMatcher(registry *TermRegistry) *Matcher {
	return &Matcher{registry: registry}
}

// Check normalizes the message and each registered term at the term's
// own strictness level and reports the first term whose normalized form
// is a substring of the normalized message. The scan stops at the first
// hit; terms registered earlier win ties. A guild with no terms never
// matches.
func (m *Matcher) Check(content, guildID string) MatchResult {
	if content == "" {
		return MatchResult{}
	}

	for _, entry := range m.registry.Terms(guildID) {
		needle := Normalize(entry.Term, entry.Level)
		if needle == "" {
			continue
		}
		if strings.Contains(Normalize(content, entry.Level), needle) {
			return MatchResult{Matched: true, Term: entry.Term, Level: entry.Level}
		}
	}
	return MatchResult{}
}
