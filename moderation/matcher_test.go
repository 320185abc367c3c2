// moderation/matcher_test.go
package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatcher_Check(t *testing.T) {
	registry := NewTermRegistry()
	require.NoError(t, registry.Register("g1", "spam", LevelAggressive))
	require.NoError(t, registry.Register("g1", "badword", LevelLoose))
	require.NoError(t, registry.Register("g1", "exact phrase", LevelPlain))

	matcher := NewMatcher(registry)

	testCases := []struct {
		name     string
		content  string
		guildID  string
		matched  bool
		wantTerm string
	}{
		{
			name:     "plain substring match",
			content:  "this has an exact phrase inside",
			guildID:  "g1",
			matched:  true,
			wantTerm: "exact phrase",
		},
		{
			name:    "plain does not cross separators",
			content: "exact-phrase",
			guildID: "g1",
			matched: false,
		},
		{
			name:     "loose defeats separator evasion",
			content:  "b-a_d.w.o.r.d",
			guildID:  "g1",
			matched:  true,
			wantTerm: "badword",
		},
		{
			name:     "aggressive defeats repetition evasion",
			content:  "sppaammm",
			guildID:  "g1",
			matched:  true,
			wantTerm: "spam",
		},
		{
			name:     "aggressive defeats letter spacing",
			content:  "s p a m",
			guildID:  "g1",
			matched:  true,
			wantTerm: "spam",
		},
		{
			name:     "case-insensitive",
			content:  "SPAM",
			guildID:  "g1",
			matched:  true,
			wantTerm: "spam",
		},
		{
			name:    "clean message",
			content: "a perfectly fine message",
			guildID: "g1",
			matched: false,
		},
		{
			name:    "near miss is not matched",
			content: "spatula mambo",
			guildID: "g1",
			matched: false,
		},
		{
			name:    "empty content",
			content: "",
			guildID: "g1",
			matched: false,
		},
		{
			name:    "guild with no registry never matches",
			content: "sppaammm badword",
			guildID: "g2",
			matched: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := matcher.Check(tc.content, tc.guildID)
			require.Equal(t, tc.matched, result.Matched)
			if tc.matched {
				require.Equal(t, tc.wantTerm, result.Term)
			} else {
				require.Empty(t, result.Term)
			}
		})
	}
}

// The scan stops at the first hit, and insertion order decides ties.
func TestMatcher_FirstMatchWins(t *testing.T) {
	registry := NewTermRegistry()
	require.NoError(t, registry.Register("g1", "second", LevelPlain))
	require.NoError(t, registry.Register("g1", "first", LevelPlain))

	matcher := NewMatcher(registry)

	// Both terms are present; the one registered first must be reported.
	result := matcher.Check("first and second are both here", "g1")
	require.True(t, result.Matched)
	require.Equal(t, "second", result.Term)
}

func TestMatcher_LevelZeroIsExactSubstring(t *testing.T) {
	registry := NewTermRegistry()
	require.NoError(t, registry.Register("g1", "word", LevelPlain))
	matcher := NewMatcher(registry)

	require.True(t, matcher.Check("a word here", "g1").Matched)
	require.True(t, matcher.Check("wording", "g1").Matched)
	require.False(t, matcher.Check("w o r d", "g1").Matched)
}
