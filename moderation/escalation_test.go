// moderation/escalation_test.go
package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscalationPolicy_ActionFor(t *testing.T) {
	policy := DefaultEscalationPolicy()

	testCases := []struct {
		count int
		want  Action
	}{
		{count: 0, want: ActionNone},
		{count: -1, want: ActionNone},
		{count: 1, want: ActionWarn},
		{count: 2, want: ActionWarn},
		{count: 3, want: ActionWarn},
		{count: 4, want: ActionKick},
		{count: 5, want: ActionKick},
		{count: 7, want: ActionKick},
		{count: 8, want: ActionBan},
		{count: 9, want: ActionBan},
		{count: 100, want: ActionBan},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, policy.ActionFor(tc.count), "count=%d", tc.count)
	}
}

func TestEscalationPolicy_Validate(t *testing.T) {
	require.NoError(t, DefaultEscalationPolicy().Validate())
	require.Error(t, EscalationPolicy{KickThreshold: 1, BanThreshold: 8}.Validate())
	require.Error(t, EscalationPolicy{KickThreshold: 4, BanThreshold: 4}.Validate())
	require.Error(t, EscalationPolicy{KickThreshold: 4, BanThreshold: 3}.Validate())
}

func TestAction_String(t *testing.T) {
	require.Equal(t, "none", ActionNone.String())
	require.Equal(t, "warn", ActionWarn.String())
	require.Equal(t, "kick", ActionKick.String())
	require.Equal(t, "ban", ActionBan.String())
}
