// discord/admin_test.go
package discord

import (
	"testing"

	"github.com/oleps69/discord-bot/moderation"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

const testOwnerID = "owner-1"

func newTestAdmin() (*Admin, *moderation.State) {
	state := moderation.NewState()
	return NewAdmin(state), state
}

func TestAdmin_RegisterTerm(t *testing.T) {
	t.Run("guild owner can register", func(t *testing.T) {
		admin, state := newTestAdmin()

		ack, err := admin.RegisterTerm("g1", testOwnerID, Caller{UserID: testOwnerID}, "spam", 2)
		require.NoError(t, err)
		require.Contains(t, ack, "||spam||")

		terms := state.Registry.Terms("g1")
		require.Len(t, terms, 1)
		require.Equal(t, moderation.LevelAggressive, terms[0].Level)
	})

	t.Run("administrator can register", func(t *testing.T) {
		admin, state := newTestAdmin()
		caller := Caller{UserID: "mod-1", Permissions: discordgo.PermissionAdministrator}

		_, err := admin.RegisterTerm("g1", testOwnerID, caller, "spam", 1)
		require.NoError(t, err)
		require.Equal(t, 1, state.Registry.Len("g1"))
	})

	t.Run("unauthorized caller is rejected and registry unchanged", func(t *testing.T) {
		admin, state := newTestAdmin()
		caller := Caller{UserID: "rando", Permissions: discordgo.PermissionSendMessages}

		_, err := admin.RegisterTerm("g1", testOwnerID, caller, "spam", 2)
		require.ErrorIs(t, err, ErrNotAuthorized)
		require.Equal(t, 0, state.Registry.Len("g1"))
	})

	t.Run("empty term is rejected", func(t *testing.T) {
		admin, state := newTestAdmin()

		_, err := admin.RegisterTerm("g1", testOwnerID, Caller{UserID: testOwnerID}, "   ", 2)
		require.ErrorIs(t, err, moderation.ErrEmptyTerm)
		require.Equal(t, 0, state.Registry.Len("g1"))
	})

	t.Run("invalid level is rejected", func(t *testing.T) {
		admin, state := newTestAdmin()

		_, err := admin.RegisterTerm("g1", testOwnerID, Caller{UserID: testOwnerID}, "spam", 5)
		require.Error(t, err)
		require.Equal(t, 0, state.Registry.Len("g1"))
	})
}

func TestAdmin_ListTerms(t *testing.T) {
	admin, state := newTestAdmin()
	require.NoError(t, state.Registry.Register("g1", "spam", moderation.LevelAggressive))
	require.NoError(t, state.Registry.Register("g1", "badword", moderation.LevelLoose))

	t.Run("owner sees masked terms", func(t *testing.T) {
		out, err := admin.ListTerms("g1", testOwnerID, Caller{UserID: testOwnerID})
		require.NoError(t, err)
		require.Contains(t, out, "||spam||")
		require.Contains(t, out, "||badword||")
		require.Contains(t, out, "loose")
	})

	t.Run("unauthorized caller is rejected", func(t *testing.T) {
		_, err := admin.ListTerms("g1", testOwnerID, Caller{UserID: "rando"})
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("empty guild", func(t *testing.T) {
		out, err := admin.ListTerms("g2", testOwnerID, Caller{UserID: testOwnerID})
		require.NoError(t, err)
		require.Contains(t, out, "No banned terms")
	})
}
