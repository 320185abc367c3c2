// discord/commands_test.go
package discord

import (
	"strings"
	"testing"

	"github.com/oleps69/discord-bot/moderation"

	"github.com/stretchr/testify/require"
)

func TestTruncateReply(t *testing.T) {
	require.Equal(t, "short", TruncateReply("short", 2000))

	long := strings.Repeat("a", 2500)
	got := TruncateReply(long, 2000)
	require.Len(t, got, 2000)
	require.True(t, strings.HasSuffix(got, "..."))

	// Multibyte text must not be cut mid-rune.
	unicodeText := strings.Repeat("ş", 2500)
	got = TruncateReply(unicodeText, 2000)
	require.Equal(t, 2000, len([]rune(got)))
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestBuildOwnerAlertEmbed(t *testing.T) {
	alert := moderation.OwnerAlert{
		GuildID:      "g1",
		ChannelID:    "c1",
		UserID:       "u1",
		UserName:     "alice",
		MaskedTerm:   "||spam||",
		Count:        3,
		BanThreshold: 8,
	}
	info := GuildInfo{OwnerID: "owner-1", Name: "My Guild"}

	embed := BuildOwnerAlertEmbed(alert, info)
	require.Equal(t, "Banned term violation", embed.Title)

	fields := make(map[string]string, len(embed.Fields))
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	require.Equal(t, "My Guild", fields["Guild"])
	require.Equal(t, "<#c1>", fields["Channel"])
	require.Contains(t, fields["User"], "<@u1>")
	require.Contains(t, fields["User"], "alice")
	require.Equal(t, "||spam||", fields["Term"])
	require.Equal(t, "3/8", fields["Violations"])
}

func TestCommandDefinitions(t *testing.T) {
	defs := commandDefinitions()
	names := make(map[string]bool, len(defs))
	for _, def := range defs {
		names[def.Name] = true
	}
	for _, want := range []string{"ping", "serverinfo", "ai", "censor"} {
		require.True(t, names[want], "missing command %q", want)
	}
}
