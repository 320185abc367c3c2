// discord/commands.go
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// maxDiscordMessageLen is the platform's hard cap on message content.
const maxDiscordMessageLen = 2000

func commandDefinitions() []*discordgo.ApplicationCommand {
	minLevel := float64(1)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Show the bot's gateway latency",
		},
		{
			Name:        "serverinfo",
			Description: "Show information about this guild",
		},
		{
			Name:        "ai",
			Description: "Single-turn chat with the configured model",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "Your question",
					Required:    true,
				},
			},
		},
		{
			Name:        "censor",
			Description: "Manage this guild's banned terms (owner/admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Register or update a banned term",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "term",
							Description: "The term to ban",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "level",
							Description: "Strictness: 1 strips separators, 2 also collapses repeats",
							Required:    true,
							MinValue:    &minLevel,
							MaxValue:    2,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this guild's banned terms",
				},
			},
		},
	}
}

// RegisterCommands registers the global application commands for the
// session's current user.
func RegisterCommands(s *discordgo.Session) error {
	for _, cmd := range commandDefinitions() {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("failed to register command %q: %w", cmd.Name, err)
		}
	}
	return nil
}

// TruncateReply caps text at limit characters, marking the cut with an
// ellipsis. The platform counts characters, not bytes.
func TruncateReply(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
