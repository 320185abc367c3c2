// discord/actions.go
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oleps69/discord-bot/moderation"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// GuildInfo is the slice of guild metadata the moderation side effects
// need: who to notify and what to call the guild in the alert.
type GuildInfo struct {
	OwnerID string
	Name    string
}

// Actions implements moderation.Actions on top of a discordgo session.
// Guild metadata lookups are cached and deduplicated so a burst of
// violations does not hammer the guild endpoint.
type Actions struct {
	session *discordgo.Session
	guilds  *lru.LRU[string, GuildInfo]
	sf      singleflight.Group
}

var _ moderation.Actions = (*Actions)(nil)

func NewActions(session *discordgo.Session, cacheSize int, cacheTTL time.Duration) *Actions {
	return &Actions{
		session: session,
		guilds:  lru.NewLRU[string, GuildInfo](cacheSize, nil, cacheTTL),
	}
}

func (a *Actions) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return a.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (a *Actions) KickUser(ctx context.Context, guildID, userID, reason string) error {
	return a.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (a *Actions) BanUser(ctx context.Context, guildID, userID, reason string) error {
	return a.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

// NotifyOwner DMs the guild owner a structured alert about a violation.
func (a *Actions) NotifyOwner(ctx context.Context, alert moderation.OwnerAlert) error {
	info, err := a.guildInfo(ctx, alert.GuildID)
	if err != nil {
		return fmt.Errorf("failed to resolve guild owner: %w", err)
	}

	channel, err := a.session.UserChannelCreate(info.OwnerID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open owner DM channel: %w", err)
	}

	embed := BuildOwnerAlertEmbed(alert, info)
	if _, err := a.session.ChannelMessageSendEmbed(channel.ID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send owner alert: %w", err)
	}
	return nil
}

// SendChannelMessage posts text to a channel; when autoDeleteAfter is
// positive the message is removed again after that delay, best-effort.
func (a *Actions) SendChannelMessage(ctx context.Context, channelID, text string, autoDeleteAfter time.Duration) error {
	msg, err := a.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}

	if autoDeleteAfter > 0 {
		time.AfterFunc(autoDeleteAfter, func() {
			if err := a.session.ChannelMessageDelete(channelID, msg.ID); err != nil {
				slog.Debug("Failed to remove transient warning", "channel_id", channelID, "message_id", msg.ID, "error", err)
			}
		})
	}
	return nil
}

// guildInfo returns cached guild metadata, deduplicating concurrent
// lookups for the same guild.
func (a *Actions) guildInfo(ctx context.Context, guildID string) (GuildInfo, error) {
	if info, ok := a.guilds.Get(guildID); ok {
		return info, nil
	}

	v, err, _ := a.sf.Do(guildID, func() (any, error) {
		if info, ok := a.guilds.Get(guildID); ok {
			return info, nil
		}

		guild, err := a.session.State.Guild(guildID)
		if err != nil {
			guild, err = a.session.Guild(guildID, discordgo.WithContext(ctx))
			if err != nil {
				return GuildInfo{}, err
			}
		}

		info := GuildInfo{OwnerID: guild.OwnerID, Name: guild.Name}
		a.guilds.Add(guildID, info)
		return info, nil
	})
	if err != nil {
		return GuildInfo{}, err
	}
	return v.(GuildInfo), nil
}

// BuildOwnerAlertEmbed renders a violation alert for the owner DM. The
// matched term stays spoiler-masked so reading the alert is opt-in.
func BuildOwnerAlertEmbed(alert moderation.OwnerAlert, info GuildInfo) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Banned term violation",
		Color: 0xE74C3C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Guild", Value: info.Name, Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", alert.ChannelID), Inline: true},
			{Name: "User", Value: fmt.Sprintf("<@%s> (%s)", alert.UserID, alert.UserName), Inline: false},
			{Name: "Term", Value: alert.MaskedTerm, Inline: true},
			{Name: "Violations", Value: fmt.Sprintf("%d/%d", alert.Count, alert.BanThreshold), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
