// discord/handler.go
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oleps69/discord-bot/gemini"
	"github.com/oleps69/discord-bot/moderation"

	"github.com/bwmarrin/discordgo"
)

// Handler connects gateway events to the moderation pipeline and the
// slash commands. Each discordgo event arrives on its own goroutine, so
// a slow side effect for one message never blocks the others.
type Handler struct {
	pipeline *moderation.Pipeline
	admin    *Admin
	actions  *Actions
	gemini   *gemini.Client
}

func NewHandler(pipeline *moderation.Pipeline, admin *Admin, actions *Actions, geminiClient *gemini.Client) *Handler {
	return &Handler{
		pipeline: pipeline,
		admin:    admin,
		actions:  actions,
		gemini:   geminiClient,
	}
}

// Register attaches the handler to a session.
func (h *Handler) Register(s *discordgo.Session) {
	s.AddHandler(h.HandleMessageCreate)
	s.AddHandler(h.HandleInteractionCreate)
	s.AddHandler(h.HandleReady)
}

func (h *Handler) HandleReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Gateway session ready", "user", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))

	if err := RegisterCommands(s); err != nil {
		slog.Error("Failed to register application commands", "error", err)
	}
}

// HandleMessageCreate runs every inbound guild message through the
// moderation pipeline. Whatever the pipeline decides, control returns
// to the rest of the handler chain, so commands still work on messages
// that triggered moderation.
func (h *Handler) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	msg := &moderation.Message{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		Content:    m.Content,
		Bot:        m.Author.Bot,
	}

	disposition := h.pipeline.Process(context.Background(), msg)
	slog.Debug("Message processed", "message_id", m.ID, "disposition", disposition.String())
}

func (h *Handler) HandleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "ping":
		h.handlePing(s, i)
	case "serverinfo":
		h.handleServerInfo(s, i)
	case "ai":
		h.handleAI(s, i)
	case "censor":
		h.handleCensor(s, i)
	}
}

func (h *Handler) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	text := fmt.Sprintf("Pong! %dms", s.HeartbeatLatency().Milliseconds())
	h.respond(s, i, text, false)
}

func (h *Handler) handleServerInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		h.respond(s, i, "This command only works inside a guild.", true)
		return
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			h.respond(s, i, "Could not look up this guild.", true)
			return
		}
	}

	text := fmt.Sprintf("Guild: %s\nMembers: %d\nChannels: %d\nRoles: %d",
		guild.Name, guild.MemberCount, len(guild.Channels), len(guild.Roles))
	h.respond(s, i, text, false)
}

func (h *Handler) handleAI(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if h.gemini == nil {
		h.respond(s, i, "The AI command is not configured.", true)
		return
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		h.respond(s, i, "A prompt is required.", true)
		return
	}
	prompt := data.Options[0].StringValue()

	// Model calls are slow; acknowledge first and follow up.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		slog.Warn("Failed to defer AI interaction", "error", err)
		return
	}

	reply, err := h.gemini.Query(context.Background(), prompt)
	if err != nil {
		slog.Warn("AI query failed", "error", err)
		reply = fmt.Sprintf("AI request failed: %v", err)
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: TruncateReply(reply, maxDiscordMessageLen),
	}); err != nil {
		slog.Warn("Failed to send AI follow-up", "error", err)
	}
}

func (h *Handler) handleCensor(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		h.respond(s, i, "This command only works inside a guild.", true)
		return
	}

	info, err := h.actions.guildInfo(context.Background(), i.GuildID)
	if err != nil {
		slog.Warn("Failed to resolve guild for admin command", "guild_id", i.GuildID, "error", err)
	}

	caller := Caller{
		UserID:      i.Member.User.ID,
		Permissions: i.Member.Permissions,
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	var reply string
	switch sub.Name {
	case "add":
		var term string
		var level int64
		for _, opt := range sub.Options {
			switch opt.Name {
			case "term":
				term = opt.StringValue()
			case "level":
				level = opt.IntValue()
			}
		}
		reply, err = h.admin.RegisterTerm(i.GuildID, info.OwnerID, caller, term, int(level))
	case "list":
		reply, err = h.admin.ListTerms(i.GuildID, info.OwnerID, caller)
	default:
		return
	}

	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			h.respond(s, i, "You are not allowed to manage banned terms.", true)
			return
		}
		h.respond(s, i, fmt.Sprintf("Request rejected: %v", err), true)
		return
	}
	h.respond(s, i, reply, true)
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, text string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: TruncateReply(text, maxDiscordMessageLen)}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Warn("Failed to respond to interaction", "command", i.ApplicationCommandData().Name, "error", err)
	}
}
