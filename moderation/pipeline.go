// moderation/pipeline.go
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oleps69/discord-bot/audit"
	"github.com/oleps69/discord-bot/config"
	"github.com/oleps69/discord-bot/metrics"
)

// Message is the inbound chat event the pipeline inspects.
type Message struct {
	GuildID    string
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
	Content    string
	Bot        bool
}

// OwnerAlert is the structured notification sent to the guild owner
// after a confirmed violation. The guild's display name is resolved at
// the platform boundary when the alert is rendered.
type OwnerAlert struct {
	GuildID      string
	ChannelID    string
	UserID       string
	UserName     string
	MaskedTerm   string
	Count        int
	BanThreshold int
}

// Actions is the outbound platform boundary. Every call is fallible;
// the pipeline logs failures and always continues, so a lost side
// effect can never block the event stream or roll back a recorded
// violation.
type Actions interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	KickUser(ctx context.Context, guildID, userID, reason string) error
	BanUser(ctx context.Context, guildID, userID, reason string) error
	NotifyOwner(ctx context.Context, alert OwnerAlert) error
	SendChannelMessage(ctx context.Context, channelID, text string, autoDeleteAfter time.Duration) error
}

// Disposition tells the caller what the pipeline did with a message.
// The caller forwards the message to ordinary command processing
// regardless of the disposition.
type Disposition int

const (
	// DispositionSkipped means the message was outside moderation scope
	// (bot author or no guild context).
	DispositionSkipped Disposition = iota
	// DispositionClean means no banned term matched.
	DispositionClean
	// DispositionActioned means a banned term matched and enforcement
	// was applied.
	DispositionActioned
)

func (d Disposition) String() string {
	switch d {
	case DispositionSkipped:
		return "skipped"
	case DispositionClean:
		return "clean"
	case DispositionActioned:
		return "actioned"
	default:
		return fmt.Sprintf("disposition(%d)", int(d))
	}
}

// State owns the mutable moderation maps: the banned-term registry and
// the per-user violation counters. It is injected into the pipeline so
// tests and multiple bot instances can hold independent state.
type State struct {
	Registry *TermRegistry
	Tracker  *ViolationTracker
}

func NewState() *State {
	return &State{
		Registry: NewTermRegistry(),
		Tracker:  NewViolationTracker(),
	}
}

// Pipeline orchestrates one message event: match, count, enforce,
// notify. It is safe for concurrent use; each inbound message is
// expected to arrive on its own goroutine.
type Pipeline struct {
	state   *State
	matcher *Matcher
	policy  EscalationPolicy
	actions Actions
	journal audit.Journal

	warnTTL       time.Duration
	actionTimeout time.Duration
	dryRun        bool
}

// NewPipeline wires a pipeline from config. The journal may be nil when
// auditing is disabled.
func NewPipeline(cfg *config.ModerationConfig, state *State, actions Actions, journal audit.Journal, dryRun bool) (*Pipeline, error) {
	policy := EscalationPolicy{
		KickThreshold: cfg.KickThreshold,
		BanThreshold:  cfg.BanThreshold,
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	for _, rule := range cfg.Terms {
		level, err := ParseStrictnessLevel(rule.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid preloaded term %q: %w", rule.Term, err)
		}
		if err := state.Registry.Register(rule.Guild, rule.Term, level); err != nil {
			return nil, fmt.Errorf("invalid preloaded term %q: %w", rule.Term, err)
		}
	}

	return &Pipeline{
		state:         state,
		matcher:       NewMatcher(state.Registry),
		policy:        policy,
		actions:       actions,
		journal:       journal,
		warnTTL:       cfg.WarnTTL,
		actionTimeout: cfg.ActionTimeout,
		dryRun:        dryRun,
	}, nil
}

// Process runs one message through the moderation filter. The violation
// increment is authoritative and synchronous; every outbound side
// effect is best-effort with a bounded timeout.
func (p *Pipeline) Process(ctx context.Context, msg *Message) Disposition {
	if msg == nil || msg.Bot || msg.GuildID == "" {
		metrics.MessagesTotal.WithLabelValues("skipped").Inc()
		return DispositionSkipped
	}

	start := time.Now()
	match := p.matcher.Check(msg.Content, msg.GuildID)
	metrics.CheckDuration.Observe(time.Since(start).Seconds())

	if !match.Matched {
		metrics.MessagesTotal.WithLabelValues("clean").Inc()
		return DispositionClean
	}
	metrics.MessagesTotal.WithLabelValues("matched").Inc()

	logAttrs := []any{
		"guild_id", msg.GuildID,
		"channel_id", msg.ChannelID,
		"author_id", msg.AuthorID,
		"term", match.Term,
		"level", match.Level.String(),
	}

	if p.dryRun {
		slog.Info("Dry-run: message would trigger enforcement", logAttrs...)
		return DispositionActioned
	}

	slog.Info("Message matched banned term", logAttrs...)

	p.sideEffect(ctx, "delete message", func(ctx context.Context) error {
		return p.actions.DeleteMessage(ctx, msg.ChannelID, msg.MessageID)
	})

	count := p.state.Tracker.Record(msg.GuildID, msg.AuthorID)

	alert := OwnerAlert{
		GuildID:      msg.GuildID,
		ChannelID:    msg.ChannelID,
		UserID:       msg.AuthorID,
		UserName:     msg.AuthorName,
		MaskedTerm:   "||" + match.Term + "||",
		Count:        count,
		BanThreshold: p.policy.BanThreshold,
	}
	p.sideEffect(ctx, "notify owner", func(ctx context.Context) error {
		return p.actions.NotifyOwner(ctx, alert)
	})

	action := p.policy.ActionFor(count)
	p.enforce(ctx, msg, action, count)
	metrics.ActionsTotal.WithLabelValues(action.String()).Inc()

	if p.journal != nil {
		entry := audit.Entry{
			Time:    time.Now(),
			GuildID: msg.GuildID,
			UserID:  msg.AuthorID,
			Term:    match.Term,
			Level:   match.Level.String(),
			Count:   count,
			Action:  action.String(),
		}
		if err := p.journal.Record(ctx, entry); err != nil {
			slog.Error("Failed to write audit entry", "error", err, "guild_id", msg.GuildID, "user_id", msg.AuthorID)
		}
	}

	return DispositionActioned
}

func (p *Pipeline) enforce(ctx context.Context, msg *Message, action Action, count int) {
	switch action {
	case ActionWarn:
		text := fmt.Sprintf("<@%s>, that word is not allowed here. Warning %d/%d.", msg.AuthorID, count, p.policy.BanThreshold)
		p.sideEffect(ctx, "send warning", func(ctx context.Context) error {
			return p.actions.SendChannelMessage(ctx, msg.ChannelID, text, p.warnTTL)
		})

	case ActionKick, ActionBan:
		reason := fmt.Sprintf("banned term violation #%d", count)
		if action == ActionKick {
			p.sideEffect(ctx, "kick user", func(ctx context.Context) error {
				return p.actions.KickUser(ctx, msg.GuildID, msg.AuthorID, reason)
			})
		} else {
			p.sideEffect(ctx, "ban user", func(ctx context.Context) error {
				return p.actions.BanUser(ctx, msg.GuildID, msg.AuthorID, reason)
			})
		}
	}
}

// sideEffect runs one outbound platform call with a bounded timeout.
// Failures are logged and swallowed.
func (p *Pipeline) sideEffect(ctx context.Context, name string, fn func(ctx context.Context) error) {
	callCtx, cancel := context.WithTimeout(ctx, p.actionTimeout)
	defer cancel()

	if err := fn(callCtx); err != nil {
		slog.Warn("Moderation side effect failed", "call", name, "error", err)
	}
}
