// testutils/actions.go
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/oleps69/discord-bot/moderation"
)

// ActionCall records one outbound platform call made by the pipeline.
type ActionCall struct {
	Kind      string // "delete", "kick", "ban", "notify", "channel_message"
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Reason    string
	Text      string
	TTL       time.Duration
	Alert     moderation.OwnerAlert
}

// RecordingActions is a moderation.Actions implementation that records
// every call and can be told to fail selected call kinds. It is safe
// for concurrent use.
type RecordingActions struct {
	mu    sync.Mutex
	calls []ActionCall
	fail  map[string]error
}

func NewRecordingActions() *RecordingActions {
	return &RecordingActions{fail: make(map[string]error)}
}

// FailWith makes all subsequent calls of the given kind return err.
func (a *RecordingActions) FailWith(kind string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail[kind] = err
}

func (a *RecordingActions) record(call ActionCall) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
	return a.fail[call.Kind]
}

// Calls returns a copy of all recorded calls, optionally filtered by kind.
func (a *RecordingActions) Calls(kinds ...string) []ActionCall {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(kinds) == 0 {
		out := make([]ActionCall, len(a.calls))
		copy(out, a.calls)
		return out
	}

	var out []ActionCall
	for _, call := range a.calls {
		for _, kind := range kinds {
			if call.Kind == kind {
				out = append(out, call)
				break
			}
		}
	}
	return out
}

func (a *RecordingActions) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return a.record(ActionCall{Kind: "delete", ChannelID: channelID, MessageID: messageID})
}

func (a *RecordingActions) KickUser(ctx context.Context, guildID, userID, reason string) error {
	return a.record(ActionCall{Kind: "kick", GuildID: guildID, UserID: userID, Reason: reason})
}

func (a *RecordingActions) BanUser(ctx context.Context, guildID, userID, reason string) error {
	return a.record(ActionCall{Kind: "ban", GuildID: guildID, UserID: userID, Reason: reason})
}

func (a *RecordingActions) NotifyOwner(ctx context.Context, alert moderation.OwnerAlert) error {
	return a.record(ActionCall{Kind: "notify", GuildID: alert.GuildID, UserID: alert.UserID, Alert: alert})
}

func (a *RecordingActions) SendChannelMessage(ctx context.Context, channelID, text string, autoDeleteAfter time.Duration) error {
	return a.record(ActionCall{Kind: "channel_message", ChannelID: channelID, Text: text, TTL: autoDeleteAfter})
}
