// discord/admin.go
package discord

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oleps69/discord-bot/moderation"

	"github.com/bwmarrin/discordgo"
)

// ErrNotAuthorized rejects registration attempts from callers who are
// neither the guild owner nor an administrator.
var ErrNotAuthorized = errors.New("only the guild owner or an administrator can manage banned terms")

// Caller identifies who invoked an administrative command and with what
// permissions.
type Caller struct {
	UserID      string
	Permissions int64
}

func (c Caller) isAdmin(ownerID string) bool {
	if c.UserID != "" && c.UserID == ownerID {
		return true
	}
	return c.Permissions&discordgo.PermissionAdministrator != 0
}

// Admin applies administrative commands to the moderation state after
// checking the caller's authority. Unauthorized or invalid requests
// leave the registry untouched.
type Admin struct {
	state *moderation.State
}

func NewAdmin(state *moderation.State) *Admin {
	return &Admin{state: state}
}

// RegisterTerm adds or updates a banned term for a guild and returns
// the acknowledgement text shown to the caller.
func (a *Admin) RegisterTerm(guildID, ownerID string, caller Caller, term string, level int) (string, error) {
	if !caller.isAdmin(ownerID) {
		return "", ErrNotAuthorized
	}

	strictness, err := moderation.ParseStrictnessLevel(level)
	if err != nil {
		return "", err
	}

	if err := a.state.Registry.Register(guildID, term, strictness); err != nil {
		return "", err
	}

	slog.Info("Banned term registered",
		"guild_id", guildID, "caller_id", caller.UserID, "level", strictness.String())
	return fmt.Sprintf("Registered banned term ||%s|| at level %d (%s).", term, level, strictness), nil
}

// ListTerms returns the spoiler-masked term list for a guild, owner or
// administrator only.
func (a *Admin) ListTerms(guildID, ownerID string, caller Caller) (string, error) {
	if !caller.isAdmin(ownerID) {
		return "", ErrNotAuthorized
	}

	terms := a.state.Registry.Terms(guildID)
	if len(terms) == 0 {
		return "No banned terms registered for this guild.", nil
	}

	out := fmt.Sprintf("%d banned term(s):\n", len(terms))
	for _, t := range terms {
		out += fmt.Sprintf("- ||%s|| (%s)\n", t.Term, t.Level)
	}
	return out, nil
}
