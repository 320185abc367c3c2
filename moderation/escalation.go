// moderation/escalation.go
package moderation

import "fmt"

// Action is the enforcement response selected for a violation event.
type Action int

const (
	ActionNone Action = iota
	ActionWarn
	ActionKick
	ActionBan
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionWarn:
		return "warn"
	case ActionKick:
		return "kick"
	case ActionBan:
		return "ban"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// EscalationPolicy maps a post-increment violation count to exactly one
// enforcement action. The action is chosen by the new count alone;
// crossing a threshold never re-fires the lower actions.
type EscalationPolicy struct {
	KickThreshold int
	BanThreshold  int
}

// DefaultEscalationPolicy warns on counts 1-3, kicks on 4-7 and bans
// from 8 on.
func DefaultEscalationPolicy() EscalationPolicy {
	return EscalationPolicy{KickThreshold: 4, BanThreshold: 8}
}

func (p EscalationPolicy) Validate() error {
	if p.KickThreshold < 2 {
		return fmt.Errorf("kick threshold must be at least 2, got %d", p.KickThreshold)
	}
	if p.BanThreshold <= p.KickThreshold {
		return fmt.Errorf("ban threshold (%d) must be greater than kick threshold (%d)", p.BanThreshold, p.KickThreshold)
	}
	return nil
}

// ActionFor returns the single action to apply for the given new count.
func (p EscalationPolicy) ActionFor(count int) Action {
	switch {
	case count <= 0:
		return ActionNone
	case count < p.KickThreshold:
		return ActionWarn
	case count < p.BanThreshold:
		return ActionKick
	default:
		return ActionBan
	}
}
