// moderation/tracker.go
package moderation

import "sync"

// ViolationTracker counts confirmed banned-term hits per user per guild.
// Counts are monotonically non-decreasing for the lifetime of the
// process; nothing ever resets or decays them.
type ViolationTracker struct {
	mu     sync.Mutex
	counts map[string]map[string]int
}

func NewViolationTracker() *ViolationTracker {
	return &ViolationTracker{
		counts: make(map[string]map[string]int),
	}
}

// Record increments the violation count for a user in a guild and
// returns the new count. Increments for the same (guild, user) pair are
// serialized, so concurrent confirmed hits can never be lost or
// double-applied.
func (t *ViolationTracker) Record(guildID, userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	guild, ok := t.counts[guildID]
	if !ok {
		guild = make(map[string]int)
		t.counts[guildID] = guild
	}
	guild[userID]++
	return guild[userID]
}

// Count returns the current violation count for a user in a guild.
// Users with no recorded violations report zero.
func (t *ViolationTracker) Count(guildID, userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[guildID][userID]
}
