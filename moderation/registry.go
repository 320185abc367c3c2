// moderation/registry.go
package moderation

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyTerm is returned when a registration carries a blank term.
var ErrEmptyTerm = errors.New("banned term must not be empty")

// BannedTerm pairs a registered term with the strictness level it is
// matched at.
type BannedTerm struct {
	Term  string
	Level StrictnessLevel
}

// TermRegistry holds each guild's banned terms. Guilds are fully
// independent of one another. Terms are scanned in insertion order;
// re-registering an existing term keeps its position and only updates
// the level, so the scan order stays deterministic across overwrites.
type TermRegistry struct {
	mu     sync.RWMutex
	guilds map[string][]BannedTerm
	index  map[string]map[string]int
}

func NewTermRegistry() *TermRegistry {
	return &TermRegistry{
		guilds: make(map[string][]BannedTerm),
		index:  make(map[string]map[string]int),
	}
}

// Register stores or overwrites a banned term for a guild. Terms are
// case-insensitive and stored lowercased.
func (r *TermRegistry) Register(guildID, term string, level StrictnessLevel) error {
	normalized := strings.ToLower(strings.TrimSpace(term))
	if normalized == "" {
		return ErrEmptyTerm
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.index[guildID]
	if !ok {
		idx = make(map[string]int)
		r.index[guildID] = idx
	}

	if pos, exists := idx[normalized]; exists {
		r.guilds[guildID][pos].Level = level
		return nil
	}

	idx[normalized] = len(r.guilds[guildID])
	r.guilds[guildID] = append(r.guilds[guildID], BannedTerm{Term: normalized, Level: level})
	return nil
}

// Terms returns a snapshot of a guild's banned terms in insertion order.
// The returned slice is a copy so concurrent Register calls cannot be
// observed mid-scan. An unknown guild yields an empty snapshot.
func (r *TermRegistry) Terms(guildID string) []BannedTerm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.guilds[guildID]
	if len(entries) == 0 {
		return nil
	}
	snapshot := make([]BannedTerm, len(entries))
	copy(snapshot, entries)
	return snapshot
}

// Len reports how many terms a guild has registered.
func (r *TermRegistry) Len(guildID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.guilds[guildID])
}
