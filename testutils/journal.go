// testutils/journal.go
package testutils

import (
	"context"
	"sync"

	"github.com/oleps69/discord-bot/audit"
)

// MemoryJournal is an in-memory audit.Journal for tests.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// SetError makes subsequent Record calls fail with err.
func (j *MemoryJournal) SetError(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.err = err
}

func (j *MemoryJournal) Record(ctx context.Context, entry audit.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, entry)
	return nil
}

func (j *MemoryJournal) Entries() []audit.Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]audit.Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *MemoryJournal) Close() error { return nil }
