package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const entryPrefix = "audit:"

// Entry is one enforcement decision, written after the pipeline has
// acted on a violation. The moderation decision path never reads the
// journal back; it is write-only telemetry.
type Entry struct {
	Time    time.Time `json:"time"`
	GuildID string    `json:"guild_id"`
	UserID  string    `json:"user_id"`
	Term    string    `json:"term"`
	Level   string    `json:"level"`
	Count   int       `json:"count"`
	Action  string    `json:"action"`
}

// Journal is the generic interface for enforcement journals. It allows
// swapping the real database for a mock in tests.
type Journal interface {
	Record(ctx context.Context, entry Entry) error
	Close() error
}

// --- BADGERDB IMPLEMENTATION (PRODUCTION) ---

// BadgerJournal is the production implementation of Journal backed by
// BadgerDB.
type BadgerJournal struct {
	db        *badger.DB
	retention time.Duration
}

// badgerLogger adapts slog.Logger to be used as a logger for BadgerDB.
type badgerLogger struct {
	*slog.Logger
}

func (l *badgerLogger) Warningf(f string, v ...any) { l.Warn(fmt.Sprintf(f, v...)) }
func (l *badgerLogger) Errorf(f string, v ...any)   { l.Error(fmt.Sprintf(f, v...)) }
func (l *badgerLogger) Infof(f string, v ...any)    {}
func (l *badgerLogger) Debugf(f string, v ...any)   {}

// NewBadgerJournal opens the journal database at path. Entries older
// than retention are expired by the database; a zero retention keeps
// them forever.
func NewBadgerJournal(path string, retention time.Duration) (*BadgerJournal, error) {
	opts := badger.DefaultOptions(path)

	// Journal entries are small JSON blobs; keeping them in the
	// LSM-tree instead of the value log avoids an extra lookup.
	opts.ValueThreshold = 1024

	opts.Logger = &badgerLogger{slog.Default()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit db: %w", err)
	}

	return &BadgerJournal{db: db, retention: retention}, nil
}

func (j *BadgerJournal) Close() error {
	return j.db.Close()
}

// Record appends an enforcement entry. The key embeds guild, timestamp
// and user so entries sort chronologically per guild.
func (j *BadgerJournal) Record(ctx context.Context, entry Entry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	key := []byte(fmt.Sprintf("%s%s:%d:%s", entryPrefix, entry.GuildID, entry.Time.UnixNano(), entry.UserID))
	return j.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, value)
		if j.retention > 0 {
			e = e.WithTTL(j.retention)
		}
		return txn.SetEntry(e)
	})
}

// List returns a guild's journal entries in chronological order. It is
// used by operators and tests; the moderation path never calls it.
func (j *BadgerJournal) List(ctx context.Context, guildID string) ([]Entry, error) {
	prefix := []byte(entryPrefix + guildID + ":")

	var entries []Entry
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return fmt.Errorf("failed to decode audit entry: %w", err)
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
