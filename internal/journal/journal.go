// Package journal persists the lifecycle of every signing attempt so that
// submissions can be audited and resumed after a restart.
package journal

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/goXRPLwallet/internal/storage/database"
)

var ErrNotFound = errors.New("journal entry not found")

var (
	entryPrefix = []byte("entry/")
	timePrefix  = []byte("time/")
)

// Entry is the latest known state of one attempt.
type Entry struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash,omitempty"`
	Type      string    `json:"type"`
	Account   string    `json:"account"`
	State     string    `json:"state"`
	Kind      string    `json:"kind,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Code      string    `json:"code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Journal stores entries keyed by attempt id, with a creation-time index for
// listing.
type Journal struct {
	db  database.DB
	now func() time.Time
}

func New(db database.DB) *Journal {
	return &Journal{db: db, now: time.Now}
}

func entryKey(id string) []byte {
	return append(append([]byte(nil), entryPrefix...), id...)
}

func timeKey(created time.Time, id string) []byte {
	key := append([]byte(nil), timePrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(created.UnixNano()))
	return append(key, id...)
}

// Record stores e as the latest state of its attempt. CreatedAt is kept from
// the first record of the attempt; UpdatedAt is set to the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("record: empty attempt id")
	}

	ops := make([]database.BatchOperation, 0, 2)
	prev, err := j.Get(ctx, e.ID)
	switch {
	case err == nil:
		e.CreatedAt = prev.CreatedAt
	case errors.Is(err, ErrNotFound):
		e.CreatedAt = j.now().UTC()
		ops = append(ops, database.BatchOperation{
			Type:  database.BatchPut,
			Key:   timeKey(e.CreatedAt, e.ID),
			Value: []byte(e.ID),
		})
	default:
		return err
	}
	e.UpdatedAt = j.now().UTC()

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: entryKey(e.ID), Value: value})

	if err := j.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("record entry %s: %w", e.ID, err)
	}
	return nil
}

// Get returns the entry of an attempt.
func (j *Journal) Get(ctx context.Context, id string) (Entry, error) {
	value, err := j.db.Read(ctx, entryKey(id))
	if errors.Is(err, database.ErrKeyNotFound) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("read entry %s: %w", id, err)
	}

	var e Entry
	if err := json.Unmarshal(value, &e); err != nil {
		return Entry{}, fmt.Errorf("decode entry %s: %w", id, err)
	}
	return e, nil
}

// List returns entries in creation order, at most limit of them when limit is
// positive.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	it, err := j.db.Iterator(ctx, timePrefix, database.PrefixEnd(timePrefix))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer it.Close()

	var entries []Entry
	for it.Next() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		e, err := j.Get(ctx, string(it.Value()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}
