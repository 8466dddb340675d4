// Package pebble implements database.DB on cockroachdb/pebble.
package pebble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/LeJamon/goXRPLwallet/internal/storage/database"
)

type DB struct {
	mu sync.RWMutex
	db *pebble.DB
}

var _ database.DB = (*DB)(nil)

func NewDB(db *pebble.DB) *DB {
	return &DB{db: db}
}

func (p *DB) handle() (*pebble.DB, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return nil, database.ErrDBClosed
	}
	return p.db, nil
}

func (p *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	db, err := p.handle()
	if err != nil {
		return nil, err
	}

	val, closer, err := db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, database.ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	valCopy := make([]byte, len(val))
	copy(valCopy, val)
	return valCopy, nil
}

func (p *DB) Write(ctx context.Context, key, value []byte) error {
	db, err := p.handle()
	if err != nil {
		return err
	}
	return db.Set(key, value, pebble.Sync)
}

func (p *DB) Delete(ctx context.Context, key []byte) error {
	db, err := p.handle()
	if err != nil {
		return err
	}
	return db.Delete(key, pebble.Sync)
}

func (p *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	db, err := p.handle()
	if err != nil {
		return err
	}

	batch := db.NewBatch()
	defer batch.Close()

	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			if err := batch.Set(op.Key, op.Value, nil); err != nil {
				return err
			}
		case database.BatchDelete:
			if err := batch.Delete(op.Key, nil); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}

	return batch.Commit(pebble.Sync)
}

// close releases the handle; the Manager owns the underlying pebble.DB.
func (p *DB) close() {
	p.mu.Lock()
	p.db = nil
	p.mu.Unlock()
}

type Iterator struct {
	iter    *pebble.Iterator
	started bool
}

func (p *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	db, err := p.handle()
	if err != nil {
		return nil, err
	}

	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	return &Iterator{iter: iter}, nil
}

func (it *Iterator) Next() bool {
	if !it.started {
		it.started = true
		return it.iter.First()
	}
	return it.iter.Next()
}

// Key returns a copy of the current key.
func (it *Iterator) Key() []byte {
	return append([]byte(nil), it.iter.Key()...)
}

// Value returns a copy of the current value.
func (it *Iterator) Value() []byte {
	return append([]byte(nil), it.iter.Value()...)
}

func (it *Iterator) Error() error {
	return it.iter.Error()
}

func (it *Iterator) Close() error {
	return it.iter.Close()
}
