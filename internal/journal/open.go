package journal

import (
	"fmt"
	"os"

	"github.com/LeJamon/goXRPLwallet/internal/storage/database"
	"github.com/LeJamon/goXRPLwallet/internal/storage/database/bbolt"
	"github.com/LeJamon/goXRPLwallet/internal/storage/database/pebble"
)

// dbName is the database the journal lives in.
const dbName = "journal"

// Backends
const (
	BackendPebble = "pebble"
	BackendBBolt  = "bbolt"
)

// Open opens the journal under dir with the named backend. The returned
// manager must be closed by the caller.
func Open(backend, dir string) (*Journal, database.Manager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create journal dir: %w", err)
	}

	var manager database.Manager
	switch backend {
	case BackendPebble:
		manager = pebble.NewManager(dir)
	case BackendBBolt:
		manager = bbolt.NewManager(dir)
	default:
		return nil, nil, fmt.Errorf("unknown journal backend %q", backend)
	}

	db, err := manager.OpenDB(dbName)
	if err != nil {
		return nil, nil, err
	}
	return New(db), manager, nil
}
