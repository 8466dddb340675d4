package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/LeJamon/goXRPLwallet/internal/storage/database"
)

// Manager keeps one bbolt file per database name, holding a bucket of the
// same name.
type Manager struct {
	dbs     map[string]*bbolt.DB
	handles map[string][]*DB
	path    string
	mu      sync.Mutex
}

var _ database.Manager = (*Manager)(nil)

func NewManager(path string) *Manager {
	return &Manager{
		dbs:     make(map[string]*bbolt.DB),
		handles: make(map[string][]*DB),
		path:    path,
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		var err error
		db, err = bbolt.Open(filepath.Join(m.path, name+".db"), 0600, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to open database %s: %w", name, err)
		}

		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			return err
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create bucket for %s: %w", name, err)
		}
		m.dbs[name] = db
	}

	handle := NewDB(db, []byte(name))
	m.handles[name] = append(m.handles[name], handle)
	return handle, nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return fmt.Errorf("database %s not found", name)
	}
	return m.closeLocked(name, db)
}

func (m *Manager) closeLocked(name string, db *bbolt.DB) error {
	for _, handle := range m.handles[name] {
		handle.close()
	}
	delete(m.handles, name)
	delete(m.dbs, name)
	return db.Close()
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.dbs {
		if err := m.closeLocked(name, db); err != nil {
			lastErr = fmt.Errorf("failed to close database %s: %w", name, err)
		}
	}
	return lastErr
}
