package pebble

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/LeJamon/goXRPLwallet/internal/storage/database"
)

type Manager struct {
	dbs     map[string]*pebble.DB
	handles map[string][]*DB
	path    string
	mu      sync.Mutex
}

var _ database.Manager = (*Manager)(nil)

func NewManager(path string) *Manager {
	return &Manager{
		dbs:     make(map[string]*pebble.DB),
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
		db, err = pebble.Open(filepath.Join(m.path, name+".db"), &pebble.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to open database %s: %w", name, err)
		}
		m.dbs[name] = db
	}

	handle := NewDB(db)
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

func (m *Manager) closeLocked(name string, db *pebble.DB) error {
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
