package bbolt

import (
	"testing"

	"github.com/LeJamon/goXRPLwallet/internal/storage/database"
	"github.com/LeJamon/goXRPLwallet/internal/storage/database/dbtest"
)

func TestBBoltDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.Manager {
		return NewManager(t.TempDir())
	})
}
