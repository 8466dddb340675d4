// Package dbtest holds the behavior every database backend must share.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXRPLwallet/internal/storage/database"
)

// Run exercises a backend through the Manager returned by open.
func Run(t *testing.T, open func(t *testing.T) database.Manager) {
	ctx := context.Background()

	t.Run("read write delete", func(t *testing.T) {
		manager := open(t)
		defer manager.Close()
		db, err := manager.OpenDB("basic")
		require.NoError(t, err)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("batch", func(t *testing.T) {
		manager := open(t)
		defer manager.Close()
		db, err := manager.OpenDB("batch")
		require.NoError(t, err)

		require.NoError(t, db.Write(ctx, []byte("gone"), []byte("x")))
		err = db.Batch(ctx, []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("a"), Value: []byte("1")},
			{Type: database.BatchPut, Key: []byte("b"), Value: []byte("2")},
			{Type: database.BatchDelete, Key: []byte("gone")},
		})
		require.NoError(t, err)

		got, err := db.Read(ctx, []byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), got)
		_, err = db.Read(ctx, []byte("gone"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("iterator range", func(t *testing.T) {
		manager := open(t)
		defer manager.Close()
		db, err := manager.OpenDB("iter")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			require.NoError(t, db.Write(ctx, []byte(fmt.Sprintf("p/%d", i)), []byte{byte(i)}))
		}
		require.NoError(t, db.Write(ctx, []byte("q/0"), []byte("other")))

		prefix := []byte("p/")
		it, err := db.Iterator(ctx, prefix, database.PrefixEnd(prefix))
		require.NoError(t, err)
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())
		assert.Equal(t, []string{"p/0", "p/1", "p/2", "p/3", "p/4"}, keys)

		it, err = db.Iterator(ctx, []byte("p/1"), []byte("p/3"))
		require.NoError(t, err)
		keys = nil
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Close())
		assert.Equal(t, []string{"p/1", "p/2"}, keys)
	})

	t.Run("closed", func(t *testing.T) {
		manager := open(t)
		db, err := manager.OpenDB("closed")
		require.NoError(t, err)
		require.NoError(t, manager.Close())

		_, err = db.Read(ctx, []byte("k"))
		assert.ErrorIs(t, err, database.ErrDBClosed)
		assert.ErrorIs(t, db.Write(ctx, []byte("k"), nil), database.ErrDBClosed)
	})

	t.Run("reopen persists", func(t *testing.T) {
		manager := open(t)
		db, err := manager.OpenDB("persist")
		require.NoError(t, err)
		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

		db2, err := manager.OpenDB("persist")
		require.NoError(t, err)
		got, err := db2.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
		require.NoError(t, manager.Close())
	})
}
