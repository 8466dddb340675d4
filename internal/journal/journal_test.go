package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T, backend string) *Journal {
	t.Helper()
	j, manager, err := Open(backend, filepath.Join(t.TempDir(), "journal"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return j
}

func TestJournal(t *testing.T) {
	for _, backend := range []string{BackendPebble, BackendBBolt} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			j := openTestJournal(t, backend)

			require.NoError(t, j.Record(ctx, Entry{ID: "b", Type: "Payment", State: "Built"}))
			require.NoError(t, j.Record(ctx, Entry{ID: "a", Type: "SignIn", State: "Built"}))
			require.NoError(t, j.Record(ctx, Entry{ID: "b", Type: "Payment", State: "Signed", Hash: "AB"}))

			b, err := j.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "Signed", b.State)
			assert.Equal(t, "AB", b.Hash)
			assert.True(t, b.UpdatedAt.After(b.CreatedAt))

			entries, err := j.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			// Creation order, not key order and not update order.
			assert.Equal(t, "b", entries[0].ID)
			assert.Equal(t, "a", entries[1].ID)

			limited, err := j.List(ctx, 1)
			require.NoError(t, err)
			require.Len(t, limited, 1)

			_, err = j.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestJournal_RejectsEmptyID(t *testing.T) {
	j := openTestJournal(t, BackendBBolt)
	assert.Error(t, j.Record(context.Background(), Entry{}))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open("leveldb", t.TempDir())
	assert.Error(t, err)
}
