package ledger

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LeJamon/goXRPLwallet/internal/metrics"
)

// CachedEntries is a Service that serves LedgerEntry lookups from an LRU cache.
// Only validated entries are cached; every other method goes straight to the
// wrapped Service.
type CachedEntries struct {
	Service
	entries *lru.Cache[string, *LedgerEntryResult]
}

// NewCachedEntries wraps svc with a ledger entry cache of the given size.
func NewCachedEntries(svc Service, size int) (*CachedEntries, error) {
	cache, err := lru.New[string, *LedgerEntryResult](size)
	if err != nil {
		return nil, fmt.Errorf("create entry cache: %w", err)
	}
	return &CachedEntries{Service: svc, entries: cache}, nil
}

func (c *CachedEntries) LedgerEntry(ctx context.Context, index string) (*LedgerEntryResult, error) {
	if entry, ok := c.entries.Get(index); ok {
		metrics.LedgerEntryCacheHits.Inc()
		return entry, nil
	}
	entry, err := c.Service.LedgerEntry(ctx, index)
	if err != nil {
		return nil, err
	}
	if entry.Validated {
		c.entries.Add(index, entry)
	}
	return entry, nil
}

// Purge drops every cached entry.
func (c *CachedEntries) Purge() {
	c.entries.Purge()
}
