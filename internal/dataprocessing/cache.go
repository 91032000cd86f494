package dataprocessing

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"basketpulse/internal/config"
	apierrors "basketpulse/internal/errors"
)

// TableLoader loads the five source tables
type TableLoader interface {
	Load(ctx context.Context, files config.DatasetFiles) (*Tables, error)
}

// Snapshot is one loaded version of the dataset
type Snapshot struct {
	Tables       *Tables
	Identity     DatasetIdentity
	LoadedAt     time.Time
	LoadDuration time.Duration
}

// CacheStats reports the state of the dataset cache
type CacheStats struct {
	Warm             bool            `json:"warm"`
	Identity         DatasetIdentity `json:"identity,omitempty"`
	LoadedAt         *time.Time      `json:"loaded_at,omitempty"`
	LastLoadDuration string          `json:"last_load_duration,omitempty"`
	RowCounts        map[string]int  `json:"row_counts,omitempty"`
	HitCount         int64           `json:"hit_count"`
	MissCount        int64           `json:"miss_count"`
	LoadCount        int64           `json:"load_count"`
	HitRatio         float64         `json:"hit_ratio"`
}

// DatasetCache memoizes loaded tables per dataset identity.
// Every lookup re-stats the files; a changed identity triggers a reload.
// Concurrent lookups for the same identity share a single load.
type DatasetCache struct {
	loader       TableLoader
	hashContents bool
	logger       *slog.Logger

	mutex sync.RWMutex
	entry *Snapshot
	key   string

	group     singleflight.Group
	hitCount  atomic.Int64
	missCount atomic.Int64
	loadCount atomic.Int64
}

// NewDatasetCache creates a new dataset cache
func NewDatasetCache(loader TableLoader, hashContents bool, logger *slog.Logger) *DatasetCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetCache{
		loader:       loader,
		hashContents: hashContents,
		logger:       logger.With(slog.String("component", "dataset_cache")),
	}
}

// Get returns the tables for the current file identities. The second return
// value reports whether the result came from the cache.
func (c *DatasetCache) Get(ctx context.Context, files config.DatasetFiles) (*Snapshot, bool, error) {
	identity, err := StatDataset(files, c.hashContents)
	if err != nil {
		return nil, false, apierrors.NewStageError(apierrors.StageLoad, err)
	}
	key := identity.Key()

	c.mutex.RLock()
	entry, cachedKey := c.entry, c.key
	c.mutex.RUnlock()

	if entry != nil && cachedKey == key {
		c.hitCount.Add(1)
		return entry, true, nil
	}

	c.missCount.Add(1)
	if entry != nil {
		c.logger.InfoContext(ctx, "dataset changed, reloading")
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return c.load(context.WithoutCancel(ctx), files, identity, key)
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		c.logger.DebugContext(ctx, "joined in-flight dataset load")
	}

	return v.(*Snapshot), false, nil
}

func (c *DatasetCache) load(ctx context.Context, files config.DatasetFiles, identity DatasetIdentity, key string) (*Snapshot, error) {
	start := time.Now()
	c.loadCount.Add(1)

	tables, err := c.loader.Load(ctx, files)
	if err != nil {
		c.logger.ErrorContext(ctx, "dataset load failed", slog.String("error", err.Error()))
		return nil, err
	}

	snapshot := &Snapshot{
		Tables:       tables,
		Identity:     identity,
		LoadedAt:     time.Now(),
		LoadDuration: time.Since(start),
	}

	// A file rewritten during the load leaves the snapshot uncached so the
	// next lookup sees the new identity.
	after, err := StatDataset(files, false)
	if err != nil || !sameStat(identity, after) {
		c.logger.WarnContext(ctx, "dataset changed during load, result not cached")
		return snapshot, nil
	}

	c.mutex.Lock()
	c.entry = snapshot
	c.key = key
	c.mutex.Unlock()

	c.logger.InfoContext(ctx, "dataset loaded",
		slog.Duration("duration", snapshot.LoadDuration),
		slog.Int("order_lines", len(tables.OrderLines)))

	return snapshot, nil
}

// Invalidate drops the cached tables; the next Get reloads
func (c *DatasetCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.key != "" {
		c.group.Forget(c.key)
	}
	c.entry = nil
	c.key = ""
}

// Stats returns cache statistics
func (c *DatasetCache) Stats() CacheStats {
	c.mutex.RLock()
	entry := c.entry
	c.mutex.RUnlock()

	stats := CacheStats{
		HitCount:  c.hitCount.Load(),
		MissCount: c.missCount.Load(),
		LoadCount: c.loadCount.Load(),
	}
	if total := stats.HitCount + stats.MissCount; total > 0 {
		stats.HitRatio = float64(stats.HitCount) / float64(total)
	}

	if entry != nil {
		loadedAt := entry.LoadedAt
		stats.Warm = true
		stats.Identity = entry.Identity
		stats.LoadedAt = &loadedAt
		stats.LastLoadDuration = entry.LoadDuration.String()
		stats.RowCounts = entry.Tables.RowCounts()
	}

	return stats
}

// sameStat compares size and modification time only
func sameStat(a, b DatasetIdentity) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path || a[i].Size != b[i].Size || !a[i].ModTime.Equal(b[i].ModTime) {
			return false
		}
	}
	return true
}
