package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	entryDb "github.com/gatogato999/ordstore/internal/entry/database"
	"github.com/gatogato999/ordstore/internal/entry/model"
	"github.com/gatogato999/ordstore/internal/logging"
	notifyModel "github.com/gatogato999/ordstore/internal/notify/model"
)

// Scheduler options
type dbSchedulerConfig struct {
	maxKeysStored  int
	maxStorageTime time.Duration
	rebuildTime    time.Duration
}

func newDBScheduler(db *entryDb.DB, config dbSchedulerConfig) *dbScheduler {
	return &dbScheduler{entryDb: db, opts: config}
}

// The scheduler is responsible for deleting old data from the DB.
// It can maintain the required amount of data per keyspace or expire old
// entries depending on the configuration.
type dbScheduler struct {
	opts    dbSchedulerConfig
	entryDb *entryDb.DB
}

// abstraction for listing the live keyspaces
type fetchKeyspacesFn func() []string

// abstraction for counting persisted entries of a keyspace
type countByKeyspaceFn func(string) (int, error)

// abstraction for fetching entries of a keyspace
type fetchEntriesFn func(string, entryDb.FilterFn) ([]model.Entry, error)

// callback applied after db deletion so the in-memory tree follows
type evictFn func(ctx context.Context, eventType string, entries []model.Entry)

// processExpired deletes every entry of the keyspace older than the
// configured storage time, db first, then the in-memory tree.
func (s *dbScheduler) processExpired(ctx context.Context, keyspace string, fetchFn fetchEntriesFn, evict evictFn) error {
	entries, err := fetchFn(keyspace, func(entry model.Entry) bool {
		return time.Since(entry.UpdatedAt) > s.opts.maxStorageTime
	})
	if err != nil {
		return fmt.Errorf("unable find entries by keyspace %s: %v", keyspace, err)
	}
	if len(entries) == 0 {
		return nil
	}

	if err := s.entryDb.DeleteMany(ctx, entries); err != nil {
		return fmt.Errorf("unable delete expired entries of keyspace %s: %v", keyspace, err)
	}
	evict(ctx, notifyModel.TypeExpired, entries)
	return nil
}

// processOverSize keeps the newest maxKeysStored entries of a keyspace
// and deletes the rest, oldest first.
func (s *dbScheduler) processOverSize(ctx context.Context, keyspace string, fetchFn fetchEntriesFn, evict evictFn) error {
	entries, err := fetchFn(keyspace, nil)
	if err != nil {
		return fmt.Errorf("unable find entries by keyspace %s: %v", keyspace, err)
	}
	if len(entries) <= s.opts.maxKeysStored {
		return nil
	}

	// This can be a costly operation for large keyspaces.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.UnixNano() < entries[j].UpdatedAt.UnixNano()
	})

	victims := entries[:len(entries)-s.opts.maxKeysStored]
	if err := s.entryDb.DeleteMany(ctx, victims); err != nil {
		return fmt.Errorf("unable delete oversize entries of keyspace %s: %v", keyspace, err)
	}
	evict(ctx, notifyModel.TypeEvicted, victims)
	return nil
}

// rebuildOutdated runs the expiry pass over every keyspace.
func (s *dbScheduler) rebuildOutdated(ctx context.Context, keyspacesFn fetchKeyspacesFn, fetchFn fetchEntriesFn, evict evictFn) error {
	for _, name := range keyspacesFn() {
		if err := s.processExpired(ctx, name, fetchFn, evict); err != nil {
			return fmt.Errorf("unable process entries: %v", err)
		}
	}
	return nil
}

// rebuildSize runs the size pass over every keyspace whose persisted
// entry count exceeds the configured bound.
func (s *dbScheduler) rebuildSize(ctx context.Context, keyspacesFn fetchKeyspacesFn, countFn countByKeyspaceFn, fetchFn fetchEntriesFn, evict evictFn) error {
	for _, name := range keyspacesFn() {
		length, err := countFn(name)
		if err != nil {
			return fmt.Errorf("unable count by keyspace %s: %v", name, err)
		}
		if length > s.opts.maxKeysStored {
			if err := s.processOverSize(ctx, name, fetchFn, evict); err != nil {
				return fmt.Errorf("unable process entries: %v", err)
			}
		}
	}
	return nil
}

// Scheduler for running data cleanup functions in the DB
func (s *dbScheduler) schedule(
	ctx context.Context,
	keyspacesFn fetchKeyspacesFn,
	countFn countByKeyspaceFn,
	fetchFn fetchEntriesFn,
	evict evictFn,
) {
	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(s.opts.rebuildTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.opts.maxKeysStored > 0 {
				if err := s.rebuildSize(ctx, keyspacesFn, countFn, fetchFn, evict); err != nil {
					logger.Errorf("unable db rebuild size: %v", err)
				}
			}
			if s.opts.maxStorageTime > 0 {
				if err := s.rebuildOutdated(ctx, keyspacesFn, fetchFn, evict); err != nil {
					logger.Errorf("unable db rebuild outdated: %v", err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
