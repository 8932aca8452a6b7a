package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	entryDb "github.com/gatogato999/ordstore/internal/entry/database"
	"github.com/gatogato999/ordstore/internal/entry/model"
	"github.com/gatogato999/ordstore/internal/logging"
)

func newDbTxExecutor(db *entryDb.DB, opts dbTxExecutorOptions, shutdownCh chan<- error) *dbTxExecutor {
	return &dbTxExecutor{entryDb: db, opts: opts, shutdownCh: shutdownCh}
}

// dbTxExecutorOptions Returns the structure with configuration options
type dbTxExecutorOptions struct {
	flushSize int
	flushTime time.Duration
}

// A structure that represents the database transaction execution service.
// Accumulates mutations and inserts them in bulk into persistent storage.
type dbTxExecutor struct {
	mtx sync.Mutex
	// Held across a whole batch commit. Discards take it too, so a
	// discard can never fall between the buffer copy and the db write
	// and be overwritten by the in-flight batch.
	commitMtx sync.Mutex

	opts    dbTxExecutorOptions
	entryDb *entryDb.DB
	// Buffer that accumulates entries waiting for a flush
	buf        []model.Entry
	shutdownCh chan<- error
}

// shutdown urgently writes the whole buffer to persistent storage.
func (tx *dbTxExecutor) shutdown() error {
	tx.commitMtx.Lock()
	defer tx.commitMtx.Unlock()
	tx.mtx.Lock()
	defer tx.mtx.Unlock()
	if len(tx.buf) == 0 {
		return nil
	}
	if err := tx.entryDb.AppendMany(context.Background(), tx.buf); err != nil {
		return fmt.Errorf("txExecutor: append many operation failed: %v", err)
	}
	tx.buf = tx.buf[:0]
	return nil
}

// append buffers one entry; a full buffer triggers an immediate flush.
func (tx *dbTxExecutor) append(ctx context.Context, entry model.Entry) {
	tx.mtx.Lock()
	tx.buf = append(tx.buf, entry)
	full := len(tx.buf) >= tx.opts.flushSize
	tx.mtx.Unlock()
	if full {
		if err := tx.flush(ctx); err != nil {
			logging.FromContext(ctx).Errorf("txExecutor: %v", err)
		}
	}
}

// discard drops buffered writes for one key. Called before deleting the
// key from the db so a later flush cannot resurrect it. Waits for any
// batch commit in flight, which may still carry the key.
func (tx *dbTxExecutor) discard(keyspace, key string) {
	tx.commitMtx.Lock()
	defer tx.commitMtx.Unlock()
	tx.mtx.Lock()
	defer tx.mtx.Unlock()
	kept := tx.buf[:0]
	for i := range tx.buf {
		if tx.buf[i].Keyspace == keyspace && tx.buf[i].Key == key {
			continue
		}
		kept = append(kept, tx.buf[i])
	}
	tx.buf = kept
}

// discardKeyspace drops every buffered write of a dropped keyspace.
func (tx *dbTxExecutor) discardKeyspace(keyspace string) {
	tx.commitMtx.Lock()
	defer tx.commitMtx.Unlock()
	tx.mtx.Lock()
	defer tx.mtx.Unlock()
	kept := tx.buf[:0]
	for i := range tx.buf {
		if tx.buf[i].Keyspace == keyspace {
			continue
		}
		kept = append(kept, tx.buf[i])
	}
	tx.buf = kept
}

// flush writes the buffered entries out as one batch.
func (tx *dbTxExecutor) flush(ctx context.Context) error {
	tx.commitMtx.Lock()
	defer tx.commitMtx.Unlock()
	tx.mtx.Lock()
	if len(tx.buf) == 0 {
		tx.mtx.Unlock()
		return nil
	}
	batch := make([]model.Entry, len(tx.buf))
	copy(batch, tx.buf)
	tx.buf = tx.buf[:0]
	tx.mtx.Unlock()

	if err := tx.entryDb.AppendMany(ctx, batch); err != nil {
		return fmt.Errorf("append many operation failed: %v", err)
	}
	return nil
}

// loop periodically flushes the buffer until the context is cancelled,
// then reports the final flush to the shutdown channel.
func (tx *dbTxExecutor) loop(ctx context.Context) {
	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(tx.opts.flushTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := tx.flush(ctx); err != nil {
				logger.Errorf("txExecutor: flush: %v", err)
			}
		case <-ctx.Done():
			tx.shutdownCh <- tx.shutdown()
			return
		}
	}
}
