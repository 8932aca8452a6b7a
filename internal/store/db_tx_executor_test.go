package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gatogato999/ordstore/internal/database"
	entryDb "github.com/gatogato999/ordstore/internal/entry/database"
	"github.com/gatogato999/ordstore/internal/entry/model"
)

func newTestEntryDB(t *testing.T) *entryDb.DB {
	t.Helper()
	db, err := database.NewFromEnv(context.Background(), &database.Config{
		FileName: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(context.Background()); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return entryDb.New(db)
}

func TestDbTxExecutorAppend(t *testing.T) {
	tests := []struct {
		name           string
		flushSize      int
		entries        []model.Entry
		expectedBufLen int
		expectedDbLen  int
	}{
		{
			name:      "positive_append_under_flush_size",
			flushSize: 10,
			entries: []model.Entry{
				model.NewEntry("test-keyspace", "a", []byte("1")),
				model.NewEntry("test-keyspace", "b", []byte("2")),
			},
			expectedBufLen: 2,
			expectedDbLen:  0,
		},
		{
			name:      "positive_append_triggers_flush",
			flushSize: 3,
			entries: []model.Entry{
				model.NewEntry("test-keyspace", "a", []byte("1")),
				model.NewEntry("test-keyspace", "b", []byte("2")),
				model.NewEntry("test-keyspace", "c", []byte("3")),
			},
			expectedBufLen: 0,
			expectedDbLen:  3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			db := newTestEntryDB(t)
			tx := newDbTxExecutor(db, dbTxExecutorOptions{flushSize: test.flushSize, flushTime: time.Second}, make(chan error, 1))
			for _, entry := range test.entries {
				tx.append(context.Background(), entry)
			}
			if len(tx.buf) != test.expectedBufLen {
				t.Errorf("calling the append method, the length of buffer got: %v, expected: %v", len(tx.buf), test.expectedBufLen)
			}
			stored, err := db.FindByKeyspace("test-keyspace", nil)
			if err != nil {
				t.Fatalf("find by keyspace: %v", err)
			}
			if len(stored) != test.expectedDbLen {
				t.Errorf("calling the append method, the length of stored data got: %v, expected: %v", len(stored), test.expectedDbLen)
			}
		})
	}
}

func TestDbTxExecutorShutdown(t *testing.T) {
	db := newTestEntryDB(t)
	tx := newDbTxExecutor(db, dbTxExecutorOptions{flushSize: 100, flushTime: time.Second}, make(chan error, 1))
	tx.buf = []model.Entry{
		model.NewEntry("test-keyspace", "a", []byte("1")),
		model.NewEntry("test-keyspace", "b", []byte("2")),
	}
	if err := tx.shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if len(tx.buf) != 0 {
		t.Errorf("calling the shutdown method, the length of buffer got: %v, expected: 0", len(tx.buf))
	}
	stored, err := db.FindByKeyspace("test-keyspace", nil)
	if err != nil {
		t.Fatalf("find by keyspace: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("calling the shutdown method, the length of stored data got: %v, expected: 2", len(stored))
	}
}

func TestDbTxExecutorDiscardDuringFlush(t *testing.T) {
	db := newTestEntryDB(t)
	tx := newDbTxExecutor(db, dbTxExecutorOptions{flushSize: 100, flushTime: time.Second}, make(chan error, 1))

	for i := 0; i < 100; i++ {
		tx.mtx.Lock()
		tx.buf = append(tx.buf, model.NewEntry("test-keyspace", "k", []byte("v")))
		tx.mtx.Unlock()

		done := make(chan struct{})
		go func() {
			if err := tx.flush(context.Background()); err != nil {
				t.Errorf("flush: %v", err)
			}
			close(done)
		}()
		// the sequence the manager runs on delete, racing the flush
		tx.discard("test-keyspace", "k")
		if err := db.Delete(context.Background(), "test-keyspace", "k"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		<-done

		stored, err := db.FindByKeyspace("test-keyspace", nil)
		if err != nil {
			t.Fatalf("find by keyspace: %v", err)
		}
		if len(stored) != 0 {
			t.Fatalf("iteration %d: deleted key rewritten by the in-flight batch, records remain: %v", i, len(stored))
		}
	}
}

func TestDbTxExecutorDiscard(t *testing.T) {
	tests := []struct {
		name         string
		discard      func(tx *dbTxExecutor)
		expectedKeys []string
	}{
		{
			name:         "positive_discard_single_key",
			discard:      func(tx *dbTxExecutor) { tx.discard("ks-a", "b") },
			expectedKeys: []string{"a", "c", "d"},
		},
		{
			name:         "positive_discard_keyspace",
			discard:      func(tx *dbTxExecutor) { tx.discardKeyspace("ks-a") },
			expectedKeys: []string{"d"},
		},
		{
			name:         "positive_discard_missing_key",
			discard:      func(tx *dbTxExecutor) { tx.discard("ks-a", "zz") },
			expectedKeys: []string{"a", "b", "c", "d"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tx := &dbTxExecutor{opts: dbTxExecutorOptions{flushSize: 100}}
			tx.buf = []model.Entry{
				model.NewEntry("ks-a", "a", []byte("1")),
				model.NewEntry("ks-a", "b", []byte("2")),
				model.NewEntry("ks-a", "c", []byte("3")),
				model.NewEntry("ks-b", "d", []byte("4")),
			}
			test.discard(tx)
			var keys []string
			for i := range tx.buf {
				keys = append(keys, tx.buf[i].Key)
			}
			if len(keys) != len(test.expectedKeys) {
				t.Fatalf("discarding buffered writes, keys got: %v, expected: %v", keys, test.expectedKeys)
			}
			for i := range keys {
				if keys[i] != test.expectedKeys[i] {
					t.Errorf("discarding buffered writes, keys got: %v, expected: %v", keys, test.expectedKeys)
				}
			}
		})
	}
}
