package database

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/davecgh/go-xdr/xdr2"
	"github.com/gatogato999/ordstore/internal/database"
	"github.com/gatogato999/ordstore/internal/entry/model"
	bolt "go.etcd.io/bbolt"
)

const (
	keyspaceKeys = "keyspace:keys:"
	prefix       = "entry:"
)

type FilterFn func(entry model.Entry) bool

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) extractKeyspace(key string) string {
	prefixPos := strings.Index(key, prefix)

	return key[prefixPos+len(prefix):]
}

func encode(entry model.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, entry); err != nil {
		return nil, fmt.Errorf("xdr encode entry: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(raw []byte) (model.Entry, error) {
	var entry model.Entry
	if _, err := xdr.Unmarshal(bytes.NewReader(raw), &entry); err != nil {
		return model.Entry{}, fmt.Errorf("xdr decode entry: %w", err)
	}
	return entry, nil
}

// Keyspaces lists every keyspace that ever stored an entry.
func (db *DB) Keyspaces() ([]string, error) {
	var names []string
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(keyspaceKeys))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, db.extractKeyspace(string(k)))
		}
		return nil
	})

	return names, err
}

func (db *DB) Store(_ context.Context, entry model.Entry) error {
	raw, err := encode(entry)
	if err != nil {
		return err
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(prefix + entry.Keyspace))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := b.Put([]byte(entry.Key), raw); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		kb, err := tx.CreateBucketIfNotExists([]byte(keyspaceKeys))
		if err != nil {
			return fmt.Errorf("unable create keyspaces bucket: %w", err)
		}
		if err := kb.Put([]byte(prefix+entry.Keyspace), []byte{0x0}); err != nil {
			return fmt.Errorf("unable put to keyspaces bucket: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

// AppendMany writes a batch of entries, creating keyspace buckets on
// demand. Used by the store flusher.
func (db *DB) AppendMany(_ context.Context, entries []model.Entry) error {
	if err := db.sDB.DB.Batch(func(tx *bolt.Tx) error {
		for _, entry := range entries {
			b, err := tx.CreateBucketIfNotExists([]byte(prefix + entry.Keyspace))
			if err != nil {
				return fmt.Errorf("create bucket: %w", err)
			}
			raw, err := encode(entry)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(entry.Key), raw); err != nil {
				return fmt.Errorf("put to bucket error: %w", err)
			}
			kb, err := tx.CreateBucketIfNotExists([]byte(keyspaceKeys))
			if err != nil {
				return fmt.Errorf("unable create keyspaces bucket: %w", err)
			}
			if err := kb.Put([]byte(prefix+entry.Keyspace), []byte{0x0}); err != nil {
				return fmt.Errorf("unable put to keyspaces bucket: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) DeleteMany(_ context.Context, entries []model.Entry) error {
	if err := db.sDB.DB.Batch(func(tx *bolt.Tx) error {
		for _, entry := range entries {
			b := tx.Bucket([]byte(prefix + entry.Keyspace))
			if b == nil {
				continue
			}
			if err := b.Delete([]byte(entry.Key)); err != nil {
				return fmt.Errorf("unable delete: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) Delete(_ context.Context, keyspace, key string) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + keyspace))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

// FindByKeyspace returns the entries of one keyspace, optionally filtered.
func (db *DB) FindByKeyspace(keyspace string, filter FilterFn) ([]model.Entry, error) {
	var entries []model.Entry
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + keyspace))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, raw []byte) error {
			entry, err := decode(raw)
			if err != nil {
				return err
			}
			if filter == nil || filter(entry) {
				entries = append(entries, entry)
			}
			return nil
		})
	})

	return entries, err
}

func (db *DB) CountByKeyspace(keyspace string) (int, error) {
	count := 0
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + keyspace))
		if b == nil {
			return nil
		}
		count = b.Stats().KeyN
		return nil
	})

	return count, err
}

// DropKeyspace removes a keyspace bucket and its registry record.
func (db *DB) DropKeyspace(_ context.Context, keyspace string) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(prefix + keyspace)); b != nil {
			if err := tx.DeleteBucket([]byte(prefix + keyspace)); err != nil {
				return fmt.Errorf("unable delete bucket: %w", err)
			}
		}
		if kb := tx.Bucket([]byte(keyspaceKeys)); kb != nil {
			if err := kb.Delete([]byte(prefix + keyspace)); err != nil {
				return fmt.Errorf("unable delete keyspace record: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}
