package model

import (
	"time"

	"github.com/gatogato999/ordstore/internal/util"
	"github.com/google/uuid"
)

// Entry is the persisted form of one stored pair. The in-memory tree is
// rebuilt from these records at startup; the tree itself is never written
// to disk.
type Entry struct {
	ID        uuid.UUID
	Keyspace  string
	Key       string
	Value     []byte
	Checksum  [32]byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewEntry(keyspace, key string, value []byte) Entry {
	now := time.Now().UTC()
	return Entry{
		ID:        uuid.New(),
		Keyspace:  keyspace,
		Key:       key,
		Value:     value,
		Checksum:  util.Checksum(key, value),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Valid reports whether the checksum still matches the stored pair.
func (e Entry) Valid() bool {
	return e.Checksum == util.Checksum(e.Key, e.Value)
}
