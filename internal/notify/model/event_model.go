package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeEvicted         = "EVICTED"
	TypeExpired         = "EXPIRED"
	TypeKeyspaceDropped = "KEYSPACE_DROPPED"
)

// Event describes one store lifecycle action pushed to webhook targets.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Keyspace  string    `json:"keyspace"`
	Key       string    `json:"key,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewEvent(eventType, keyspace, key string) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Keyspace:  keyspace,
		Key:       key,
		CreatedAt: time.Now().UTC(),
	}
}
