package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	storeDB "github.com/gatogato999/ordstore/internal/database"
	"github.com/gatogato999/ordstore/internal/entry/model"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := storeDB.NewFromEnv(context.Background(), &storeDB.Config{
		FileName: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close(context.Background()))
	})
	return New(db)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	entry := model.NewEntry("users", "alice", []byte("payload"))
	require.NoError(t, db.Store(ctx, entry))

	found, err := db.FindByKeyspace("users", nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, entry.ID, found[0].ID)
	require.Equal(t, entry.Key, found[0].Key)
	require.Equal(t, entry.Value, found[0].Value)
	require.Equal(t, entry.Checksum, found[0].Checksum)
	// xdr stores timestamps at second precision
	require.WithinDuration(t, entry.UpdatedAt, found[0].UpdatedAt, time.Second)
	require.True(t, found[0].Valid())
}

func TestStoreOverwritesKey(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.Store(ctx, model.NewEntry("users", "alice", []byte("v1"))))
	require.NoError(t, db.Store(ctx, model.NewEntry("users", "alice", []byte("v2"))))

	found, err := db.FindByKeyspace("users", nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, []byte("v2"), found[0].Value)
}

func TestKeyspaces(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	names, err := db.Keyspaces()
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, db.AppendMany(ctx, []model.Entry{
		model.NewEntry("users", "alice", nil),
		model.NewEntry("sessions", "sid-1", nil),
	}))

	names, err = db.Keyspaces()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"users", "sessions"}, names)
}

func TestFindByKeyspaceFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.AppendMany(ctx, []model.Entry{
		model.NewEntry("users", "alice", []byte("keep")),
		model.NewEntry("users", "bob", []byte("skip")),
	}))

	found, err := db.FindByKeyspace("users", func(entry model.Entry) bool {
		return string(entry.Value) == "keep"
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "alice", found[0].Key)
}

func TestDeleteAndCount(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	entries := []model.Entry{
		model.NewEntry("users", "alice", nil),
		model.NewEntry("users", "bob", nil),
		model.NewEntry("users", "carol", nil),
	}
	require.NoError(t, db.AppendMany(ctx, entries))

	count, err := db.CountByKeyspace("users")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	require.NoError(t, db.Delete(ctx, "users", "bob"))
	require.NoError(t, db.DeleteMany(ctx, entries[:1]))

	count, err = db.CountByKeyspace("users")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// deleting from a keyspace that never existed is not an error
	require.NoError(t, db.Delete(ctx, "missing", "k"))
}

func TestDropKeyspace(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.AppendMany(ctx, []model.Entry{
		model.NewEntry("users", "alice", nil),
		model.NewEntry("sessions", "sid-1", nil),
	}))
	require.NoError(t, db.DropKeyspace(ctx, "users"))

	names, err := db.Keyspaces()
	require.NoError(t, err)
	require.Equal(t, []string{"sessions"}, names)

	count, err := db.CountByKeyspace("users")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
