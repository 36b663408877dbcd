package db_test

import (
	"context"
	"path/filepath"
	"socialfeed/db"
	"socialfeed/store"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededSnapshot() store.Snapshot {
	s := store.New()
	s.Seed(12, 100, 42)
	return s.Snapshot()
}

func TestExportWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "feed.db")
	snap := seededSnapshot()

	require.NoError(t, db.Export(ctx, path, snap))

	counts, err := db.Counts(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, db.Tables{
		Profiles: len(snap.Profiles),
		Posts:    len(snap.Posts),
		Comments: len(snap.Comments),
		Likes:    len(snap.Likes),
		Shares:   len(snap.Shares),
	}, counts)

	order, err := db.FeedOrder(ctx, path)
	require.NoError(t, err)
	require.Len(t, order, 100)
	assert.Equal(t, "p100", order[0])
	assert.Equal(t, "p001", order[99])
}

func TestExportReplacesPreviousData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "feed.db")

	require.NoError(t, db.Export(ctx, path, seededSnapshot()))

	small := store.New()
	small.Seed(3, 5, 1)
	require.NoError(t, db.Export(ctx, path, small.Snapshot()))

	counts, err := db.Counts(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Profiles)
	assert.Equal(t, 5, counts.Posts)
}

func TestExportEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "feed.db")

	require.NoError(t, db.Export(ctx, path, store.Snapshot{}))

	counts, err := db.Counts(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, db.Tables{}, counts)
}

func TestMigrateAndRollback(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "feed.db")

	require.NoError(t, db.Migrate(path))
	// Running again is a no-op
	require.NoError(t, db.Migrate(path))

	_, err := db.Counts(ctx, path)
	require.NoError(t, err)

	require.NoError(t, db.Rollback(path))
	_, err = db.Counts(ctx, path)
	assert.Error(t, err, "tables should be gone after rollback")
}

func TestReadingMissingExport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := db.Counts(ctx, path)
	assert.ErrorIs(t, err, db.ErrNoExport)

	_, err = db.FeedOrder(ctx, path)
	assert.ErrorIs(t, err, db.ErrNoExport)

	// Reading must not leave an empty database behind
	assert.NoFileExists(t, path)
}
