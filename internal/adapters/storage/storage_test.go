package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage/file"
	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage/memory"
	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage/sqlstore"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, closer, err := Open(ctx, Options{Backend: "file", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, s)
	assert.NoError(t, closer.Close())

	s, _, err = Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.ResearchStore{}, s)

	s, closer, err = Open(ctx, Options{Backend: "sqlite", DSN: filepath.Join(dir, "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &sqlstore.GormStore{}, s)
	assert.NoError(t, closer.Close())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), Options{Backend: "s3"})
	assert.ErrorIs(t, err, domain.ErrConfig)
}
