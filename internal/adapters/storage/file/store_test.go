package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

func sampleState(id domain.ResearchID, updated time.Time) *domain.SessionState {
	st := domain.NewSessionState(id, "phones", "gadgets", 2, updated)
	st.Post = &domain.Post{ID: "t3_x", Title: "Phones?", Status: domain.PostActive}
	st.ObserveComment(domain.Reply{ID: "t1_a", Content: "great", VoteCount: 7, ObservedAt: updated})
	return st
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	st := sampleState("research_1", time.Unix(100, 0).UTC())
	require.NoError(t, store.SaveSnapshot(ctx, st))

	_, err = os.Stat(store.Path("research_1"))
	require.NoError(t, err)
	assert.Equal(t, "research_data_research_1.json", filepath.Base(store.Path("research_1")))

	got, err := store.LoadSnapshot(ctx, "research_1")
	require.NoError(t, err)
	assert.Equal(t, st.Prompt, got.Prompt)
	assert.Equal(t, st.Post.ID, got.Post.ID)
	require.Len(t, got.Interactions.Replies, 1)
	assert.Equal(t, 7, got.Interactions.Replies[0].VoteCount)
}

func TestSaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	st := sampleState("research_1", time.Unix(100, 0).UTC())
	require.NoError(t, store.SaveSnapshot(ctx, st))
	st.Phase = domain.PhaseCompleted
	require.NoError(t, store.SaveSnapshot(ctx, st))

	got, err := store.LoadSnapshot(ctx, "research_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCompleted, got.Phase)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.LoadSnapshot(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRejectsPathLikeIDs(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.SaveSnapshot(context.Background(), sampleState("../escape", time.Now()))
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveSnapshot(ctx, sampleState("research_old", time.Unix(1, 0).UTC())))
	require.NoError(t, store.SaveSnapshot(ctx, sampleState("research_new", time.Unix(2, 0).UTC())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	all, err := store.ListSnapshots(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.ResearchID("research_new"), all[0].ResearchID)

	one, err := store.ListSnapshots(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
