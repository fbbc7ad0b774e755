package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

func TestResearchStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewResearchStore()
	state := domain.NewSessionState("research_1", "phones", "gadgets", 2, time.Unix(100, 0))

	require.NoError(t, store.SaveSnapshot(ctx, state))

	// Mutating the caller's copy must not leak into the store.
	state.Prompt = "changed"
	state.Interactions.Replies = append(state.Interactions.Replies, domain.Reply{ID: "c1"})

	got, err := store.LoadSnapshot(ctx, "research_1")
	require.NoError(t, err)
	assert.Equal(t, "phones", got.Prompt)
	assert.Empty(t, got.Interactions.Replies)
	assert.Equal(t, 1, store.SaveCount("research_1"))
}

func TestResearchStoreNotFound(t *testing.T) {
	_, err := NewResearchStore().LoadSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResearchStoreRejectsEmptyID(t *testing.T) {
	err := NewResearchStore().SaveSnapshot(context.Background(), &domain.SessionState{})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestResearchStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewResearchStore()
	for i, id := range []domain.ResearchID{"a", "b", "c"} {
		st := domain.NewSessionState(id, "p", "s", 1, time.Unix(int64(i), 0))
		require.NoError(t, store.SaveSnapshot(ctx, st))
	}

	all, err := store.ListSnapshots(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.ResearchID("c"), all[0].ResearchID)

	two, err := store.ListSnapshots(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}
