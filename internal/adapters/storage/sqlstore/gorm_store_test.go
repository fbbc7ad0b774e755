package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore("sqlite", filepath.Join(t.TempDir(), "nested", "research.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGormStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	st := domain.NewSessionState("research_1", "phones", "gadgets", 2, time.Unix(10, 0).UTC())
	require.NoError(t, store.SaveSnapshot(ctx, st))

	st.ObserveComment(domain.Reply{ID: "t1_a", Content: "nice", VoteCount: 4})
	require.NoError(t, st.RecordAgentReply(domain.Reply{ID: "t1_b", ParentID: "t1_a", Content: "thanks"}))
	st.Phase = domain.PhaseMonitoring
	st.UpdatedAt = time.Unix(20, 0).UTC()
	require.NoError(t, store.SaveSnapshot(ctx, st))

	got, err := store.LoadSnapshot(ctx, "research_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseMonitoring, got.Phase)
	assert.Len(t, got.Interactions.Replies, 2)
	assert.Equal(t, 1, got.ReplyBudgetRemaining)

	var count int64
	require.NoError(t, store.db.Model(&researchRow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGormStoreNotFound(t *testing.T) {
	_, err := newTestStore(t).LoadSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGormStoreList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for i, id := range []domain.ResearchID{"research_a", "research_b", "research_c"} {
		st := domain.NewSessionState(id, "p", "s", 1, time.Unix(int64(100+i), 0).UTC())
		require.NoError(t, store.SaveSnapshot(ctx, st))
	}

	all, err := store.ListSnapshots(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.ResearchID("research_c"), all[0].ResearchID)

	two, err := store.ListSnapshots(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestSQLiteFilePath(t *testing.T) {
	cases := map[string]struct {
		path string
		ok   bool
	}{
		":memory:":                         {"", false},
		"file::memory:?cache=shared":       {"", false},
		"file:data/x.db?mode=memory":       {"", false},
		"data/research.db":                 {"data/research.db", true},
		"file:data/research.db?_pragma=fk": {"data/research.db", true},
	}
	for dsn, want := range cases {
		path, ok := sqliteFilePath(dsn)
		assert.Equal(t, want.ok, ok, dsn)
		assert.Equal(t, want.path, path, dsn)
	}
}

func TestOpenGormRejectsUnknownDriver(t *testing.T) {
	_, err := OpenGorm("oracle", "x")
	assert.Error(t, err)

	_, err = OpenGorm("postgres", "")
	assert.Error(t, err)
}
