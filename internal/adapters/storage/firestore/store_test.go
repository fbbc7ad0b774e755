package firestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

func TestDocRoundTripKeepsState(t *testing.T) {
	st := domain.NewSessionState("research_1", "phones", "gadgets", 3, time.Unix(50, 0).UTC())
	st.ObserveComment(domain.Reply{ID: "t1_a", Content: "cool", VoteCount: 9})
	require.NoError(t, st.RecordAgentReply(domain.Reply{ID: "t1_b", ParentID: "t1_a"}))

	doc, err := docFromState(st)
	require.NoError(t, err)
	assert.Equal(t, "gadgets", doc.Subreddit)
	assert.Equal(t, 1, doc.AgentReplies)

	got, err := doc.toState()
	require.NoError(t, err)
	assert.Equal(t, st.ReplyBudgetRemaining, got.ReplyBudgetRemaining)
	assert.Len(t, got.Interactions.Replies, 2)
}

func TestWrapClassifiesGRPCCodes(t *testing.T) {
	unavailable := wrap("SaveSnapshot", status.Error(codes.Unavailable, "try later"))
	assert.ErrorIs(t, unavailable, domain.ErrPersistence)
	assert.True(t, domain.IsRetryable(unavailable))

	denied := wrap("SaveSnapshot", status.Error(codes.PermissionDenied, "no"))
	assert.ErrorIs(t, denied, domain.ErrPersistence)
	assert.False(t, domain.IsRetryable(denied))

	plain := wrap("ListSnapshots", errors.New("boom"))
	assert.False(t, domain.IsRetryable(plain))
}

func TestNewStoreNeedsProject(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrConfig)
}
