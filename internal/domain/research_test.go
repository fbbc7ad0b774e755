package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestPostStatusIsMonotone(t *testing.T) {
	p := &domain.Post{ID: "p1", Status: domain.PostActive}

	assert.True(t, p.ObserveStatus(domain.PostRemoved))
	assert.False(t, p.ObserveStatus(domain.PostActive))
	assert.False(t, p.ObserveStatus(domain.PostUnknown))
	assert.Equal(t, domain.PostRemoved, p.Status)
}

func TestPostStatusUnknownCanBecomeRemoved(t *testing.T) {
	p := &domain.Post{ID: "p1", Status: domain.PostActive}

	assert.True(t, p.ObserveStatus(domain.PostUnknown))
	assert.False(t, p.ObserveStatus(domain.PostActive))
	assert.True(t, p.ObserveStatus(domain.PostRemoved))
}

func TestObserveCommentDeduplicates(t *testing.T) {
	s := domain.NewSessionState("r1", "prompt", "golang", 2, t0)

	assert.True(t, s.ObserveComment(domain.Reply{ID: "c1", VoteCount: 3}))
	assert.False(t, s.ObserveComment(domain.Reply{ID: "c1", VoteCount: 9}))

	require.Len(t, s.Interactions.Replies, 1)
	assert.Equal(t, 9, s.Interactions.Replies[0].VoteCount)
	require.NoError(t, s.Validate())
}

func TestRecordAgentReplyKeepsBudgetInvariant(t *testing.T) {
	s := domain.NewSessionState("r1", "prompt", "golang", 2, t0)

	for i := 0; i < 4; i++ {
		err := s.RecordAgentReply(domain.Reply{ID: fmt.Sprintf("a%d", i), ParentID: "c1"})
		if i < 2 {
			require.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, domain.ErrBudgetExhausted)
		}
		require.NoError(t, s.Validate())
		assert.GreaterOrEqual(t, s.ReplyBudgetRemaining, 0)
	}

	assert.Equal(t, 0, s.ReplyBudgetRemaining)
	assert.Equal(t, 2, s.AgentReplyCount())
	assert.Equal(t, map[string]bool{"c1": true}, s.RepliedTargets())
}

func TestRecordAgentReplyRejectsDuplicateID(t *testing.T) {
	s := domain.NewSessionState("r1", "prompt", "golang", 3, t0)
	s.ObserveComment(domain.Reply{ID: "x"})

	err := s.RecordAgentReply(domain.Reply{ID: "x"})
	require.Error(t, err)
	assert.Equal(t, 3, s.ReplyBudgetRemaining)
}

func TestTransitionFollowsLifecycle(t *testing.T) {
	s := domain.NewSessionState("r1", "prompt", "golang", 1, t0)

	require.NoError(t, s.Transition(domain.PhaseProfiling))
	require.Error(t, s.Transition(domain.PhaseMonitoring))
	require.NoError(t, s.Transition(domain.PhaseFailed))
	assert.True(t, s.Phase.Terminal())
	require.Error(t, s.Transition(domain.PhaseFinalizing))
}

func TestCloneIsDeep(t *testing.T) {
	s := domain.NewSessionState("r1", "prompt", "golang", 1, t0)
	s.Post = &domain.Post{ID: "p1", Status: domain.PostActive}
	s.ObserveComment(domain.Reply{ID: "c1", VoteCount: 1})

	c := s.Clone()
	c.Post.Status = domain.PostRemoved
	c.Interactions.Replies[0].VoteCount = 100

	assert.Equal(t, domain.PostActive, s.Post.Status)
	assert.Equal(t, 1, s.Interactions.Replies[0].VoteCount)
}

func TestKindOf(t *testing.T) {
	cases := map[string]error{
		"transient":      fmt.Errorf("%w: boom", domain.ErrTransient),
		"rate_limited":   fmt.Errorf("%w: slow down", domain.ErrRateLimited),
		"rejected":       fmt.Errorf("%w: removed", domain.ErrRejected),
		"generation":     fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrQuotaExceeded),
		"persistence":    fmt.Errorf("%w: disk", domain.ErrPersistence),
		"cancelled":      context.Canceled,
		"unknown":        errors.New("mystery"),
		"config":         domain.ErrConfig,
		"not_found":      domain.ErrNotFound,
		"quota_exceeded": domain.ErrQuotaExceeded,
	}
	for want, err := range cases {
		assert.Equal(t, want, domain.KindOf(err), "error %v", err)
	}
	assert.True(t, domain.IsRetryable(fmt.Errorf("x: %w", domain.ErrRateLimited)))
	assert.False(t, domain.IsRetryable(domain.ErrRejected))
}
