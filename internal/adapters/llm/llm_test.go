package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

func TestMockLLMAnswersByTask(t *testing.T) {
	m := NewMockLLM()
	ctx := context.Background()

	post, err := m.Generate(ctx, domain.GenerationRequest{
		Task: domain.TaskPost,
		User: "Community: r/gadgets\n\nResearch topic:\nsmartphone cameras\n",
	})
	require.NoError(t, err)
	assert.Contains(t, post, "smartphone cameras")

	reply, err := m.Generate(ctx, domain.GenerationRequest{
		Task: domain.TaskReply,
		User: "Comment to answer:\nthe zoom is great\n",
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "the zoom is great")
	assert.Equal(t, 2, m.Calls())
}

func TestMockLLMFailHook(t *testing.T) {
	m := NewMockLLM()
	m.Fail = func(_ domain.GenerationRequest, call int) error {
		if call == 1 {
			return fmt.Errorf("%w: flaky", domain.ErrTransient)
		}
		return nil
	}

	_, err := m.Generate(context.Background(), domain.GenerationRequest{Task: domain.TaskReply})
	assert.ErrorIs(t, err, domain.ErrTransient)

	_, err = m.Generate(context.Background(), domain.GenerationRequest{Task: domain.TaskReply})
	assert.NoError(t, err)
}

func TestMockLLMUnknownTask(t *testing.T) {
	_, err := NewMockLLM().Generate(context.Background(), domain.GenerationRequest{Task: "poem"})
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestWrapStatus(t *testing.T) {
	base := errors.New("boom")

	assert.ErrorIs(t, wrapStatus(429, base), domain.ErrQuotaExceeded)
	assert.ErrorIs(t, wrapStatus(503, base), domain.ErrTransient)
	assert.ErrorIs(t, wrapStatus(408, base), domain.ErrTransient)

	plain := wrapStatus(400, base)
	assert.ErrorIs(t, plain, base)
	assert.False(t, domain.IsRetryable(plain))
}

func TestClassifyDeadline(t *testing.T) {
	err := classify(fmt.Errorf("call: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestNewGeminiClientNeedsCredentials(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, domain.ErrConfig)
}
