package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// MockLLM produces canned text for dry runs and tests. Fail, when set, is
// consulted before every call.
type MockLLM struct {
	Fail func(req domain.GenerationRequest, call int) error

	mu    sync.Mutex
	calls int
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	if m.Fail != nil {
		if err := m.Fail(req, call); err != nil {
			return "", err
		}
	}

	switch req.Task {
	case domain.TaskPost:
		topic := section(req.User, "Research topic:")
		return fmt.Sprintf("What is your experience with %s?\n\nI am trying to understand how people here feel about %s. "+
			"What works for you, and what would you change?", topic, topic), nil
	case domain.TaskReply:
		comment := section(req.User, "Comment to answer:")
		return fmt.Sprintf("Thanks for sharing. Could you say more about %q?", excerpt(comment, 60)), nil
	default:
		return "", fmt.Errorf("%w: unknown task %q", domain.ErrGeneration, req.Task)
	}
}

// Calls reports how many generations were requested.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// section returns the first non-empty line after the given header.
func section(text, header string) string {
	_, rest, ok := strings.Cut(text, header)
	if !ok {
		return "this topic"
	}
	for _, line := range strings.Split(rest, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "this topic"
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
