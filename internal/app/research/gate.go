package research

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// WriteGate serialises platform writes and keeps at least the configured
// delay between two of them. One gate may be shared by every session of a
// process.
type WriteGate struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

func NewWriteGate(delay time.Duration) *WriteGate {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &WriteGate{limiter: rate.NewLimiter(limit, 1)}
}

// Do waits for the gate and runs fn while holding it.
func (g *WriteGate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: write gate: %w", domain.ErrCancelled, err)
	}
	return fn(ctx)
}

// GatedWriter routes every write of the wrapped writer through a gate. The
// per-call timeout starts once the gate is passed.
type GatedWriter struct {
	next    domain.CommunityWriter
	gate    *WriteGate
	timeout time.Duration
}

func NewGatedWriter(next domain.CommunityWriter, gate *WriteGate, timeout time.Duration) *GatedWriter {
	return &GatedWriter{next: next, gate: gate, timeout: timeout}
}

func (w *GatedWriter) CreatePost(ctx context.Context, subreddit, title, body string) (domain.PublishedPost, error) {
	var out domain.PublishedPost
	err := w.gate.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, w.timeout)
		defer cancel()

		var err error
		out, err = w.next.CreatePost(ctx, subreddit, title, body)
		return err
	})
	return out, err
}

func (w *GatedWriter) CreateReply(ctx context.Context, parentID, text string) (string, error) {
	var id string
	err := w.gate.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, w.timeout)
		defer cancel()

		var err error
		id, err = w.next.CreateReply(ctx, parentID, text)
		return err
	})
	return id, err
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
