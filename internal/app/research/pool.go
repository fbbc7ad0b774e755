package research

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

var (
	ErrPoolFull    = errors.New("session pool is full")
	ErrPoolClosed  = errors.New("session pool is shut down")
	ErrDuplicateID = errors.New("research id already in use")
)

// Runner runs one session to completion.
type Runner interface {
	Run(ctx context.Context, req Request) (domain.ResearchID, error)
}

// Status is the live view of a session owned by the pool.
type Status struct {
	ResearchID domain.ResearchID `json:"research_id"`
	Subreddit  string            `json:"subreddit"`
	Phase      domain.Phase      `json:"phase"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

// Pool runs independent sessions concurrently. Sessions share nothing but
// the runner's collaborators; one failing never stops the others.
type Pool struct {
	runner Runner
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu     sync.RWMutex
	closed bool
	status map[domain.ResearchID]*Status
}

// NewPool creates a pool running at most limit sessions at once. A limit
// of zero or less means no limit.
func NewPool(ctx context.Context, runner Runner, limit int) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		runner: runner,
		ctx:    ctx,
		cancel: cancel,
		status: make(map[domain.ResearchID]*Status),
	}
	if limit > 0 {
		p.group.SetLimit(limit)
	}
	return p
}

// Submit starts a session in the background and returns its id.
func (p *Pool) Submit(req Request) (domain.ResearchID, error) {
	id := domain.ResearchID(strings.TrimSpace(req.ResearchID))
	if id == "" {
		id = domain.NewResearchID()
	}
	req.ResearchID = string(id)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", ErrPoolClosed
	}
	if _, exists := p.status[id]; exists {
		p.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	p.status[id] = &Status{
		ResearchID: id,
		Subreddit:  strings.TrimSpace(req.Subreddit),
		Phase:      domain.PhaseInit,
		StartedAt:  time.Now().UTC(),
	}
	p.mu.Unlock()

	onPhase := req.OnPhase
	req.OnPhase = func(id domain.ResearchID, phase domain.Phase) {
		p.setPhase(id, phase)
		if onPhase != nil {
			onPhase(id, phase)
		}
	}

	started := p.group.TryGo(func() error {
		_, err := p.runner.Run(p.ctx, req)
		p.finish(id, err)
		return nil
	})
	if !started {
		p.mu.Lock()
		delete(p.status, id)
		p.mu.Unlock()
		return "", ErrPoolFull
	}

	observability.WithFields("research_id", id).Info("research submitted")
	return id, nil
}

func (p *Pool) setPhase(id domain.ResearchID, phase domain.Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.status[id]; ok && !st.Phase.Terminal() {
		st.Phase = phase
	}
}

func (p *Pool) finish(id domain.ResearchID, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.status[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	st.FinishedAt = &now
	if err != nil {
		st.Phase = domain.PhaseFailed
		st.Error = err.Error()
	}
}

// Status returns a copy of the session's live status.
func (p *Pool) Status(id domain.ResearchID) (Status, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, ok := p.status[id]
	if !ok {
		return Status{}, false
	}
	return *st, true
}

// List returns every known session, oldest first.
func (p *Pool) List() []Status {
	p.mu.RLock()
	out := make([]Status, 0, len(p.status))
	for _, st := range p.status {
		out = append(out, *st)
	}
	p.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ResearchID < out[j].ResearchID
	})
	return out
}

// Shutdown cancels every running session and waits for them to finalize
// or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()

	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
