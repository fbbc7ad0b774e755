package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/app/agentflow"
	"github.com/AmolDerickSoans/RedditReady/internal/app/retry"
	"github.com/AmolDerickSoans/RedditReady/internal/app/scoring"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

// Incident operations.
const (
	OpFetchSample  = "fetch_sample"
	OpFetchComment = "fetch_comments"
	OpGenerate     = "generate_reply"
	OpCreateReply  = "create_reply"
	OpRecordReply  = "record_reply"
	OpSaveSnapshot = "save_snapshot"
)

// Deps are the collaborators of the orchestrator. Gate is optional; when
// nil a gate is built from the settings.
type Deps struct {
	Reader    domain.CommunityReader
	Writer    domain.CommunityWriter
	Store     domain.DataStore
	Generator *agentflow.ContentGenerator
	Profiler  *agentflow.StyleProfiler
	Sentiment scoring.SentimentScorer
	Gate      *WriteGate
}

// Request starts one research session.
type Request struct {
	Prompt        string `json:"prompt"`
	Subreddit     string `json:"subreddit"`
	ResearchID    string `json:"research_id,omitempty"`
	StyleTemplate string `json:"style_template,omitempty"`

	// OnPhase, when set, is called after every phase change.
	OnPhase func(domain.ResearchID, domain.Phase) `json:"-"`
}

// FailedError is returned when a session ends in the failed phase. It
// carries no research id: a failed session has no record to look up.
type FailedError struct {
	Phase domain.Phase
	Err   error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("research failed during %s (%s): %v", e.Phase, domain.KindOf(e.Err), e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// Orchestrator drives research sessions through their lifecycle. It holds
// no per-session state, so one orchestrator can run many sessions at once.
type Orchestrator struct {
	settings   Settings
	reader     domain.CommunityReader
	writer     domain.CommunityWriter
	store      domain.DataStore
	generator  *agentflow.ContentGenerator
	profiler   *agentflow.StyleProfiler
	sentiment  scoring.SentimentScorer
	engagement *scoring.EngagementScorer
	metrics    *scoring.MetricsAggregator
	clock      Clock
}

type Option func(*Orchestrator)

func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithEngagementFilter adds an eligibility rule on top of the vote rules.
func WithEngagementFilter(fn func(scoring.Candidate) bool) Option {
	return func(o *Orchestrator) {
		o.engagement = scoring.NewEngagementScorer(o.policy(), scoring.WithFilter(fn))
	}
}

func New(settings Settings, deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		settings:  settings,
		reader:    deps.Reader,
		store:     deps.Store,
		generator: deps.Generator,
		profiler:  deps.Profiler,
		sentiment: deps.Sentiment,
		clock:     RealClock(),
	}
	if o.sentiment == nil {
		o.sentiment = scoring.NewLexiconScorer()
	}
	if o.profiler == nil {
		o.profiler = agentflow.NewStyleProfiler(o.sentiment)
	}
	if deps.Writer != nil {
		gate := deps.Gate
		if gate == nil {
			gate = NewWriteGate(settings.RateLimitDelay)
		}
		o.writer = NewGatedWriter(deps.Writer, gate, settings.WriteTimeout)
	}
	o.engagement = scoring.NewEngagementScorer(o.policy())
	for _, opt := range opts {
		opt(o)
	}
	o.metrics = scoring.NewMetricsAggregator(o.engagement, settings.KeyInsights)
	return o
}

func (o *Orchestrator) policy() scoring.EngagementPolicy {
	return scoring.EngagementPolicy{
		MinUpvotes:           o.settings.MinUpvotes,
		UpvoteRatioThreshold: o.settings.UpvoteRatioThreshold,
	}
}

// Run executes one session to a terminal phase. It returns the research id
// when the session completes, or a *FailedError.
func (o *Orchestrator) Run(ctx context.Context, req Request) (domain.ResearchID, error) {
	id := domain.ResearchID(strings.TrimSpace(req.ResearchID))
	if id == "" {
		id = domain.NewResearchID()
	}
	ctx = observability.WithResearchID(ctx, string(id))

	r := &run{
		o:          o,
		req:        req,
		log:        observability.LoggerFromContext(ctx),
		state:      domain.NewSessionState(id, strings.TrimSpace(req.Prompt), strings.TrimSpace(req.Subreddit), o.settings.MaxRepliesPerThread, o.clock.Now()),
		phaseStart: o.clock.Now(),
	}
	return r.execute(ctx)
}

// run is the state of one session. Only its goroutine touches it.
type run struct {
	o          *Orchestrator
	req        Request
	log        *slog.Logger
	state      *domain.SessionState
	style      agentflow.StyleSummary
	phaseStart time.Time
}

func (r *run) execute(ctx context.Context) (domain.ResearchID, error) {
	r.log.Info("research started", "subreddit", r.state.Subreddit)

	if err := r.validate(); err != nil {
		return "", r.fail(err)
	}
	if err := r.profile(ctx); err != nil {
		return "", r.fail(err)
	}
	if err := r.post(ctx); err != nil {
		return "", r.fail(err)
	}
	r.monitor(ctx)
	r.finalize(ctx)

	r.log.Info("research completed",
		"agent_replies", r.state.AgentReplyCount(),
		"cancelled", r.state.Cancelled,
		"incidents", len(r.state.Incidents))
	return r.state.ResearchID, nil
}

func (r *run) validate() error {
	if err := r.o.settings.Validate(); err != nil {
		return err
	}
	if r.state.Prompt == "" {
		return fmt.Errorf("%w: research prompt is empty", domain.ErrConfig)
	}
	if r.state.Subreddit == "" {
		return fmt.Errorf("%w: subreddit is empty", domain.ErrConfig)
	}
	if r.o.reader == nil || r.o.writer == nil || r.o.store == nil || r.o.generator == nil {
		return fmt.Errorf("%w: orchestrator is missing a dependency", domain.ErrConfig)
	}
	return nil
}

func (r *run) transition(to domain.Phase) {
	from := r.state.Phase
	if err := r.state.Transition(to); err != nil {
		// Only reachable through a programming error in this file.
		panic(err)
	}
	now := r.o.clock.Now()
	r.state.UpdatedAt = now
	r.log.Info("phase change", "from", from, "to", to, "elapsed_ms", now.Sub(r.phaseStart).Milliseconds())
	r.phaseStart = now
	if r.req.OnPhase != nil {
		r.req.OnPhase(r.state.ResearchID, to)
	}
}

func (r *run) fail(err error) error {
	phase := r.state.Phase
	r.log.Error("research failed", "phase", phase, "kind", domain.KindOf(err), "error", err)
	r.transition(domain.PhaseFailed)
	return &FailedError{Phase: phase, Err: err}
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", domain.ErrCancelled, context.Cause(ctx))
}

func (r *run) profile(ctx context.Context) error {
	r.transition(domain.PhaseProfiling)
	if ctx.Err() != nil {
		return cancelled(ctx)
	}

	var sample []domain.CommunityPost
	err := r.withRetry(ctx, func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, r.o.settings.ReadTimeout)
		defer cancel()

		var err error
		sample, err = r.o.reader.FetchCommunitySample(ctx, r.state.Subreddit, r.o.settings.CommunitySampleSize)
		return err
	})
	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", OpFetchSample, err)
	}

	r.style = r.o.profiler.Profile(sample, r.req.StyleTemplate)
	r.state.StyleTemplate = r.style.Render()
	profile := r.style.StyleProfile
	r.state.StyleProfile = &profile
	r.log.Info("community profiled", "sample_size", len(sample), "source", profile.Source)
	return nil
}

func (r *run) post(ctx context.Context) error {
	r.transition(domain.PhasePosting)
	if ctx.Err() != nil {
		return cancelled(ctx)
	}

	draft, err := r.o.generator.GeneratePost(ctx, r.state.Prompt, r.state.Subreddit, r.style)
	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	if err != nil {
		return err
	}

	// Once the write starts it runs to its end; a post must not be
	// half-created because the caller went away.
	var published domain.PublishedPost
	err = r.withRetry(context.WithoutCancel(ctx), func(ctx context.Context) error {
		var err error
		published, err = r.o.writer.CreatePost(ctx, r.state.Subreddit, draft.Title, draft.Body)
		return err
	})
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	r.state.Post = &domain.Post{
		ID:        published.ID,
		Title:     draft.Title,
		Content:   draft.Body,
		Permalink: published.Permalink,
		Timestamp: r.o.clock.Now(),
		Status:    domain.PostActive,
	}
	r.log.Info("post created", "post_id", published.ID, "title", draft.Title)
	return nil
}

func (r *run) monitor(ctx context.Context) {
	r.transition(domain.PhaseMonitoring)

	start := r.o.clock.Now()
	r.state.MonitoringStartedAt = start
	deadline := start.Add(r.o.settings.MonitoringDuration)
	next := start

	for poll := 1; ; poll++ {
		if ctx.Err() != nil {
			r.state.Cancelled = true
			r.log.Info("monitoring cancelled", "poll", poll)
			return
		}
		now := r.o.clock.Now()
		if !now.Before(deadline) {
			return
		}
		for !next.After(now) {
			next = next.Add(r.o.settings.CheckInterval)
		}
		wake := next
		if wake.After(deadline) {
			wake = deadline
		}
		if err := r.o.clock.Sleep(ctx, wake.Sub(now)); err != nil {
			r.state.Cancelled = true
			r.log.Info("monitoring cancelled during wait", "poll", poll)
			return
		}

		// The poll itself is not interrupted; cancellation is observed at
		// the top of the next iteration.
		r.poll(context.WithoutCancel(ctx), poll)

		if r.state.Post.Status == domain.PostRemoved {
			r.log.Warn("post removed, ending monitoring", "poll", poll)
			return
		}
	}
}

func (r *run) poll(ctx context.Context, n int) {
	start := r.o.clock.Now()
	log := r.log.With("poll", n)
	postID := r.state.Post.ID

	var snap *domain.ThreadSnapshot
	err := r.withRetry(ctx, func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, r.o.settings.ReadTimeout)
		defer cancel()

		var err error
		snap, err = r.o.reader.FetchComments(ctx, postID)
		return err
	})
	if err == nil && snap == nil {
		err = fmt.Errorf("%w: empty thread snapshot", domain.ErrTransient)
	}
	if err != nil {
		r.state.AddIncident(start, OpFetchComment, postID, err)
		if errors.Is(err, domain.ErrNotFound) {
			r.observeStatus(domain.PostRemoved)
		}
		log.Warn("poll skipped", "kind", domain.KindOf(err), "error", err)
		return
	}

	newComments := 0
	for _, c := range snap.Comments {
		if c.ID == "" {
			continue
		}
		observedAt := c.CreatedAt
		if observedAt.IsZero() {
			observedAt = start
		}
		reply := domain.Reply{
			ID:         c.ID,
			ParentID:   c.ParentID,
			Author:     c.Author,
			Content:    c.Text,
			VoteCount:  c.VoteCount,
			ObservedAt: observedAt,
		}
		if !r.state.HasReply(c.ID) {
			reply.Sentiment = r.o.sentiment.Score(c.Text)
		}
		if r.state.ObserveComment(reply) {
			newComments++
		}
	}
	if snap.PostStatus != "" {
		r.observeStatus(snap.PostStatus)
	}

	replies := 0
	if r.state.Post.Status != domain.PostRemoved {
		replies = r.engage(ctx, log, snap)
	}

	r.state.Interactions.Metrics = r.o.metrics.Compute(r.state.Interactions.Replies, r.o.clock.Now())
	r.save(ctx)

	log.Info("poll done",
		"comments", len(snap.Comments),
		"new_comments", newComments,
		"agent_replies", replies,
		"budget_remaining", r.state.ReplyBudgetRemaining,
		"elapsed_ms", r.o.clock.Now().Sub(start).Milliseconds())
}

func (r *run) observeStatus(s domain.PostStatus) {
	before := r.state.Post.Status
	if r.state.Post.ObserveStatus(s) {
		r.log.Info("post status changed", "from", before, "to", r.state.Post.Status)
	}
}

// engage replies to the best candidates of this poll while budget remains.
func (r *run) engage(ctx context.Context, log *slog.Logger, snap *domain.ThreadSnapshot) int {
	if r.state.ReplyBudgetRemaining <= 0 {
		return 0
	}

	replied := r.state.RepliedTargets()
	rejected := r.rejectedTargets()
	votes := make([]int, 0, len(snap.Comments))
	cands := make([]scoring.Candidate, 0, len(snap.Comments))
	for _, c := range snap.Comments {
		votes = append(votes, c.VoteCount)
		rec, ok := r.reply(c.ID)
		if !ok || rec.IsAgentGenerated || rejected[c.ID] {
			continue
		}
		cands = append(cands, scoring.Candidate{
			ID:         rec.ID,
			ParentID:   rec.ParentID,
			Text:       rec.Content,
			VoteCount:  rec.VoteCount,
			ObservedAt: rec.ObservedAt,
			Replied:    replied[rec.ID],
		})
	}

	sent := 0
	for _, c := range r.o.engagement.Rank(cands, scoring.ThreadVotes(votes)) {
		if r.state.ReplyBudgetRemaining <= 0 {
			break
		}
		if r.respond(ctx, log, c) {
			sent++
		}
	}
	return sent
}

func (r *run) respond(ctx context.Context, log *slog.Logger, c scoring.Candidate) bool {
	tc := agentflow.ThreadContext{
		Subreddit:   r.state.Subreddit,
		PostTitle:   r.state.Post.Title,
		PostBody:    r.state.Post.Content,
		CommentText: c.Text,
	}
	if parent, ok := r.reply(c.ParentID); ok {
		tc.ParentText = parent.Content
	}

	text, err := r.o.generator.GenerateReply(ctx, tc, r.style)
	if err != nil {
		r.state.AddIncident(r.o.clock.Now(), OpGenerate, c.ID, err)
		log.Warn("reply generation failed", "comment_id", c.ID, "error", err)
		return false
	}

	var id string
	err = r.withRetry(ctx, func(ctx context.Context) error {
		var err error
		id, err = r.o.writer.CreateReply(ctx, c.ID, text)
		return err
	})
	if err != nil {
		r.state.AddIncident(r.o.clock.Now(), OpCreateReply, c.ID, err)
		log.Warn("reply not sent", "comment_id", c.ID, "kind", domain.KindOf(err), "error", err)
		return false
	}

	err = r.state.RecordAgentReply(domain.Reply{
		ID:         id,
		ParentID:   c.ID,
		Content:    text,
		Sentiment:  r.o.sentiment.Score(text),
		ObservedAt: r.o.clock.Now(),
	})
	if err != nil {
		// The reply is live on the platform; never answer this comment again.
		r.state.AddIncident(r.o.clock.Now(), OpRecordReply, c.ID, fmt.Errorf("reply %s sent but not recorded: %w", id, err))
		log.Error("agent reply not recorded", "comment_id", c.ID, "reply_id", id, "error", err)
		return false
	}
	log.Info("agent replied", "comment_id", c.ID, "reply_id", id, "votes", c.VoteCount)
	return true
}

func (r *run) reply(id string) (domain.Reply, bool) {
	if id == "" {
		return domain.Reply{}, false
	}
	for _, rep := range r.state.Interactions.Replies {
		if rep.ID == id {
			return rep, true
		}
	}
	return domain.Reply{}, false
}

// rejectedTargets are comments that must not be answered again: the
// platform refused the reply, or a reply was sent but could not be recorded.
func (r *run) rejectedTargets() map[string]bool {
	out := make(map[string]bool)
	for _, inc := range r.state.Incidents {
		switch {
		case inc.Op == OpCreateReply && inc.Kind == domain.KindOf(domain.ErrRejected):
			out[inc.TargetID] = true
		case inc.Op == OpRecordReply:
			out[inc.TargetID] = true
		}
	}
	return out
}

// withRetry runs fn under the session's retry policy, waiting on the
// session clock between attempts.
func (r *run) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.DoWithSleep(ctx, r.o.settings.Retry, r.o.clock.Sleep, fn)
}

func (r *run) save(ctx context.Context) {
	r.state.UpdatedAt = r.o.clock.Now()
	if err := r.state.Validate(); err != nil {
		r.log.Error("session state invariant broken", "error", err)
	}

	snapshot := r.state.Clone()
	err := r.withRetry(ctx, func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, r.o.settings.StoreTimeout)
		defer cancel()
		return r.o.store.SaveSnapshot(ctx, snapshot)
	})
	if err != nil {
		r.state.AddIncident(r.o.clock.Now(), OpSaveSnapshot, string(r.state.ResearchID), err)
		r.log.Error("snapshot not saved", "phase", r.state.Phase, "error", err)
	}
}

func (r *run) finalize(ctx context.Context) {
	r.transition(domain.PhaseFinalizing)

	r.state.Interactions.Metrics = r.o.metrics.Compute(r.state.Interactions.Replies, r.o.clock.Now())
	// The final record carries the completed phase.
	r.transition(domain.PhaseCompleted)
	r.save(context.WithoutCancel(ctx))
}
