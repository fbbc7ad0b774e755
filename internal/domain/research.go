package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Sentiment is the polarity/subjectivity pair attached to every reply.
type Sentiment struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Post is the submission the session published.
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Permalink string     `json:"permalink,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Status    PostStatus `json:"status"`
}

// ObserveStatus applies a status seen on the platform. Statuses only move
// forward (active -> unknown -> removed); a backward observation is ignored.
// It reports whether the status changed.
func (p *Post) ObserveStatus(observed PostStatus) bool {
	if observed.rank() <= p.Status.rank() {
		return false
	}
	p.Status = observed
	return true
}

// Reply is one comment in the thread, either from the community or written
// by the agent.
type Reply struct {
	ID               string    `json:"id"`
	ParentID         string    `json:"parentId,omitempty"`
	Author           string    `json:"author,omitempty"`
	Content          string    `json:"content"`
	VoteCount        int       `json:"upvotes"`
	Sentiment        Sentiment `json:"sentiment"`
	ObservedAt       time.Time `json:"timestamp"`
	IsAgentGenerated bool      `json:"isAgentGenerated"`
}

type SentimentOverview struct {
	AveragePolarity     float64 `json:"averagePolarity"`
	AverageSubjectivity float64 `json:"averageSubjectivity"`
	Positive            int     `json:"positive"`
	Neutral             int     `json:"neutral"`
	Negative            int     `json:"negative"`
}

// Insight is a high-engagement community comment surfaced in the metrics.
type Insight struct {
	CommentID string  `json:"commentId"`
	Excerpt   string  `json:"excerpt"`
	Upvotes   int     `json:"upvotes"`
	Polarity  float64 `json:"polarity"`
	Score     float64 `json:"score"`
}

// Metrics is derived from the replies; it is recomputed, never edited.
type Metrics struct {
	TotalEngagement   int               `json:"totalEngagement"`
	CommunityComments int               `json:"communityComments"`
	AgentReplies      int               `json:"agentReplies"`
	SentimentOverview SentimentOverview `json:"sentimentOverview"`
	KeyInsights       []Insight         `json:"keyInsights"`
	ComputedAt        time.Time         `json:"computedAt"`
}

type Interactions struct {
	Replies []Reply `json:"replies"`
	Metrics Metrics `json:"metrics"`
}

// Incident records a degraded step: a skipped poll, a rejected reply, a
// failed snapshot. The session keeps going; the record explains the gaps.
type Incident struct {
	Timestamp time.Time `json:"timestamp"`
	Phase     Phase     `json:"phase"`
	Op        string    `json:"op"`
	TargetID  string    `json:"targetId,omitempty"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
}

// StyleProfile is the structured form of the community style summary.
type StyleProfile struct {
	Source             string   `json:"source"` // "derived", "template" or "default"
	SampleSize         int      `json:"sampleSize"`
	Tone               string   `json:"tone"`
	LengthClass        string   `json:"lengthClass"`
	AvgTitleWords      float64  `json:"avgTitleWords"`
	AvgBodyWords       float64  `json:"avgBodyWords"`
	QuestionTitleRatio float64  `json:"questionTitleRatio"`
	UsesLists          bool     `json:"usesLists"`
	UsesLinks          bool     `json:"usesLinks"`
	CommonTerms        []string `json:"commonTerms,omitempty"`
}

// SessionState is the record of one research run. Only the orchestrator
// mutates it; snapshots handed to storage are clones.
type SessionState struct {
	ResearchID           ResearchID    `json:"researchId"`
	Prompt               string        `json:"originalPrompt"`
	Subreddit            string        `json:"subreddit"`
	StyleTemplate        string        `json:"styleTemplate"`
	StyleProfile         *StyleProfile `json:"styleProfile,omitempty"`
	Post                 *Post         `json:"post"`
	Interactions         Interactions  `json:"interactions"`
	MaxRepliesPerThread  int           `json:"maxRepliesPerThread"`
	ReplyBudgetRemaining int           `json:"replyBudgetRemaining"`
	Phase                Phase         `json:"phase"`
	Cancelled            bool          `json:"cancelled,omitempty"`
	Incidents            []Incident    `json:"incidents,omitempty"`
	StartedAt            time.Time     `json:"startedAt"`
	MonitoringStartedAt  time.Time     `json:"monitoringStartedAt,omitempty"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

var ErrBudgetExhausted = errors.New("reply budget exhausted")

// NewSessionState creates the state of a fresh session in the init phase.
func NewSessionState(id ResearchID, prompt, subreddit string, maxReplies int, now time.Time) *SessionState {
	return &SessionState{
		ResearchID:           id,
		Prompt:               prompt,
		Subreddit:            subreddit,
		MaxRepliesPerThread:  maxReplies,
		ReplyBudgetRemaining: maxReplies,
		Phase:                PhaseInit,
		Interactions:         Interactions{Replies: []Reply{}},
		StartedAt:            now,
		UpdatedAt:            now,
	}
}

// Transition moves the session to the next lifecycle phase.
func (s *SessionState) Transition(to Phase) error {
	if !CanTransition(s.Phase, to) {
		return fmt.Errorf("invalid phase transition %s -> %s", s.Phase, to)
	}
	s.Phase = to
	return nil
}

func (s *SessionState) indexOf(id string) int {
	for i := range s.Interactions.Replies {
		if s.Interactions.Replies[i].ID == id {
			return i
		}
	}
	return -1
}

// HasReply reports whether a reply with the given external id is recorded.
func (s *SessionState) HasReply(id string) bool {
	return s.indexOf(id) >= 0
}

// ObserveComment records a community comment seen on a poll. A comment
// already present only has its vote count refreshed. It reports whether the
// comment was new.
func (s *SessionState) ObserveComment(r Reply) bool {
	if i := s.indexOf(r.ID); i >= 0 {
		s.Interactions.Replies[i].VoteCount = r.VoteCount
		return false
	}
	r.IsAgentGenerated = false
	s.Interactions.Replies = append(s.Interactions.Replies, r)
	return true
}

// RecordAgentReply appends a reply the agent sent and spends one unit of
// budget.
func (s *SessionState) RecordAgentReply(r Reply) error {
	if s.ReplyBudgetRemaining <= 0 {
		return ErrBudgetExhausted
	}
	if s.HasReply(r.ID) {
		return fmt.Errorf("reply %s already recorded", r.ID)
	}
	r.IsAgentGenerated = true
	s.Interactions.Replies = append(s.Interactions.Replies, r)
	s.ReplyBudgetRemaining--
	return nil
}

// AgentReplyCount counts replies written by the agent.
func (s *SessionState) AgentReplyCount() int {
	n := 0
	for _, r := range s.Interactions.Replies {
		if r.IsAgentGenerated {
			n++
		}
	}
	return n
}

// RepliedTargets returns the ids of comments the agent already answered.
func (s *SessionState) RepliedTargets() map[string]bool {
	out := make(map[string]bool)
	for _, r := range s.Interactions.Replies {
		if r.IsAgentGenerated && r.ParentID != "" {
			out[r.ParentID] = true
		}
	}
	return out
}

// AddIncident appends an incident for the current phase.
func (s *SessionState) AddIncident(at time.Time, op, targetID string, err error) {
	s.Incidents = append(s.Incidents, Incident{
		Timestamp: at,
		Phase:     s.Phase,
		Op:        op,
		TargetID:  targetID,
		Kind:      KindOf(err),
		Message:   err.Error(),
	})
}

// Validate checks the aggregate invariants.
func (s *SessionState) Validate() error {
	if s.ReplyBudgetRemaining < 0 {
		return fmt.Errorf("negative reply budget %d", s.ReplyBudgetRemaining)
	}
	if want := s.MaxRepliesPerThread - s.AgentReplyCount(); s.ReplyBudgetRemaining != want {
		return fmt.Errorf("reply budget %d, want %d", s.ReplyBudgetRemaining, want)
	}
	seen := make(map[string]bool, len(s.Interactions.Replies))
	for _, r := range s.Interactions.Replies {
		if seen[r.ID] {
			return fmt.Errorf("duplicate reply id %s", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// Clone returns a deep copy suitable for handing to storage.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	c := *s
	if s.StyleProfile != nil {
		p := *s.StyleProfile
		p.CommonTerms = slices.Clone(s.StyleProfile.CommonTerms)
		c.StyleProfile = &p
	}
	if s.Post != nil {
		p := *s.Post
		c.Post = &p
	}
	c.Interactions.Replies = slices.Clone(s.Interactions.Replies)
	if c.Interactions.Replies == nil {
		c.Interactions.Replies = []Reply{}
	}
	c.Interactions.Metrics.KeyInsights = slices.Clone(s.Interactions.Metrics.KeyInsights)
	c.Incidents = slices.Clone(s.Incidents)
	return &c
}
