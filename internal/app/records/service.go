package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const defaultListLimit = 20

// Summary is the list view of a research record.
type Summary struct {
	ResearchID      domain.ResearchID `json:"research_id"`
	Subreddit       string            `json:"subreddit"`
	Prompt          string            `json:"prompt"`
	Phase           domain.Phase      `json:"phase"`
	Cancelled       bool              `json:"cancelled,omitempty"`
	PostPermalink   string            `json:"post_permalink,omitempty"`
	Comments        int               `json:"comments"`
	AgentReplies    int               `json:"agent_replies"`
	TotalEngagement int               `json:"total_engagement"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Service holds the logic of reading research records.
type Service struct {
	store domain.DataStore
}

// NewService creates a records service from a DataStore.
func NewService(store domain.DataStore) *Service {
	return &Service{store: store}
}

// Get returns the latest snapshot of a research session.
func (s *Service) Get(ctx context.Context, id domain.ResearchID) (*domain.SessionState, error) {
	id = domain.ResearchID(strings.TrimSpace(string(id)))
	if id == "" {
		return nil, fmt.Errorf("%w: research id is required", domain.ErrNotFound)
	}
	return s.store.LoadSnapshot(ctx, id)
}

// List returns summaries of the most recently updated sessions.
// If limit <= 0, a reasonable default value is used.
func (s *Service) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	states, err := s.store.ListSnapshots(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(states))
	for _, st := range states {
		out = append(out, Summarize(st))
	}
	return out, nil
}

// Summarize condenses a snapshot for listings.
func Summarize(st *domain.SessionState) Summary {
	sum := Summary{
		ResearchID:      st.ResearchID,
		Subreddit:       st.Subreddit,
		Prompt:          st.Prompt,
		Phase:           st.Phase,
		Cancelled:       st.Cancelled,
		Comments:        st.Interactions.Metrics.CommunityComments,
		AgentReplies:    st.AgentReplyCount(),
		TotalEngagement: st.Interactions.Metrics.TotalEngagement,
		UpdatedAt:       st.UpdatedAt,
	}
	if st.Post != nil {
		sum.PostPermalink = st.Post.Permalink
	}
	return sum
}
