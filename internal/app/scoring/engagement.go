package scoring

import (
	"math"
	"sort"
	"time"
)

// EngagementPolicy holds the thresholds that decide which comments deserve
// a reply.
type EngagementPolicy struct {
	MinUpvotes           int
	UpvoteRatioThreshold float64
}

// Candidate is a comment considered for an agent reply.
type Candidate struct {
	ID         string
	ParentID   string
	Text       string
	VoteCount  int
	ObservedAt time.Time
	Replied    bool
}

// EngagementScorer filters and ranks reply candidates.
type EngagementScorer struct {
	policy EngagementPolicy
	filter func(Candidate) bool
}

type EngagementOption func(*EngagementScorer)

// WithFilter adds an extra eligibility predicate on top of the vote rules,
// e.g. to skip strongly negative comments.
func WithFilter(fn func(Candidate) bool) EngagementOption {
	return func(s *EngagementScorer) { s.filter = fn }
}

func NewEngagementScorer(policy EngagementPolicy, opts ...EngagementOption) *EngagementScorer {
	s := &EngagementScorer{policy: policy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ThreadVotes returns the vote mass of a poll snapshot: the sum of
// non-negative vote counts.
func ThreadVotes(votes []int) int {
	total := 0
	for _, v := range votes {
		if v > 0 {
			total += v
		}
	}
	return total
}

// ShouldEngage reports whether c is eligible for a reply given the total
// vote mass of the thread at the same poll.
func (s *EngagementScorer) ShouldEngage(c Candidate, totalThreadVotes int) bool {
	if c.Replied {
		return false
	}
	if c.VoteCount < s.policy.MinUpvotes {
		return false
	}
	share := float64(c.VoteCount) / float64(max(totalThreadVotes, 1))
	if share < s.policy.UpvoteRatioThreshold {
		return false
	}
	if s.filter != nil && !s.filter(c) {
		return false
	}
	return true
}

// Rank returns the eligible candidates ordered by descending votes, then
// earliest observation, then id. The order is fully deterministic.
func (s *EngagementScorer) Rank(cands []Candidate, totalThreadVotes int) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if s.ShouldEngage(c, totalThreadVotes) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		if !a.ObservedAt.Equal(b.ObservedAt) {
			return a.ObservedAt.Before(b.ObservedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// recencyHalfLife controls how fast the recency component of Score decays.
const recencyHalfLife = 6 * time.Hour

// Score is the composite engagement signal: absolute votes (log-scaled),
// share of the thread's vote mass, and recency. It feeds the key insights
// of the research metrics; reply targeting uses Rank.
func (s *EngagementScorer) Score(c Candidate, totalThreadVotes int, now time.Time) float64 {
	votes := math.Max(float64(c.VoteCount), 0)
	absolute := math.Log1p(votes)
	share := votes / float64(max(totalThreadVotes, 1))

	recency := 1.0
	if !c.ObservedAt.IsZero() && now.After(c.ObservedAt) {
		age := now.Sub(c.ObservedAt)
		recency = math.Pow(0.5, float64(age)/float64(recencyHalfLife))
	}

	return round(absolute + 2*share + 0.5*recency)
}
