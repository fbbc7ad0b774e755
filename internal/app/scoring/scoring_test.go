package scoring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/app/scoring"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestLexiconScorerNeutralDefault(t *testing.T) {
	s := scoring.NewLexiconScorer()

	assert.Equal(t, domain.Sentiment{}, s.Score(""))
	assert.Equal(t, domain.Sentiment{}, s.Score("   \n\t"))
	assert.Equal(t, domain.Sentiment{}, s.Score("the phone has a battery"))
}

func TestLexiconScorerPolarity(t *testing.T) {
	s := scoring.NewLexiconScorer()

	pos := s.Score("The camera is great and the screen is excellent.")
	neg := s.Score("Battery life is terrible and the software is buggy.")

	assert.Greater(t, pos.Polarity, 0.5)
	assert.Less(t, neg.Polarity, -0.5)
	assert.Greater(t, pos.Subjectivity, 0.0)
	assert.LessOrEqual(t, pos.Subjectivity, 1.0)
}

func TestLexiconScorerNegationAndIntensifiers(t *testing.T) {
	s := scoring.NewLexiconScorer()

	good := s.Score("good")
	notGood := s.Score("not good")
	veryGood := s.Score("very good")
	dontLike := s.Score("I don't like it")

	assert.Less(t, notGood.Polarity, 0.0)
	assert.Greater(t, veryGood.Polarity, good.Polarity)
	assert.Less(t, dontLike.Polarity, 0.0)
}

func TestLexiconScorerNegationStopsAtClause(t *testing.T) {
	s := scoring.NewLexiconScorer()

	got := s.Score("Not bad. Great phone!")
	assert.Greater(t, got.Polarity, 0.0)
}

func TestLexiconScorerIsDeterministicAndBounded(t *testing.T) {
	s := scoring.NewLexiconScorer()
	text := "extremely extremely extremely awesome, absolutely perfect"

	a, b := s.Score(text), s.Score(text)
	assert.Equal(t, a, b)
	assert.LessOrEqual(t, a.Polarity, 1.0)
	assert.LessOrEqual(t, a.Subjectivity, 1.0)
}

func TestSentimentFuncAdapter(t *testing.T) {
	var s scoring.SentimentScorer = scoring.SentimentFunc(func(string) domain.Sentiment {
		return domain.Sentiment{Polarity: 0.25}
	})
	assert.Equal(t, 0.25, s.Score("anything").Polarity)
}

func TestRankOrdersByVotesThenObservation(t *testing.T) {
	scorer := scoring.NewEngagementScorer(scoring.EngagementPolicy{MinUpvotes: 5, UpvoteRatioThreshold: 0.05})
	cands := []scoring.Candidate{
		{ID: "c3", VoteCount: 10, ObservedAt: t0.Add(3 * time.Minute)},
		{ID: "c2", VoteCount: 50, ObservedAt: t0.Add(2 * time.Minute)},
		{ID: "c1", VoteCount: 50, ObservedAt: t0.Add(1 * time.Minute)},
	}

	ranked := scorer.Rank(cands, 110)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids(ranked))
}

func TestRankIsStableAcrossInputOrder(t *testing.T) {
	scorer := scoring.NewEngagementScorer(scoring.EngagementPolicy{MinUpvotes: 1})
	a := []scoring.Candidate{
		{ID: "b", VoteCount: 7, ObservedAt: t0},
		{ID: "a", VoteCount: 7, ObservedAt: t0},
		{ID: "c", VoteCount: 9, ObservedAt: t0},
	}
	b := []scoring.Candidate{a[2], a[0], a[1]}

	assert.Equal(t, ids(scorer.Rank(a, 23)), ids(scorer.Rank(b, 23)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(scorer.Rank(a, 23)))
}

func TestShouldEngageMinUpvotesFloor(t *testing.T) {
	scorer := scoring.NewEngagementScorer(scoring.EngagementPolicy{MinUpvotes: 5, UpvoteRatioThreshold: 0})

	for _, total := range []int{0, 1, 4, 10, 1000} {
		assert.False(t, scorer.ShouldEngage(scoring.Candidate{ID: "c", VoteCount: 4}, total))
	}
	assert.True(t, scorer.ShouldEngage(scoring.Candidate{ID: "c", VoteCount: 5}, 5))
}

func TestShouldEngageRatioAndReplied(t *testing.T) {
	scorer := scoring.NewEngagementScorer(scoring.EngagementPolicy{MinUpvotes: 5, UpvoteRatioThreshold: 0.05})

	assert.False(t, scorer.ShouldEngage(scoring.Candidate{VoteCount: 6}, 200))
	assert.True(t, scorer.ShouldEngage(scoring.Candidate{VoteCount: 10}, 200))
	assert.False(t, scorer.ShouldEngage(scoring.Candidate{VoteCount: 10, Replied: true}, 200))
}

func TestWithFilter(t *testing.T) {
	scorer := scoring.NewEngagementScorer(
		scoring.EngagementPolicy{MinUpvotes: 1},
		scoring.WithFilter(func(c scoring.Candidate) bool { return c.Text != "spam" }),
	)

	ranked := scorer.Rank([]scoring.Candidate{
		{ID: "a", Text: "spam", VoteCount: 9},
		{ID: "b", Text: "insightful", VoteCount: 3},
	}, 12)
	assert.Equal(t, []string{"b"}, ids(ranked))
}

func TestThreadVotesIgnoresNegative(t *testing.T) {
	assert.Equal(t, 15, scoring.ThreadVotes([]int{10, -3, 5}))
	assert.Equal(t, 0, scoring.ThreadVotes(nil))
}

func TestScorePrefersVotesAndRecency(t *testing.T) {
	scorer := scoring.NewEngagementScorer(scoring.EngagementPolicy{})
	now := t0.Add(12 * time.Hour)

	high := scorer.Score(scoring.Candidate{VoteCount: 40, ObservedAt: t0}, 50, now)
	low := scorer.Score(scoring.Candidate{VoteCount: 10, ObservedAt: t0}, 50, now)
	fresh := scorer.Score(scoring.Candidate{VoteCount: 10, ObservedAt: now}, 50, now)

	assert.Greater(t, high, low)
	assert.Greater(t, fresh, low)
}

func TestMetricsAggregatorCompute(t *testing.T) {
	agg := scoring.NewMetricsAggregator(scoring.NewEngagementScorer(scoring.EngagementPolicy{}), 2)
	replies := []domain.Reply{
		{ID: "c1", Content: "great idea", VoteCount: 20, Sentiment: domain.Sentiment{Polarity: 0.8, Subjectivity: 0.7}, ObservedAt: t0},
		{ID: "c2", Content: "terrible", VoteCount: 3, Sentiment: domain.Sentiment{Polarity: -0.9, Subjectivity: 1}, ObservedAt: t0},
		{ID: "c3", Content: "ok", VoteCount: 1, ObservedAt: t0},
		{ID: "a1", ParentID: "c1", Content: "thanks", IsAgentGenerated: true, VoteCount: 50},
	}

	m := agg.Compute(replies, t0)

	assert.Equal(t, 3, m.CommunityComments)
	assert.Equal(t, 1, m.AgentReplies)
	assert.Equal(t, 3+24, m.TotalEngagement)
	assert.Equal(t, 1, m.SentimentOverview.Positive)
	assert.Equal(t, 1, m.SentimentOverview.Negative)
	assert.Equal(t, 1, m.SentimentOverview.Neutral)
	assert.InDelta(t, -0.0333, m.SentimentOverview.AveragePolarity, 1e-3)
	require.Len(t, m.KeyInsights, 2)
	assert.Equal(t, "c1", m.KeyInsights[0].CommentID)
}

func TestMetricsAggregatorEmpty(t *testing.T) {
	agg := scoring.NewMetricsAggregator(scoring.NewEngagementScorer(scoring.EngagementPolicy{}), 0)

	m := agg.Compute(nil, t0)
	assert.Zero(t, m.TotalEngagement)
	assert.NotNil(t, m.KeyInsights)
	assert.Empty(t, m.KeyInsights)
}

func ids(cs []scoring.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}
