package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const (
	defaultKeyInsights = 3
	excerptRunes       = 160
	// polarityBand separates positive/negative comments from neutral ones.
	polarityBand = 0.1
)

// MetricsAggregator derives research metrics from the replies of a session.
type MetricsAggregator struct {
	engagement  *EngagementScorer
	keyInsights int
}

func NewMetricsAggregator(engagement *EngagementScorer, keyInsights int) *MetricsAggregator {
	if keyInsights <= 0 {
		keyInsights = defaultKeyInsights
	}
	return &MetricsAggregator{engagement: engagement, keyInsights: keyInsights}
}

// Compute recomputes the metrics from scratch. Community comments count
// towards engagement and sentiment; agent replies are only counted.
func (a *MetricsAggregator) Compute(replies []domain.Reply, now time.Time) domain.Metrics {
	m := domain.Metrics{KeyInsights: []domain.Insight{}, ComputedAt: now}

	var (
		community []domain.Reply
		votes     []int
		polSum    float64
		subSum    float64
	)
	for _, r := range replies {
		if r.IsAgentGenerated {
			m.AgentReplies++
			continue
		}
		community = append(community, r)
		votes = append(votes, r.VoteCount)
		polSum += r.Sentiment.Polarity
		subSum += r.Sentiment.Subjectivity

		switch {
		case r.Sentiment.Polarity > polarityBand:
			m.SentimentOverview.Positive++
		case r.Sentiment.Polarity < -polarityBand:
			m.SentimentOverview.Negative++
		default:
			m.SentimentOverview.Neutral++
		}
	}

	m.CommunityComments = len(community)
	total := ThreadVotes(votes)
	m.TotalEngagement = m.CommunityComments + total
	if n := len(community); n > 0 {
		m.SentimentOverview.AveragePolarity = round(polSum / float64(n))
		m.SentimentOverview.AverageSubjectivity = round(subSum / float64(n))
	}

	insights := make([]domain.Insight, 0, len(community))
	for _, r := range community {
		c := Candidate{ID: r.ID, Text: r.Content, VoteCount: r.VoteCount, ObservedAt: r.ObservedAt}
		insights = append(insights, domain.Insight{
			CommentID: r.ID,
			Excerpt:   excerpt(r.Content),
			Upvotes:   r.VoteCount,
			Polarity:  r.Sentiment.Polarity,
			Score:     a.engagement.Score(c, total, now),
		})
	}
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Score != insights[j].Score {
			return insights[i].Score > insights[j].Score
		}
		return insights[i].CommentID < insights[j].CommentID
	})
	if len(insights) > a.keyInsights {
		insights = insights[:a.keyInsights]
	}
	m.KeyInsights = insights

	return m
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= excerptRunes {
		return s
	}
	return strings.TrimSpace(string(r[:excerptRunes])) + "…"
}
