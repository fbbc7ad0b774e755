package agentflow

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/AmolDerickSoans/RedditReady/internal/app/scoring"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const (
	defaultCommonTerms = 8
	minTermLength      = 4
	// fraction of sampled posts that must show a habit before it counts as
	// a community convention.
	habitThreshold = 0.3
)

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "also": {}, "been": {}, "before": {},
	"being": {}, "could": {}, "does": {}, "doing": {}, "from": {}, "have": {},
	"having": {}, "here": {}, "into": {}, "just": {}, "like": {}, "more": {},
	"most": {}, "much": {}, "only": {}, "other": {}, "over": {}, "really": {},
	"same": {}, "should": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "very": {}, "want": {}, "were": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {}, "anyone": {}, "anything": {}, "because": {},
	"https": {}, "http": {}, "www": {},
}

// StyleSummary is the community style passed to content generation.
type StyleSummary struct {
	domain.StyleProfile
	// Template, when set, replaces the derived guide verbatim.
	Template string
}

// Render returns the style guide as prompt text.
func (s StyleSummary) Render() string {
	if s.Template != "" {
		return s.Template
	}
	if s.Source == "default" || s.SampleSize == 0 {
		return "No community sample is available. Use a neutral, conversational tone, " +
			"a clear and specific title, and a short body of two or three paragraphs."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Derived from %d recent popular posts.\n", s.SampleSize)
	fmt.Fprintf(&b, "- Tone: %s\n", s.Tone)
	fmt.Fprintf(&b, "- Length: %s bodies, about %.0f words\n", s.LengthClass, s.AvgBodyWords)
	fmt.Fprintf(&b, "- Titles: about %.0f words, %.0f%% phrased as questions\n",
		s.AvgTitleWords, s.QuestionTitleRatio*100)
	if s.UsesLists {
		b.WriteString("- Bullet or numbered lists are common\n")
	}
	if s.UsesLinks {
		b.WriteString("- Posts often include links\n")
	}
	if len(s.CommonTerms) > 0 {
		fmt.Fprintf(&b, "- Frequent terms: %s\n", strings.Join(s.CommonTerms, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// StyleProfiler derives a style summary from a community sample. It makes
// no external calls, so the same sample always yields the same summary.
type StyleProfiler struct {
	sentiment scoring.SentimentScorer
	terms     int
}

func NewStyleProfiler(sentiment scoring.SentimentScorer) *StyleProfiler {
	return &StyleProfiler{sentiment: sentiment, terms: defaultCommonTerms}
}

// Profile summarises the sample. A non-empty template wins over the
// derived guide; an empty sample yields the neutral default.
func (p *StyleProfiler) Profile(sample []domain.CommunityPost, template string) StyleSummary {
	template = strings.TrimSpace(template)
	if template != "" {
		return StyleSummary{
			StyleProfile: domain.StyleProfile{Source: "template", SampleSize: len(sample)},
			Template:     template,
		}
	}
	if len(sample) == 0 {
		return StyleSummary{StyleProfile: domain.StyleProfile{
			Source:      "default",
			Tone:        "neutral, conversational",
			LengthClass: "short",
		}}
	}

	var (
		titleWords, bodyWords   int
		questions, lists, links int
		polarity, subjectivity  float64
		weights                 = map[string]float64{}
	)
	for _, post := range sample {
		titleWords += len(strings.Fields(post.Title))
		bodyWords += len(strings.Fields(post.Body))
		if strings.HasSuffix(strings.TrimSpace(post.Title), "?") {
			questions++
		}
		if hasList(post.Body) {
			lists++
		}
		if strings.Contains(post.Body, "http://") || strings.Contains(post.Body, "https://") {
			links++
		}

		s := p.sentiment.Score(post.Title + ". " + post.Body)
		polarity += s.Polarity
		subjectivity += s.Subjectivity

		w := 1 + math.Log1p(math.Max(float64(post.Score), 0))
		for _, term := range terms(post.Title + " " + post.Body) {
			weights[term] += w
		}
	}

	n := float64(len(sample))
	avgBody := bodyWords / len(sample)
	return StyleSummary{StyleProfile: domain.StyleProfile{
		Source:             "derived",
		SampleSize:         len(sample),
		Tone:               tone(polarity/n, subjectivity/n),
		LengthClass:        lengthClass(avgBody),
		AvgTitleWords:      roundTenth(float64(titleWords) / n),
		AvgBodyWords:       roundTenth(float64(bodyWords) / n),
		QuestionTitleRatio: roundTenth(float64(questions) / n),
		UsesLists:          float64(lists)/n >= habitThreshold,
		UsesLinks:          float64(links)/n >= habitThreshold,
		CommonTerms:        topTerms(weights, p.terms),
	}}
}

func tone(polarity, subjectivity float64) string {
	mood := "neutral"
	switch {
	case polarity > 0.15:
		mood = "positive"
	case polarity < -0.15:
		mood = "critical"
	}
	register := "matter-of-fact"
	if subjectivity > 0.5 {
		register = "opinionated"
	}
	return mood + ", " + register
}

func lengthClass(words int) string {
	switch {
	case words < 60:
		return "short"
	case words < 200:
		return "medium"
	default:
		return "long"
	}
}

func hasList(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			return true
		}
		if len(line) > 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			return true
		}
	}
	return false
}

func terms(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) < minTermLength {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func topTerms(weights map[string]float64, limit int) []string {
	type kv struct {
		term   string
		weight float64
	}
	all := make([]kv, 0, len(weights))
	for t, w := range weights {
		all = append(all, kv{t, w})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].weight != all[j].weight {
			return all[i].weight > all[j].weight
		}
		return all[i].term < all[j].term
	})
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]string, 0, len(all))
	for _, e := range all {
		out = append(out, e.term)
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
