package scoring

import (
	"math"
	"strings"
	"unicode"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// SentimentScorer computes polarity and subjectivity for a block of text.
type SentimentScorer interface {
	Score(text string) domain.Sentiment
}

// SentimentFunc adapts a plain function to SentimentScorer.
type SentimentFunc func(text string) domain.Sentiment

func (f SentimentFunc) Score(text string) domain.Sentiment {
	return f(text)
}

// LexiconScorer is a deterministic lexicon-based scorer. Each
// sentiment-bearing word contributes its lexicon values, scaled by a
// preceding intensifier and flipped (and damped) by a preceding negation.
// The result is the mean over contributing words.
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

func (LexiconScorer) Score(text string) domain.Sentiment {
	if strings.TrimSpace(text) == "" {
		return domain.Sentiment{}
	}

	var (
		polarity, subjectivity float64
		n                      int
		negate                 bool
		intensity              = 1.0
	)

	for _, tok := range tokenize(text) {
		if tok == clauseBreak {
			negate, intensity = false, 1.0
			continue
		}
		if negations[tok] || strings.HasSuffix(tok, "n't") {
			negate = !negate
			continue
		}
		if f, ok := intensifiers[tok]; ok {
			intensity *= f
			continue
		}
		entry, ok := lexicon[tok]
		if !ok {
			continue
		}

		p := entry.polarity * intensity
		if negate {
			p *= negationFactor
		}
		polarity += p
		subjectivity += math.Min(entry.subjectivity*intensity, 1)
		n++
		negate, intensity = false, 1.0
	}

	if n == 0 {
		return domain.Sentiment{}
	}

	return domain.Sentiment{
		Polarity:     round(clamp(polarity/float64(n), -1, 1)),
		Subjectivity: round(clamp(subjectivity/float64(n), 0, 1)),
	}
}

const clauseBreak = "\x00"

// tokenize lowercases text and splits it into words, emitting clauseBreak
// at sentence and clause punctuation.
func tokenize(text string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’':
			if r == '’' {
				r = '\''
			}
			cur.WriteRune(r)
		case strings.ContainsRune(".,;:!?\n", r):
			flush()
			out = append(out, clauseBreak)
		default:
			flush()
		}
	}
	flush()
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
