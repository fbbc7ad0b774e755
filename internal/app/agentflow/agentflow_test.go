package agentflow_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/app/agentflow"
	"github.com/AmolDerickSoans/RedditReady/internal/app/retry"
	"github.com/AmolDerickSoans/RedditReady/internal/app/scoring"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

type scriptedLLM struct {
	outputs []string
	errs    []error
	reqs    []domain.GenerationRequest
}

func (s *scriptedLLM) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	i := len(s.reqs)
	s.reqs = append(s.reqs, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.outputs) {
		return s.outputs[i], nil
	}
	return "", nil
}

type blockingLLM struct{}

func (blockingLLM) Generate(ctx context.Context, _ domain.GenerationRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

var noWait = retry.Policy{MaxAttempts: 3}

func sample() []domain.CommunityPost {
	return []domain.CommunityPost{
		{ID: "p1", Title: "Which smartphone camera is the best right now?", Body: "I love the camera on mine.\n- night mode\n- zoom", Score: 120},
		{ID: "p2", Title: "Battery drain after update", Body: "Battery is terrible since the update. See https://example.com/thread", Score: 40},
		{ID: "p3", Title: "Is the smartphone market boring?", Body: "Every smartphone camera looks the same.", Score: 5},
	}
}

func TestProfileEmptySampleIsNeutralDefault(t *testing.T) {
	p := agentflow.NewStyleProfiler(scoring.NewLexiconScorer())

	got := p.Profile(nil, "")

	assert.Equal(t, "default", got.Source)
	assert.Zero(t, got.SampleSize)
	assert.NotEmpty(t, got.Render())
}

func TestProfileTemplateWins(t *testing.T) {
	p := agentflow.NewStyleProfiler(scoring.NewLexiconScorer())

	got := p.Profile(sample(), "  Short, snarky, lowercase.  ")

	assert.Equal(t, "template", got.Source)
	assert.Equal(t, "Short, snarky, lowercase.", got.Render())
}

func TestProfileDerivesHabits(t *testing.T) {
	p := agentflow.NewStyleProfiler(scoring.NewLexiconScorer())

	got := p.Profile(sample(), "")

	assert.Equal(t, "derived", got.Source)
	assert.Equal(t, 3, got.SampleSize)
	assert.Equal(t, "short", got.LengthClass)
	assert.InDelta(t, 0.7, got.QuestionTitleRatio, 0.01)
	assert.True(t, got.UsesLists)
	assert.True(t, got.UsesLinks)
	require.NotEmpty(t, got.CommonTerms)
	assert.Contains(t, got.CommonTerms, "smartphone")
	assert.Contains(t, got.CommonTerms, "camera")
	assert.Contains(t, got.Render(), "Frequent terms")
}

func TestProfileIsDeterministic(t *testing.T) {
	p := agentflow.NewStyleProfiler(scoring.NewLexiconScorer())

	assert.Equal(t, p.Profile(sample(), ""), p.Profile(sample(), ""))
}

func TestParsePost(t *testing.T) {
	cases := []struct {
		name, in, title, body string
	}{
		{"plain", "Best phone for photos?\n\nI am comparing a few.", "Best phone for photos?", "I am comparing a few."},
		{"heading", "## Title: Best phone?\nBody: Tell me.", "Best phone?", "Tell me."},
		{"quoted", "\"**Cameras in 2024**\"\n", "Cameras in 2024", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := agentflow.ParsePost(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.title, got.Title)
			assert.Equal(t, tc.body, got.Body)
		})
	}
}

func TestParsePostCapsTitle(t *testing.T) {
	got, err := agentflow.ParsePost(strings.Repeat("a", 400) + "\nbody")
	require.NoError(t, err)
	assert.Len(t, []rune(got.Title), 300)
}

func TestParsePostRejectsEmptyTitle(t *testing.T) {
	_, err := agentflow.ParsePost("#\nbody")
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestGeneratePostRetriesTransient(t *testing.T) {
	llm := &scriptedLLM{
		errs:    []error{fmt.Errorf("%w: 503", domain.ErrTransient)},
		outputs: []string{"", "Phones?\nWhat do you use?"},
	}
	g := agentflow.NewContentGenerator(llm, time.Second, agentflow.WithRetryPolicy(noWait))

	draft, err := g.GeneratePost(context.Background(), "smartphones", "gadgets", agentflow.StyleSummary{})

	require.NoError(t, err)
	assert.Equal(t, "Phones?", draft.Title)
	assert.Equal(t, "What do you use?", draft.Body)
	require.Len(t, llm.reqs, 2)
	assert.Equal(t, domain.TaskPost, llm.reqs[0].Task)
	assert.Contains(t, llm.reqs[0].User, "smartphones")
	assert.Contains(t, llm.reqs[0].User, "r/gadgets")
}

func TestGeneratePostEmptyOutputIsGenerationError(t *testing.T) {
	llm := &scriptedLLM{outputs: []string{"   "}}
	g := agentflow.NewContentGenerator(llm, time.Second, agentflow.WithRetryPolicy(noWait))

	_, err := g.GeneratePost(context.Background(), "topic", "sub", agentflow.StyleSummary{})

	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Len(t, llm.reqs, 1)
}

func TestGenerateReplySingleAttempt(t *testing.T) {
	llm := &scriptedLLM{errs: []error{fmt.Errorf("%w: 503", domain.ErrTransient)}, outputs: []string{"", "unused"}}
	g := agentflow.NewContentGenerator(llm, time.Second, agentflow.WithRetryPolicy(noWait))

	_, err := g.GenerateReply(context.Background(), agentflow.ThreadContext{CommentText: "hi"}, agentflow.StyleSummary{})

	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Len(t, llm.reqs, 1)
}

func TestGenerateReplyPromptCarriesThread(t *testing.T) {
	llm := &scriptedLLM{outputs: []string{"  Good point, which model?  "}}
	g := agentflow.NewContentGenerator(llm, time.Second)

	reply, err := g.GenerateReply(context.Background(), agentflow.ThreadContext{
		Subreddit:   "gadgets",
		PostTitle:   "Phones?",
		ParentText:  "parent says hi",
		CommentText: "the camera matters most",
	}, agentflow.StyleSummary{Template: "be brief"})

	require.NoError(t, err)
	assert.Equal(t, "Good point, which model?", reply)
	req := llm.reqs[0]
	assert.Equal(t, domain.TaskReply, req.Task)
	assert.Contains(t, req.User, "the camera matters most")
	assert.Contains(t, req.User, "parent says hi")
	assert.Contains(t, req.User, "be brief")
}

func TestGenerateHonoursTimeout(t *testing.T) {
	g := agentflow.NewContentGenerator(blockingLLM{}, 10*time.Millisecond, agentflow.WithRetryPolicy(retry.Once))

	_, err := g.GenerateReply(context.Background(), agentflow.ThreadContext{}, agentflow.StyleSummary{})

	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
