package agentflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/app/retry"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

const maxTitleRunes = 300

// PostDraft is a generated post before it is published.
type PostDraft struct {
	Title string
	Body  string
}

// ThreadContext is what the generator sees when drafting a reply.
type ThreadContext struct {
	Subreddit   string
	PostTitle   string
	PostBody    string
	ParentText  string
	CommentText string
}

// ContentGenerator turns style summaries and thread context into drafts.
type ContentGenerator struct {
	llm     domain.LLMClient
	timeout time.Duration
	policy  retry.Policy
	sleep   retry.SleepFunc
}

type GeneratorOption func(*ContentGenerator)

// WithRetryPolicy sets the retry policy of post generation. Replies are
// always attempted once.
func WithRetryPolicy(p retry.Policy) GeneratorOption {
	return func(g *ContentGenerator) { g.policy = p }
}

// WithRetrySleep sets how post generation waits between attempts.
func WithRetrySleep(sleep retry.SleepFunc) GeneratorOption {
	return func(g *ContentGenerator) { g.sleep = sleep }
}

func NewContentGenerator(llm domain.LLMClient, timeout time.Duration, opts ...GeneratorOption) *ContentGenerator {
	g := &ContentGenerator{llm: llm, timeout: timeout, policy: retry.DefaultPolicy(), sleep: retry.TimerSleep}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratePost drafts the research post. The first line of the model
// output becomes the title, the rest the body.
func (g *ContentGenerator) GeneratePost(ctx context.Context, topic, subreddit string, style StyleSummary) (PostDraft, error) {
	req, err := BuildPostPrompt(subreddit, topic, style)
	if err != nil {
		return PostDraft{}, fmt.Errorf("%w: build prompt: %w", domain.ErrGeneration, err)
	}

	log := observability.LoggerFromContext(ctx)

	var draft PostDraft
	err = retry.DoWithSleep(ctx, g.policy, g.sleep, func(ctx context.Context) error {
		text, err := g.generate(ctx, req)
		if err != nil {
			log.Warn("post generation attempt failed", "error", err)
			return err
		}
		draft, err = ParsePost(text)
		return err
	})
	if err != nil {
		return PostDraft{}, err
	}
	return draft, nil
}

// GenerateReply drafts a reply to one comment.
func (g *ContentGenerator) GenerateReply(ctx context.Context, tc ThreadContext, style StyleSummary) (string, error) {
	req, err := BuildReplyPrompt(tc, style)
	if err != nil {
		return "", fmt.Errorf("%w: build prompt: %w", domain.ErrGeneration, err)
	}
	return g.generate(ctx, req)
}

func (g *ContentGenerator) generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.llm.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %w", domain.ErrGeneration, req.Task, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s: empty output", domain.ErrGeneration, req.Task)
	}
	return text, nil
}

// ParsePost splits raw model output into a title and a body. Markdown
// heading marks and a leading "Title:" label are dropped from the title.
func ParsePost(text string) (PostDraft, error) {
	text = strings.TrimSpace(text)
	titleLine, body, _ := strings.Cut(text, "\n")

	title := strings.TrimSpace(strings.TrimLeft(titleLine, "#"))
	if len(title) >= 6 && strings.EqualFold(title[:6], "title:") {
		title = strings.TrimSpace(title[6:])
	}
	title = strings.Trim(title, `"*`)
	title = strings.TrimSpace(title)
	if title == "" {
		return PostDraft{}, fmt.Errorf("%w: post: empty title", domain.ErrGeneration)
	}
	if r := []rune(title); len(r) > maxTitleRunes {
		title = strings.TrimSpace(string(r[:maxTitleRunes]))
	}

	body = strings.TrimSpace(body)
	if len(body) >= 5 && strings.EqualFold(body[:5], "body:") {
		body = strings.TrimSpace(body[5:])
	}
	return PostDraft{Title: title, Body: body}, nil
}
