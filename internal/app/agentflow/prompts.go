package agentflow

import (
	"strings"
	"text/template"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const baseSystemPrompt = `
You are a community researcher who writes on Reddit as a regular member of the community.

Your role:
- You start discussions that invite people to share real experiences and opinions.
- You follow the community's own style: its tone, its length, its formatting habits.
- You never reveal that you are automated and you never ask for votes.

General style guidelines:
- Write in plain, everyday language.
- Be specific; one clear question beats five vague ones.
- No hashtags, no emojis unless the community uses them.
`

const postInstructions = `
Task: write a new post.

Format:
- First line: the post title only, no prefix, no quotes, at most 300 characters.
- Then a blank line.
- Then the body of the post.

Focus:
- The post must encourage meaningful discussion and responses about the research topic.
- End the body with an open question to the community.
`

const replyInstructions = `
Task: reply to a comment in your own thread.

Focus:
- Answer the comment directly and add something of value: a follow-up question, a clarification, or a related detail.
- Keep it short: one to three sentences.
- Output only the reply text.
`

var postTemplate = template.Must(template.New("post").Parse(`Community: r/{{.Subreddit}}

Style guide:
{{.Style}}

Research topic:
{{.Prompt}}
`))

var replyTemplate = template.Must(template.New("reply").Parse(`Your post in r/{{.Subreddit}}:
Title: {{.PostTitle}}
{{.PostBody}}
{{- if .ParentText}}

Earlier in the thread:
{{.ParentText}}
{{- end}}

Comment to answer:
{{.CommentText}}

Style guide:
{{.Style}}
`))

type postPromptData struct {
	Subreddit string
	Style     string
	Prompt    string
}

// BuildPostPrompt builds the request that asks for a new post about the
// research topic in the given community style.
func BuildPostPrompt(subreddit, topic string, style StyleSummary) (domain.GenerationRequest, error) {
	var user strings.Builder
	err := postTemplate.Execute(&user, postPromptData{
		Subreddit: subreddit,
		Style:     style.Render(),
		Prompt:    strings.TrimSpace(topic),
	})
	if err != nil {
		return domain.GenerationRequest{}, err
	}
	return domain.GenerationRequest{
		Task:   domain.TaskPost,
		System: baseSystemPrompt + postInstructions,
		User:   user.String(),
	}, nil
}

type replyPromptData struct {
	ThreadContext
	Style string
}

// BuildReplyPrompt builds the request that asks for a reply to one comment.
func BuildReplyPrompt(tc ThreadContext, style StyleSummary) (domain.GenerationRequest, error) {
	var user strings.Builder
	if err := replyTemplate.Execute(&user, replyPromptData{ThreadContext: tc, Style: style.Render()}); err != nil {
		return domain.GenerationRequest{}, err
	}
	return domain.GenerationRequest{
		Task:   domain.TaskReply,
		System: baseSystemPrompt + replyInstructions,
		User:   user.String(),
	}, nil
}
