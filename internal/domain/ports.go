package domain

import (
	"context"
	"time"
)

// LLMClient defines how the core application interacts with a text-generation service.
type LLMClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationRequest is one prompt for the text generator.
type GenerationRequest struct {
	Task   GenerationTask
	System string
	User   string
}

// CommunityPost is a recent post of the target community, used to derive
// its style.
type CommunityPost struct {
	ID          string
	Title       string
	Body        string
	Score       int
	NumComments int
	CreatedAt   time.Time
}

// Comment is a comment as returned by the platform on one poll.
type Comment struct {
	ID        string
	ParentID  string
	Author    string
	Text      string
	VoteCount int
	CreatedAt time.Time
}

// ThreadSnapshot is the state of the post and its comments at fetch time.
type ThreadSnapshot struct {
	PostStatus PostStatus
	PostScore  int
	Comments   []Comment
}

// PublishedPost identifies a post after a successful write.
type PublishedPost struct {
	ID        string
	Permalink string
}

// CommunityReader is the read side of the discussion platform.
type CommunityReader interface {
	FetchCommunitySample(ctx context.Context, subreddit string, limit int) ([]CommunityPost, error)
	FetchComments(ctx context.Context, postID string) (*ThreadSnapshot, error)
}

// CommunityWriter is the write side of the discussion platform.
type CommunityWriter interface {
	CreatePost(ctx context.Context, subreddit, title, body string) (PublishedPost, error)
	CreateReply(ctx context.Context, parentID, text string) (string, error)
}

// DataStore persists research snapshots. SaveSnapshot must be atomic per
// snapshot: a concurrent reader sees the previous or the new record, never a
// mix.
type DataStore interface {
	SaveSnapshot(ctx context.Context, state *SessionState) error
	LoadSnapshot(ctx context.Context, id ResearchID) (*SessionState, error)
	ListSnapshots(ctx context.Context, limit int) ([]*SessionState, error)
}
