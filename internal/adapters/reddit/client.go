// Package reddit connects the research agent to Reddit and provides an
// in-memory stand-in for dry runs.
package reddit

import (
	"context"
	"fmt"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const (
	postPrefix    = "t3_"
	commentPrefix = "t1_"
)

// Credentials of a Reddit "script" application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// Client implements domain.CommunityReader and domain.CommunityWriter on
// the Reddit API. Ids crossing this boundary are fullnames (t3_, t1_).
type Client struct {
	api *reddit.Client
}

func NewClient(creds Credentials) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: reddit credentials are incomplete", domain.ErrConfig)
	}

	opts := []reddit.Opt{}
	if creds.UserAgent != "" {
		opts = append(opts, reddit.WithUserAgent(creds.UserAgent))
	}
	api, err := reddit.NewClient(reddit.Credentials{
		ID:       creds.ClientID,
		Secret:   creds.ClientSecret,
		Username: creds.Username,
		Password: creds.Password,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating reddit client: %v", domain.ErrConfig, err)
	}
	return &Client{api: api}, nil
}

// FetchCommunitySample returns the hot posts of a subreddit.
func (c *Client) FetchCommunitySample(ctx context.Context, subreddit string, limit int) ([]domain.CommunityPost, error) {
	posts, _, err := c.api.Subreddit.HotPosts(ctx, subreddit, &reddit.ListOptions{Limit: limit})
	if err != nil {
		return nil, classify("HotPosts", err)
	}

	out := make([]domain.CommunityPost, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		cp := domain.CommunityPost{
			ID:          p.FullID,
			Title:       p.Title,
			Body:        p.Body,
			Score:       p.Score,
			NumComments: p.NumberOfComments,
		}
		if p.Created != nil {
			cp.CreatedAt = p.Created.Time
		}
		out = append(out, cp)
	}
	return out, nil
}

// FetchComments returns the post status and every comment of the thread,
// flattened.
func (c *Client) FetchComments(ctx context.Context, postID string) (*domain.ThreadSnapshot, error) {
	pc, _, err := c.api.Post.Get(ctx, strings.TrimPrefix(postID, postPrefix))
	if err != nil {
		return nil, classify("Post.Get", err)
	}
	return snapshotFrom(pc), nil
}

func (c *Client) CreatePost(ctx context.Context, subreddit, title, body string) (domain.PublishedPost, error) {
	sub, _, err := c.api.Post.SubmitText(ctx, reddit.SubmitTextRequest{
		Subreddit: subreddit,
		Title:     title,
		Text:      body,
	})
	if err != nil {
		return domain.PublishedPost{}, classify("SubmitText", err)
	}
	return domain.PublishedPost{ID: fullname(postPrefix, sub.FullID, sub.ID), Permalink: sub.URL}, nil
}

func (c *Client) CreateReply(ctx context.Context, parentID, text string) (string, error) {
	com, _, err := c.api.Comment.Submit(ctx, parentID, text)
	if err != nil {
		return "", classify("Comment.Submit", err)
	}
	return fullname(commentPrefix, com.FullID, com.ID), nil
}

func fullname(prefix, full, short string) string {
	if full != "" {
		return full
	}
	return prefix + short
}

func snapshotFrom(pc *reddit.PostAndComments) *domain.ThreadSnapshot {
	snap := &domain.ThreadSnapshot{PostStatus: domain.PostUnknown}
	if pc == nil {
		return snap
	}
	if pc.Post != nil {
		snap.PostStatus = postStatus(pc.Post)
		snap.PostScore = pc.Post.Score
	}
	var walk func([]*reddit.Comment)
	walk = func(cs []*reddit.Comment) {
		for _, c := range cs {
			if c == nil {
				continue
			}
			dc := domain.Comment{
				ID:        fullname(commentPrefix, c.FullID, c.ID),
				ParentID:  c.ParentID,
				Author:    c.Author,
				Text:      c.Body,
				VoteCount: c.Score,
			}
			if c.Created != nil {
				dc.CreatedAt = c.Created.Time
			}
			snap.Comments = append(snap.Comments, dc)
			walk(c.Replies.Comments)
		}
	}
	walk(pc.Comments)
	return snap
}

func postStatus(p *reddit.Post) domain.PostStatus {
	switch strings.TrimSpace(p.Body) {
	case "[removed]", "[deleted]":
		return domain.PostRemoved
	}
	if p.Author == "[deleted]" {
		return domain.PostRemoved
	}
	return domain.PostActive
}
