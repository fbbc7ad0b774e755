package reddit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// SandboxUser is the author name of everything the agent writes to a
// Sandbox.
const SandboxUser = "redditready"

// FetchHook runs before every FetchComments call on the sandbox, outside
// its lock, so it may add comments or change votes. A non-nil error is
// returned to the caller instead of the thread. call is 1-based per post.
type FetchHook func(postID string, call int) error

// ReplyHook runs before a reply is written. A non-nil error is returned to
// the caller and nothing is written.
type ReplyHook func(parentID string) error

type sandboxPost struct {
	subreddit string
	title     string
	body      string
	status    domain.PostStatus
	score     int
	comments  []domain.Comment
}

// Sandbox is an in-memory discussion platform. It backs dry runs and
// tests, and implements both domain.CommunityReader and
// domain.CommunityWriter.
type Sandbox struct {
	mu          sync.Mutex
	communities map[string][]domain.CommunityPost
	posts       map[string]*sandboxPost
	fetchCalls  map[string]int
	seq         int
	now         func() time.Time
	onFetch     FetchHook
	onReply     ReplyHook
}

type SandboxOption func(*Sandbox)

// WithSandboxClock sets the time source used for created items.
func WithSandboxClock(now func() time.Time) SandboxOption {
	return func(s *Sandbox) { s.now = now }
}

func WithFetchHook(h FetchHook) SandboxOption {
	return func(s *Sandbox) { s.onFetch = h }
}

func WithReplyHook(h ReplyHook) SandboxOption {
	return func(s *Sandbox) { s.onReply = h }
}

func NewSandbox(opts ...SandboxOption) *Sandbox {
	s := &Sandbox{
		communities: make(map[string][]domain.CommunityPost),
		posts:       make(map[string]*sandboxPost),
		fetchCalls:  make(map[string]int),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedCommunity adds posts to the hot listing of a subreddit.
func (s *Sandbox) SeedCommunity(subreddit string, posts ...domain.CommunityPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.communities[subreddit] = append(s.communities[subreddit], posts...)
}

// AddComment adds a community comment to a thread created through the
// sandbox and returns its id. Missing ids, parents and times are filled in.
func (s *Sandbox) AddComment(postID string, c domain.Comment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return "", fmt.Errorf("%w: post %s", domain.ErrNotFound, postID)
	}
	if c.ID == "" {
		c.ID = s.nextID("t1")
	}
	if c.ParentID == "" {
		c.ParentID = postID
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	p.comments = append(p.comments, c)
	return c.ID, nil
}

// SetVotes changes the vote count of a comment.
func (s *Sandbox) SetVotes(commentID string, votes int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		for i := range p.comments {
			if p.comments[i].ID == commentID {
				p.comments[i].VoteCount = votes
				return true
			}
		}
	}
	return false
}

// SetPostStatus simulates moderation of a thread.
func (s *Sandbox) SetPostStatus(postID string, status domain.PostStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.posts[postID]; ok {
		p.status = status
	}
}

// PostIDs lists the posts created through the sandbox, sorted by id.
func (s *Sandbox) PostIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AgentReplies returns the replies written through the sandbox.
func (s *Sandbox) AgentReplies(postID string) []domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil
	}
	var out []domain.Comment
	for _, c := range p.comments {
		if c.Author == SandboxUser {
			out = append(out, c)
		}
	}
	return out
}

func (s *Sandbox) FetchCommunitySample(ctx context.Context, subreddit string, limit int) ([]domain.CommunityPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]domain.CommunityPost(nil), s.communities[subreddit]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Sandbox) FetchComments(ctx context.Context, postID string) (*domain.ThreadSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.fetchCalls[postID]++
	call := s.fetchCalls[postID]
	hook := s.onFetch
	s.mu.Unlock()

	if hook != nil {
		if err := hook(postID, call); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("%w: post %s", domain.ErrNotFound, postID)
	}
	return &domain.ThreadSnapshot{
		PostStatus: p.status,
		PostScore:  p.score,
		Comments:   append([]domain.Comment(nil), p.comments...),
	}, nil
}

func (s *Sandbox) CreatePost(ctx context.Context, subreddit, title, body string) (domain.PublishedPost, error) {
	if err := ctx.Err(); err != nil {
		return domain.PublishedPost{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID("t3")
	s.posts[id] = &sandboxPost{
		subreddit: subreddit,
		title:     title,
		body:      body,
		status:    domain.PostActive,
		score:     1,
	}
	return domain.PublishedPost{
		ID:        id,
		Permalink: fmt.Sprintf("/r/%s/comments/%s/", subreddit, id),
	}, nil
}

func (s *Sandbox) CreateReply(ctx context.Context, parentID, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	hook := s.onReply
	s.mu.Unlock()
	if hook != nil {
		if err := hook(parentID); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	postID, ok := s.threadOf(parentID)
	if !ok {
		return "", fmt.Errorf("%w: parent %s does not exist", domain.ErrRejected, parentID)
	}
	p := s.posts[postID]
	if p.status == domain.PostRemoved {
		return "", fmt.Errorf("%w: thread %s is removed", domain.ErrRejected, postID)
	}

	id := s.nextID("t1")
	p.comments = append(p.comments, domain.Comment{
		ID:        id,
		ParentID:  parentID,
		Author:    SandboxUser,
		Text:      text,
		VoteCount: 1,
		CreatedAt: s.now(),
	})
	return id, nil
}

func (s *Sandbox) threadOf(id string) (string, bool) {
	if _, ok := s.posts[id]; ok {
		return id, true
	}
	for postID, p := range s.posts {
		for _, c := range p.comments {
			if c.ID == id {
				return postID, true
			}
		}
	}
	return "", false
}

func (s *Sandbox) nextID(kind string) string {
	s.seq++
	return fmt.Sprintf("%s_sb%d", kind, s.seq)
}
