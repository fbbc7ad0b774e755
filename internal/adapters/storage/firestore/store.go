package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const collection = "research"

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: projectID is required for Firestore store", domain.ErrConfig)
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) researchCol() *firestore.CollectionRef {
	return s.client.Collection(collection)
}

func (s *Store) researchDoc(id domain.ResearchID) *firestore.DocumentRef {
	return s.researchCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

// researchDoc keeps the full state as JSON next to a few queryable fields.
type researchDoc struct {
	Subreddit    string    `firestore:"subreddit"`
	Phase        string    `firestore:"phase"`
	AgentReplies int       `firestore:"agent_replies"`
	State        string    `firestore:"state_json"`
	StartedAt    time.Time `firestore:"started_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func docFromState(st *domain.SessionState) (researchDoc, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return researchDoc{}, err
	}
	return researchDoc{
		Subreddit:    st.Subreddit,
		Phase:        string(st.Phase),
		AgentReplies: st.AgentReplyCount(),
		State:        string(data),
		StartedAt:    st.StartedAt,
		UpdatedAt:    st.UpdatedAt,
	}, nil
}

func (d researchDoc) toState() (*domain.SessionState, error) {
	var st domain.SessionState
	if err := json.Unmarshal([]byte(d.State), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ─────────────────────────────────────────
// DataStore implementation
// ─────────────────────────────────────────

// SaveSnapshot overwrites the session document. A single Set is atomic.
func (s *Store) SaveSnapshot(ctx context.Context, state *domain.SessionState) error {
	if state == nil || state.ResearchID == "" {
		return fmt.Errorf("%w: snapshot without research id", domain.ErrPersistence)
	}
	doc, err := docFromState(state)
	if err != nil {
		return fmt.Errorf("%w: firestore SaveSnapshot encode: %v", domain.ErrPersistence, err)
	}

	if _, err := s.researchDoc(state.ResearchID).Set(ctx, doc); err != nil {
		return wrap("SaveSnapshot", err)
	}
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, id domain.ResearchID) (*domain.SessionState, error) {
	snap, err := s.researchDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: research %s", domain.ErrNotFound, id)
		}
		return nil, wrap("LoadSnapshot", err)
	}

	var doc researchDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("%w: firestore LoadSnapshot decode: %v", domain.ErrPersistence, err)
	}
	st, err := doc.toState()
	if err != nil {
		return nil, fmt.Errorf("%w: firestore LoadSnapshot decode: %v", domain.ErrPersistence, err)
	}
	return st, nil
}

func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]*domain.SessionState, error) {
	q := s.researchCol().OrderBy("updated_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.SessionState
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, wrap("ListSnapshots", err)
		}

		var doc researchDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode researchDoc: %v", domain.ErrPersistence, err)
		}
		st, err := doc.toState()
		if err != nil {
			return nil, fmt.Errorf("%w: decode researchDoc %s: %v", domain.ErrPersistence, snap.Ref.ID, err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// wrap classifies gRPC failures: unavailable backends are worth a retry,
// everything else is a persistence error.
func wrap(op string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.ResourceExhausted:
		return fmt.Errorf("%w: %w: firestore %s: %v", domain.ErrPersistence, domain.ErrTransient, op, err)
	default:
		return fmt.Errorf("%w: firestore %s: %v", domain.ErrPersistence, op, err)
	}
}
