// Package storage selects the DataStore backend from configuration.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage/file"
	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage/firestore"
	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage/memory"
	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage/sqlstore"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// Options configure Open. Only the fields of the chosen backend are read.
type Options struct {
	Backend    string // memory, file, sqlite, postgres or firestore
	Dir        string
	DSN        string
	GCPProject string
}

// Open builds the DataStore for the backend. The returned closer releases
// its resources; it is never nil.
func Open(ctx context.Context, opts Options) (domain.DataStore, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "file":
		s, err := file.NewStore(opts.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case "memory":
		return memory.NewResearchStore(), nopCloser{}, nil
	case "sqlite", "postgres":
		s, err := sqlstore.NewGormStore(opts.Backend, opts.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return s, s, nil
	case "firestore":
		s, err := firestore.NewStore(ctx, opts.GCPProject)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrConfig, opts.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
