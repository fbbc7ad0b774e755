// Package file stores one JSON record per research session on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const (
	filePrefix = "research_data_"
	fileSuffix = ".json"
)

// Store keeps research_data_<id>.json files under a directory. Each save
// writes a temp file and renames it over the record, so readers see either
// the previous or the new snapshot.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrPersistence, err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file of a research record.
func (s *Store) Path(id domain.ResearchID) string {
	return filepath.Join(s.dir, filePrefix+string(id)+fileSuffix)
}

func (s *Store) SaveSnapshot(_ context.Context, state *domain.SessionState) error {
	if state == nil || state.ResearchID == "" {
		return fmt.Errorf("%w: snapshot without research id", domain.ErrPersistence)
	}
	if strings.ContainsAny(string(state.ResearchID), `/\`) {
		return fmt.Errorf("%w: invalid research id %q", domain.ErrPersistence, state.ResearchID)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrPersistence, state.ResearchID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, state.ResearchID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, state.ResearchID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, state.ResearchID, err)
	}
	if err := os.Rename(tmpName, s.Path(state.ResearchID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, state.ResearchID, err)
	}
	return nil
}

func (s *Store) LoadSnapshot(_ context.Context, id domain.ResearchID) (*domain.SessionState, error) {
	return s.load(s.Path(id), id)
}

func (s *Store) load(path string, id domain.ResearchID) (*domain.SessionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: research %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPersistence, id, err)
	}

	var st domain.SessionState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrPersistence, id, err)
	}
	return &st, nil
}

// ListSnapshots reads every record in the directory, most recently
// updated first. If limit <= 0, returns all.
func (s *Store) ListSnapshots(_ context.Context, limit int) ([]*domain.SessionState, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrPersistence, s.dir, err)
	}

	var out []*domain.SessionState
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := domain.ResearchID(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		st, err := s.load(filepath.Join(s.dir, name), id)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ResearchID < out[j].ResearchID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
