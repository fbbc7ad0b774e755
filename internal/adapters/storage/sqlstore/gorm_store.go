// Package sqlstore persists research snapshots with GORM on sqlite or
// postgres.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(driver, dsn string) (*GormStore, error) {
	gormDB, err := OpenGorm(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open gorm store: %w", err)
	}

	store := &GormStore{db: gormDB}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migrate gorm store: %w", err)
	}
	return store, nil
}

func (s *GormStore) migrate() error {
	return s.db.AutoMigrate(&researchRow{})
}

// SaveSnapshot upserts the single row of the session, so every snapshot
// replaces the previous one in one statement.
func (s *GormStore) SaveSnapshot(ctx context.Context, state *domain.SessionState) error {
	if state == nil || state.ResearchID == "" {
		return fmt.Errorf("%w: snapshot without research id", domain.ErrPersistence)
	}
	row, err := rowFromState(state)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrPersistence, state.ResearchID, err)
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "research_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", domain.ErrPersistence, state.ResearchID, err)
	}
	return nil
}

func (s *GormStore) LoadSnapshot(ctx context.Context, id domain.ResearchID) (*domain.SessionState, error) {
	var row researchRow
	err := s.db.WithContext(ctx).
		Where("research_id = ?", string(id)).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: research %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrPersistence, id, err)
	}

	st, err := row.toState()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrPersistence, id, err)
	}
	return st, nil
}

// ListSnapshots returns the most recently updated sessions first. If
// limit <= 0, returns all.
func (s *GormStore) ListSnapshots(ctx context.Context, limit int) ([]*domain.SessionState, error) {
	q := s.db.WithContext(ctx).Order("updated_at DESC").Order("research_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []researchRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list: %v", domain.ErrPersistence, err)
	}

	out := make([]*domain.SessionState, 0, len(rows))
	for _, row := range rows {
		st, err := row.toState()
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrPersistence, row.ResearchID, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
