package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"codeberg.org/miketth/kbddbar/pkg/layoutstore/sqlite/migrations"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// LayoutStore records every layout change as a row in a sqlite database.
type LayoutStore struct {
	db      *sql.DB
	querier *Queries
}

func NewLayoutStore(filename string, log *zap.SugaredLogger) (*LayoutStore, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &LayoutStore{
		db:      db,
		querier: New(db),
	}, nil
}

func (s *LayoutStore) Close() error {
	return s.db.Close()
}

func (s *LayoutStore) LayoutChanged(change kbdd.LayoutChange) error {
	if err := s.querier.InsertLayoutChange(context.Background(), InsertLayoutChangeParams{
		ChangedAt:   change.At.UTC(),
		LayoutIndex: int64(change.Index),
		Layout:      change.Layout,
	}); err != nil {
		return fmt.Errorf("sqlite insert: %w", err)
	}

	return nil
}

func (s *LayoutStore) LayoutCounts() (map[string]int, error) {
	rows, err := s.querier.CountLayoutChanges(context.Background())
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Layout] = int(row.Changes)
	}

	return counts, nil
}

// Last returns the most recent change, if any was ever recorded.
func (s *LayoutStore) Last() (kbdd.LayoutChange, bool, error) {
	row, err := s.querier.LatestLayoutChange(context.Background())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return kbdd.LayoutChange{}, false, nil
	case err != nil:
		return kbdd.LayoutChange{}, false, fmt.Errorf("sqlite select: %w", err)
	}

	return kbdd.LayoutChange{
		At:     row.ChangedAt,
		Index:  int(row.LayoutIndex),
		Layout: row.Layout,
	}, true, nil
}
