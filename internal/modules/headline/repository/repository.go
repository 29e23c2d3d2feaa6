package repository

import (
	"context"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
)

// Repository mirrors the latest highlights snapshot so it survives restarts.
// Only the most recent snapshot is kept; there is no history.
type Repository interface {
	// Load returns errors.ErrSnapshotNotFound when nothing was saved yet.
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	Close() error
}
