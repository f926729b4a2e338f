package repository

import (
	"context"

	"github.com/fastygo/focusboard/domain"
)

// DocumentRepository is the remote store of the single planner document.
// Every successful Save advances the version by at least one; Version lets
// callers detect writes made by other clients without fetching the payload.
type DocumentRepository interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, doc *domain.Document) (int64, error)
	Version(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
