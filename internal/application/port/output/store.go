package output

import (
	"context"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

// QueueStore claims pending documents and persists results. ClaimNext returns
// (nil, nil) when no row is eligible.
type QueueStore interface {
	ClaimNext(ctx context.Context) (*entity.DocumentJob, error)
	SaveValidation(ctx context.Context, docID int64, doc *entity.Document, status entity.ValidationStatus) error
	SetStatus(ctx context.Context, docID int64, status entity.EntryStatus, note string) error
	Close()
}
