package history

import (
	"context"

	"codexplain/internal/server/models"
)

// Repository is the history store. Records are append-only and listed
// newest-first; the only removals are the bulk deletes below.
type Repository interface {
	Append(ctx context.Context, record *models.HistoryRecord) error
	ListByEmail(ctx context.Context, email string) ([]models.HistoryRecord, error)
	ListAll(ctx context.Context) ([]models.HistoryRecord, error)
	DeleteByEmail(ctx context.Context, email string) error
	DeleteAll(ctx context.Context) error
}
