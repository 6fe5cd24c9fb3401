package services

import (
	"context"

	"codexplain/internal/server/config"
	"codexplain/internal/server/models"
	"codexplain/internal/server/repositories/history"
)

// HistoryService applies the deployment variant on top of the history store.
// In the required-auth variant every read and delete is partitioned by the
// caller's verified identity. In the guest variant there is no partitioning:
// listing returns the whole store and clearing wipes it. The two behaviors
// are kept as explicit modes and never merged.
type HistoryService struct {
	repo         history.Repository
	authRequired bool
}

func NewHistoryService(repo history.Repository, cfg *config.Config) *HistoryService {
	return &HistoryService{
		repo:         repo,
		authRequired: cfg.AuthMode == config.AuthModeRequired,
	}
}

// Record appends one interaction to the store.
func (s *HistoryService) Record(ctx context.Context, record *models.HistoryRecord) error {
	return s.repo.Append(ctx, record)
}

// ListFor returns the caller's records in stored (newest-first) order, or the
// entire collection when authentication is disabled.
func (s *HistoryService) ListFor(ctx context.Context, email string) ([]models.HistoryRecord, error) {
	if s.authRequired {
		return s.repo.ListByEmail(ctx, email)
	}
	return s.repo.ListAll(ctx)
}

// ClearFor removes all and only the caller's records, or empties the entire
// store when authentication is disabled. The blast radius difference between
// the two variants is intentional.
func (s *HistoryService) ClearFor(ctx context.Context, email string) error {
	if s.authRequired {
		return s.repo.DeleteByEmail(ctx, email)
	}
	return s.repo.DeleteAll(ctx)
}
