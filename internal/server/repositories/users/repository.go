package users

import (
	"context"

	"codexplain/internal/server/models"
)

// Repository is the credential store. Email matching is case-sensitive and
// exact; records are never updated or deleted once created.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}
