package users

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"codexplain/internal/common"
	"codexplain/internal/filex"
	"codexplain/internal/logging"
	"codexplain/internal/server/models"
)

// FileRepository persists users as a single JSON array rewritten on every
// mutation. A missing file is treated as an empty collection; unreadable or
// corrupt content is logged and degrades to an empty collection instead of
// failing the request. The mutex serializes writers within this process;
// concurrent processes sharing the file keep last-write-wins semantics.
type FileRepository struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
}

func NewFileRepository(path string, logger logging.Logger) *FileRepository {
	return &FileRepository{path: path, logger: logger.With("module", "users_file_repo")}
}

func (r *FileRepository) load(ctx context.Context) []models.User {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error(ctx, "reading users file", "path", r.path, "error", err.Error())
		}
		return []models.User{}
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		r.logger.Error(ctx, "parsing users file", "path", r.path, "error", err.Error())
		return []models.User{}
	}
	return users
}

func (r *FileRepository) save(users []models.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	if err := filex.EnsureParentDir(r.path); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *FileRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.load(ctx)
	for _, u := range users {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}

	users = append(users, *user)
	if err := r.save(users); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *FileRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.load(ctx) {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *FileRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.load(ctx)), nil
}
