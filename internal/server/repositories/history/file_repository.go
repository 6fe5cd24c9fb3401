package history

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"codexplain/internal/filex"
	"codexplain/internal/logging"
	"codexplain/internal/server/models"
)

// FileRepository persists history as a single JSON array rewritten on every
// mutation, newest record first. A missing file is an empty collection;
// unreadable content is logged and degrades to an empty collection. The mutex
// serializes writers within this process only.
type FileRepository struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
}

func NewFileRepository(path string, logger logging.Logger) *FileRepository {
	return &FileRepository{path: path, logger: logger.With("module", "history_file_repo")}
}

func (r *FileRepository) load(ctx context.Context) []models.HistoryRecord {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error(ctx, "reading history file", "path", r.path, "error", err.Error())
		}
		return []models.HistoryRecord{}
	}

	var records []models.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Error(ctx, "parsing history file", "path", r.path, "error", err.Error())
		return []models.HistoryRecord{}
	}
	return records
}

func (r *FileRepository) save(records []models.HistoryRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := filex.EnsureParentDir(r.path); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

// Append inserts the record at the front of the collection, preserving the
// newest-first ordering of the stored array.
func (r *FileRepository) Append(ctx context.Context, record *models.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load(ctx)
	records = append([]models.HistoryRecord{*record}, records...)
	return r.save(records)
}

func (r *FileRepository) ListByEmail(ctx context.Context, email string) ([]models.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := []models.HistoryRecord{}
	for _, rec := range r.load(ctx) {
		if rec.Email == email {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func (r *FileRepository) ListAll(ctx context.Context) ([]models.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx), nil
}

func (r *FileRepository) DeleteByEmail(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load(ctx)
	kept := records[:0]
	for _, rec := range records {
		if rec.Email != email {
			kept = append(kept, rec)
		}
	}
	return r.save(kept)
}

func (r *FileRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save([]models.HistoryRecord{})
}
