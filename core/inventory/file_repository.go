package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// FileRepository persists TrackedFile records.
// Multi-record writes are split into batches that commit independently, in input order.
type FileRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewFileRepository creates a repository over db. A non-positive batchSize uses DefaultBatchSize.
func NewFileRepository(db *gorm.DB, batchSize int) *FileRepository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &FileRepository{db: db, batchSize: batchSize}
}

// Create inserts files.
func (r *FileRepository) Create(ctx context.Context, files []TrackedFile) error {
	for _, batch := range chunk(files, r.batchSize) {
		if err := r.db.WithContext(ctx).Create(&batch).Error; err != nil {
			return fmt.Errorf("%w: insert %d files: %w", ErrStoreWriteFailed, len(batch), err)
		}
	}
	return nil
}

// List returns every record ordered by path.
func (r *FileRepository) List(ctx context.Context) ([]TrackedFile, error) {
	var files []TrackedFile
	if err := r.db.WithContext(ctx).Order("ABSOLUTE_PATH").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// ListByResult returns the records whose last check produced result.
func (r *FileRepository) ListByResult(ctx context.Context, result CheckResult) ([]TrackedFile, error) {
	var files []TrackedFile
	err := r.db.WithContext(ctx).
		Where("LAST_CHECK_RESULT = ?", string(result)).
		Order("ABSOLUTE_PATH").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s files: %w", result, err)
	}
	return files, nil
}

// FindByPath returns the record for a root-relative path, or ErrNotFound.
func (r *FileRepository) FindByPath(ctx context.Context, path string) (*TrackedFile, error) {
	var file TrackedFile
	err := r.db.WithContext(ctx).Where("ABSOLUTE_PATH = ?", path).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find file %s: %w", path, err)
	}
	return &file, nil
}

// CountByResult returns the number of records per check result.
func (r *FileRepository) CountByResult(ctx context.Context) (map[CheckResult]int64, error) {
	var rows []struct {
		Result string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&TrackedFile{}).
		Select("LAST_CHECK_RESULT AS result, COUNT(*) AS total").
		Group("LAST_CHECK_RESULT").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	counts := make(map[CheckResult]int64, len(rows))
	for _, row := range rows {
		counts[CheckResult(row.Result)] = row.Total
	}
	return counts, nil
}

// LatestCheckDate returns the most recent LAST_CHECK_DATE, or "" for an empty inventory.
func (r *FileRepository) LatestCheckDate(ctx context.Context) (string, error) {
	var latest string
	err := r.db.WithContext(ctx).
		Model(&TrackedFile{}).
		Select("COALESCE(MAX(LAST_CHECK_DATE), '')").
		Scan(&latest).Error
	if err != nil {
		return "", fmt.Errorf("failed to read latest check date: %w", err)
	}
	return latest, nil
}

// Update rewrites every mutable column of file.
func (r *FileRepository) Update(ctx context.Context, file TrackedFile) error {
	err := r.db.WithContext(ctx).
		Model(&TrackedFile{}).
		Where("ID = ?", file.ID).
		Updates(map[string]any{
			"NAME":                   file.Name,
			"ABSOLUTE_PATH":          file.Path,
			"LAST_MODIFICATION_DATE": file.LastModificationDate,
			"LAST_CHECK_DATE":        file.LastCheckDate,
			"HASH_SUM_VALUE":         file.HashValue,
			"HASH_SUM_ALGORITHM":     file.HashAlgorithm,
			"SIZE":                   file.Size,
			"LAST_CHECK_RESULT":      string(file.LastCheckResult),
		}).Error
	if err != nil {
		return fmt.Errorf("%w: update %s: %w", ErrStoreWriteFailed, file.Path, err)
	}
	return nil
}

// UpdateLastCheckDate stamps date on files and marks them OK.
func (r *FileRepository) UpdateLastCheckDate(ctx context.Context, date string, files []TrackedFile) error {
	for _, batch := range chunk(fileIDs(files), r.batchSize) {
		err := r.db.WithContext(ctx).
			Model(&TrackedFile{}).
			Where("ID IN ?", batch).
			Updates(map[string]any{
				"LAST_CHECK_DATE":   date,
				"LAST_CHECK_RESULT": string(ResultOK),
			}).Error
		if err != nil {
			return fmt.Errorf("%w: stamp %d files: %w", ErrStoreWriteFailed, len(batch), err)
		}
	}
	return nil
}

// Remove deletes files by ID.
func (r *FileRepository) Remove(ctx context.Context, files []TrackedFile) error {
	for _, batch := range chunk(fileIDs(files), r.batchSize) {
		if err := r.db.WithContext(ctx).Where("ID IN ?", batch).Delete(&TrackedFile{}).Error; err != nil {
			return fmt.Errorf("%w: delete %d files: %w", ErrStoreWriteFailed, len(batch), err)
		}
	}
	return nil
}
