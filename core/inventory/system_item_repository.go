package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemItemRepository persists SystemItem key/value pairs.
type SystemItemRepository struct {
	db *gorm.DB
}

// NewSystemItemRepository creates a repository over db.
func NewSystemItemRepository(db *gorm.DB) *SystemItemRepository {
	return &SystemItemRepository{db: db}
}

// Create inserts item.
func (r *SystemItemRepository) Create(ctx context.Context, item SystemItem) error {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return fmt.Errorf("%w: insert system item %s: %w", ErrStoreWriteFailed, item.Key, err)
	}
	return nil
}

// Read returns the item stored under key, or ErrNotFound.
func (r *SystemItemRepository) Read(ctx context.Context, key string) (*SystemItem, error) {
	var item SystemItem
	err := r.db.WithContext(ctx).Where(&SystemItem{Key: key}).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read system item %s: %w", key, err)
	}
	return &item, nil
}

// List returns every item ordered by key.
func (r *SystemItemRepository) List(ctx context.Context) ([]SystemItem, error) {
	var items []SystemItem
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "KEY"}}).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list system items: %w", err)
	}
	return items, nil
}

// Update replaces the value stored under item.Key.
func (r *SystemItemRepository) Update(ctx context.Context, item SystemItem) error {
	err := r.db.WithContext(ctx).
		Model(&SystemItem{}).
		Where(&SystemItem{Key: item.Key}).
		Update("VALUE", item.Value).Error
	if err != nil {
		return fmt.Errorf("%w: update system item %s: %w", ErrStoreWriteFailed, item.Key, err)
	}
	return nil
}

// Remove deletes the item stored under key.
func (r *SystemItemRepository) Remove(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where(&SystemItem{Key: key}).Delete(&SystemItem{}).Error; err != nil {
		return fmt.Errorf("%w: delete system item %s: %w", ErrStoreWriteFailed, key, err)
	}
	return nil
}

// Ensure returns the value under key, creating it with defaultValue when absent.
func (r *SystemItemRepository) Ensure(ctx context.Context, key, defaultValue string) (string, error) {
	item, err := r.Read(ctx, key)
	if err == nil {
		return item.Value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	if err := r.Create(ctx, SystemItem{Key: key, Value: defaultValue}); err != nil {
		return "", err
	}
	return defaultValue, nil
}
