package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"gorm.io/gorm"
)

// LetterRepository handles letter operations. Letters are always scoped to
// the device that created them.
type LetterRepository struct {
	db *gorm.DB
}

// NewLetterRepository creates a new LetterRepository.
func NewLetterRepository(db *gorm.DB) *LetterRepository {
	return &LetterRepository{db: db}
}

// Create inserts a new letter.
func (r *LetterRepository) Create(ctx context.Context, letter *domain.Letter) error {
	return r.db.WithContext(ctx).Create(letter).Error
}

// ListByDevice retrieves a device's letters, newest first.
func (r *LetterRepository) ListByDevice(ctx context.Context, deviceID string) ([]domain.Letter, error) {
	var letters []domain.Letter
	if err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at DESC").
		Find(&letters).Error; err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	return letters, nil
}

// GetByID retrieves a letter by its ID.
// Returns ErrNotFound when the id matches nothing.
func (r *LetterRepository) GetByID(ctx context.Context, id string) (*domain.Letter, error) {
	var letter domain.Letter
	err := r.db.WithContext(ctx).First(&letter, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get letter: %w", err)
	}
	return &letter, nil
}
