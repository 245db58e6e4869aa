package repository

import (
	"context"
	"fmt"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"gorm.io/gorm"
)

// RelayRepository handles relay wall message operations.
type RelayRepository struct {
	db *gorm.DB
}

// NewRelayRepository creates a new RelayRepository.
func NewRelayRepository(db *gorm.DB) *RelayRepository {
	return &RelayRepository{db: db}
}

// Create inserts a new relay message.
func (r *RelayRepository) Create(ctx context.Context, msg *domain.RelayMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListAll retrieves all relay messages, newest first.
func (r *RelayRepository) ListAll(ctx context.Context) ([]domain.RelayMessage, error) {
	var msgs []domain.RelayMessage
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list relay messages: %w", err)
	}
	return msgs, nil
}
