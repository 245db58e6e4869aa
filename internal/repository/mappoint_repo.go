package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MapPointRepository handles map point operations.
type MapPointRepository struct {
	db *gorm.DB
}

// NewMapPointRepository creates a new MapPointRepository.
func NewMapPointRepository(db *gorm.DB) *MapPointRepository {
	return &MapPointRepository{db: db}
}

// ListAll retrieves every map point.
func (r *MapPointRepository) ListAll(ctx context.Context) ([]domain.MapPoint, error) {
	var points []domain.MapPoint
	if err := r.db.WithContext(ctx).Find(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to list map points: %w", err)
	}
	return points, nil
}

// AddVisit records one visit for a country/province pair: an existing point
// gets its count bumped atomically, otherwise a new point is created with
// the given coordinates and count 1.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - country, province: place identifiers (unique together).
//   - lat, lng: coordinates used only when the point does not exist yet.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *MapPointRepository) AddVisit(ctx context.Context, country, province string, lat, lng float64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.MapPoint{}).
		Where("country = ? AND province = ?", country, province).
		UpdateColumn("count", gorm.Expr("count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to bump map point: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	point := &domain.MapPoint{
		ID:       uuid.New().String(),
		Country:  country,
		Province: province,
		Lat:      lat,
		Lng:      lng,
		Count:    1,
	}
	err := r.db.WithContext(ctx).Create(point).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race with a concurrent insert; bump instead.
		return r.db.WithContext(ctx).
			Model(&domain.MapPoint{}).
			Where("country = ? AND province = ?", country, province).
			UpdateColumn("count", gorm.Expr("count + ?", 1)).Error
	}
	return err
}
