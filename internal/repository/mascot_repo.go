package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a record lookup or mutation matches nothing.
var ErrNotFound = errors.New("record not found")

// MascotRepository handles mascot record operations.
type MascotRepository struct {
	db *gorm.DB
}

// NewMascotRepository creates a new MascotRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *MascotRepository: repository instance bound to db.
func NewMascotRepository(db *gorm.DB) *MascotRepository {
	return &MascotRepository{db: db}
}

// Create inserts a new mascot record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mascot: record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *MascotRepository) Create(ctx context.Context, mascot *domain.Mascot) error {
	return r.db.WithContext(ctx).Create(mascot).Error
}

// LatestByDevice retrieves the most recently created mascot for a device.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - deviceID: owning device identifier.
// Returns:
//   - *domain.Mascot: latest record, or nil when the device has none. The
//     nil result is the "no record yet" sentinel, not an error.
//   - error: non-nil only on a storage failure.
func (r *MascotRepository) LatestByDevice(ctx context.Context, deviceID string) (*domain.Mascot, error) {
	var mascot domain.Mascot
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at DESC").
		First(&mascot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest mascot: %w", err)
	}
	return &mascot, nil
}

// ListByPopularity retrieves all mascots ordered by like count descending.
// Ties keep insertion order (created_at, then id) so repeated listings are
// stable.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Mascot: all records, most liked first.
//   - error: non-nil if the query fails.
func (r *MascotRepository) ListByPopularity(ctx context.Context) ([]domain.Mascot, error) {
	var mascots []domain.Mascot
	if err := r.db.WithContext(ctx).
		Order("likes DESC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&mascots).Error; err != nil {
		return nil, fmt.Errorf("failed to list mascots: %w", err)
	}
	return mascots, nil
}

// IncrementLikes atomically adds one like to a mascot and returns the new
// count. The increment runs as a single UPDATE ... RETURNING at the storage
// layer, so concurrent likes on the same record cannot lose updates and the
// returned count is exactly the value this increment produced.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: mascot ID.
// Returns:
//   - int64: like count after the increment.
//   - error: ErrNotFound if the id matches nothing, otherwise storage error.
func (r *MascotRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	var mascot domain.Mascot
	res := r.db.WithContext(ctx).
		Model(&mascot).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "likes"}}}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment likes: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return mascot.Likes, nil
}
