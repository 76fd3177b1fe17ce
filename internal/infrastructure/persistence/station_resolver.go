package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
)

// StationAssignment maps a product to the kitchen station that prepares it.
// A row with a branch ID overrides the branch-less default for that product.
type StationAssignment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_station_product_branch,priority:1"`
	BranchID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_station_product_branch,priority:2"`
	StationID uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (StationAssignment) TableName() string {
	return "station_assignments"
}

// GormStationResolver implements ordering.StationResolver against the
// station assignment table
type GormStationResolver struct {
	db *gorm.DB
}

// NewGormStationResolver creates a new GORM-based station resolver
func NewGormStationResolver(db *gorm.DB) *GormStationResolver {
	return &GormStationResolver{db: db}
}

// Resolve returns the station responsible for preparing a product at a
// branch. The branch-specific assignment wins over the product default;
// a product with neither resolves to shared.ErrNotFound.
func (r *GormStationResolver) Resolve(ctx context.Context, productID, branchID uuid.UUID) (uuid.UUID, error) {
	var assignment StationAssignment
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND branch_id = ?", productID, branchID).
		First(&assignment).Error
	if err == nil {
		return assignment.StationID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	err = r.db.WithContext(ctx).
		Where("product_id = ? AND branch_id IS NULL", productID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, shared.NewDomainError("STATION_NOT_FOUND", "No kitchen station is assigned to this product")
		}
		return uuid.Nil, err
	}
	return assignment.StationID, nil
}

// Assign creates or replaces a station assignment
func (r *GormStationResolver) Assign(ctx context.Context, productID uuid.UUID, branchID *uuid.UUID, stationID uuid.UUID) error {
	var existing StationAssignment
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	} else {
		query = query.Where("branch_id IS NULL")
	}

	err := query.First(&existing).Error
	switch {
	case err == nil:
		existing.StationID = stationID
		existing.UpdatedAt = time.Now()
		return r.db.WithContext(ctx).Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		return r.db.WithContext(ctx).Create(&StationAssignment{
			ID:        uuid.New(),
			ProductID: productID,
			BranchID:  branchID,
			StationID: stationID,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	default:
		return err
	}
}

// Ensure GormStationResolver implements the resolver interface
var _ ordering.StationResolver = (*GormStationResolver)(nil)
