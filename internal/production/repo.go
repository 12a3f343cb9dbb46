package production

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
)

// ErrStaleItem is returned when a line item changed between load and update.
var ErrStaleItem = errors.New("line item changed concurrently")

// Repository defines persistence for production line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindLineItem(ctx context.Context, id uuid.UUID) (*models.ProductionLineItem, error)
	ListForDay(ctx context.Context, day string) ([]models.ProductionLineItem, error)
	UpdateProduction(ctx context.Context, item models.ProductionLineItem, previous models.ProductionLineItem) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a production repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindLineItem(ctx context.Context, id uuid.UUID) (*models.ProductionLineItem, error) {
	var item models.ProductionLineItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListForDay(ctx context.Context, day string) ([]models.ProductionLineItem, error) {
	var items []models.ProductionLineItem
	err := r.db.WithContext(ctx).
		Where("production_day = ?", day).
		Order("product_name ASC, created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateProduction writes the production fields of item, guarded on the status
// and produced quantity it was loaded with.
func (r *repository) UpdateProduction(ctx context.Context, item models.ProductionLineItem, previous models.ProductionLineItem) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProductionLineItem{}).
		Where("id = ? AND production_status = ? AND quantity_produced = ?",
			item.ID, previous.ProductionStatus, previous.QuantityProduced).
		Updates(map[string]any{
			"quantity_produced": item.QuantityProduced,
			"production_status": item.ProductionStatus,
			"production_notes":  item.ProductionNotes,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleItem
	}
	return nil
}
