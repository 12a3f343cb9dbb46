package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenops/pkg/enums"
	"github.com/angelmondragon/kitchenops/pkg/types"
)

// ProductionLineItem is the kitchen-facing view of an order line item.
// It shares the order_line_items table with OrderLineItem.
type ProductionLineItem struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID              `gorm:"column:order_id;type:uuid;not null"`
	ProductName      string                 `gorm:"column:product_name;not null"`
	Variants         types.VariantOptions   `gorm:"column:variants"`
	Unit             enums.ProductionUnit   `gorm:"column:unit;not null"`
	QuantityOrdered  decimal.Decimal        `gorm:"column:quantity_ordered;type:numeric(12,3);not null"`
	QuantityProduced decimal.Decimal        `gorm:"column:quantity_produced;type:numeric(12,3);not null;default:0"`
	ProductionStatus enums.ProductionStatus `gorm:"column:production_status;not null;default:'PENDING'"`
	ProductionNotes  *string                `gorm:"column:production_notes"`
	// ProductionDay is the kitchen day (YYYY-MM-DD) the item is due.
	ProductionDay string    `gorm:"column:production_day;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductionLineItem) TableName() string { return OrderLineItemsTable }

// Remaining returns quantityOrdered - quantityProduced, floored at zero.
func (p ProductionLineItem) Remaining() decimal.Decimal {
	remaining := p.QuantityOrdered.Sub(p.QuantityProduced)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
