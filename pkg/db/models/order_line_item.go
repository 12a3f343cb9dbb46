package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenops/pkg/enums"
	"github.com/angelmondragon/kitchenops/pkg/types"
)

const OrderLineItemsTable = "order_line_items"

// OrderLineItem is the pricing-facing view of an ordered product configuration.
// Every price snapshot is nullable: initial fields are set when the order is placed,
// final fields are appended as production and delivery progress upstream.
type OrderLineItem struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID            `gorm:"column:order_id;type:uuid;not null"`
	ProductName string               `gorm:"column:product_name;not null"`
	Variants    types.VariantOptions `gorm:"column:variants"`
	Unit        enums.ProductionUnit `gorm:"column:unit;not null"`

	InitialRetailUnitPrice decimal.NullDecimal `gorm:"column:initial_retail_unit_price;type:numeric(12,2)"`
	RetailUnitPrice        decimal.NullDecimal `gorm:"column:retail_unit_price;type:numeric(12,2)"`
	FinalRetailUnitPrice   decimal.NullDecimal `gorm:"column:final_retail_unit_price;type:numeric(12,2)"`
	UnitPrice              decimal.NullDecimal `gorm:"column:unit_price;type:numeric(12,2)"`

	InitialRetailTotal decimal.NullDecimal `gorm:"column:initial_retail_total;type:numeric(12,2)"`
	RetailTotal        decimal.NullDecimal `gorm:"column:retail_total;type:numeric(12,2)"`
	FinalRetailTotal   decimal.NullDecimal `gorm:"column:final_retail_total;type:numeric(12,2)"`
	WholesaleTotal     decimal.NullDecimal `gorm:"column:wholesale_total;type:numeric(12,2)"`
	TotalPrice         decimal.NullDecimal `gorm:"column:total_price;type:numeric(12,2)"`

	QuantityOrdered   decimal.Decimal     `gorm:"column:quantity_ordered;type:numeric(12,3);not null"`
	QuantityProduced  decimal.NullDecimal `gorm:"column:quantity_produced;type:numeric(12,3);default:0"`
	QuantityDelivered decimal.NullDecimal `gorm:"column:quantity_delivered;type:numeric(12,3)"`

	ProductionStatus enums.ProductionStatus `gorm:"column:production_status;not null;default:'PENDING'"`
	DeliveryStatus   enums.DeliveryStatus   `gorm:"column:delivery_status;not null;default:'PENDING'"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderLineItem) TableName() string { return OrderLineItemsTable }
