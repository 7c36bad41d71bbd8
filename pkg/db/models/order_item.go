package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order. Each item advances through the
// workflow pipeline independently; the order-level status is derived
// from the items by the aggregator.
type OrderItem struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID          int64           `gorm:"column:order_id;index;not null"`
	ProductID        int64           `gorm:"column:product_id;not null"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null"`
	WorkflowStatusID *int64          `gorm:"column:workflow_status_id"`
	LegacyStatus     *int            `gorm:"column:status"`
	ShippingCost     decimal.Decimal `gorm:"column:shipping_cost;type:decimal(12,2);not null;default:0"`
	TrackingNumber   *string         `gorm:"column:tracking_number"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the historical table name used by the storefront.
func (OrderItem) TableName() string {
	return "order_products"
}
