package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer purchase. LegacyStatus carries the historical
// integer code; WorkflowStatusID points into order_item_statuses and is
// the canonical representation for new writes. The address fields are a
// snapshot taken at checkout, not a reference.
type Order struct {
	ID               int64            `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID       int64            `gorm:"column:customer_id;index;not null"`
	CouponID         *int64           `gorm:"column:coupon_id"`
	LegacyStatus     *int             `gorm:"column:status"`
	WorkflowStatusID *int64           `gorm:"column:workflow_status_id"`
	ShippingStatus   string           `gorm:"column:shipping_status"`
	PaymentType      string           `gorm:"column:payment_type"`
	TotalAmount      decimal.Decimal  `gorm:"column:total_amount;type:decimal(12,2);not null"`
	ShippingFee      decimal.Decimal  `gorm:"column:shipping_fee;type:decimal(12,2);not null"`
	RefundAmount     *decimal.Decimal `gorm:"column:refund_amount;type:decimal(12,2)"`

	RecipientName  string `gorm:"column:recipient_name"`
	RecipientPhone string `gorm:"column:recipient_phone"`
	AddressLine    string `gorm:"column:address_line"`
	City           string `gorm:"column:city"`
	Country        string `gorm:"column:country"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
