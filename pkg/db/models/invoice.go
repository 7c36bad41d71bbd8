package models

import (
	"time"

	"github.com/marketa-app/admin-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Invoice is a generated billing document for an order. The (order_id,
// type) pair is unique: generating a second invoice of the same type is
// rejected as a conflict.
type Invoice struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64             `gorm:"column:order_id;index:idx_invoices_order_type,unique;not null"`
	Type      enums.InvoiceType `gorm:"column:type;index:idx_invoices_order_type,unique;not null"`
	Number    string            `gorm:"column:number;uniqueIndex;not null"`
	Amount    decimal.Decimal   `gorm:"column:amount;type:decimal(12,2);not null"`
	IssuedAt  time.Time         `gorm:"column:issued_at;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
