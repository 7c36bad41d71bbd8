package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Code            string          `gorm:"column:code;uniqueIndex;not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:decimal(5,2);not null"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	ExpiresAt       *time.Time      `gorm:"column:expires_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
