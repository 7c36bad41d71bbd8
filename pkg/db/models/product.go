package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry. OriginPrice is the supplier price in the
// currency referenced by CurrencyID; the USD display price is always
// derived through the pricing converter, never stored.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID  int64           `gorm:"column:category_id;index;not null"`
	Name        string          `gorm:"column:name;not null"`
	NameCn      string          `gorm:"column:name_cn"`
	Slug        string          `gorm:"column:slug;uniqueIndex"`
	MainImage   string          `gorm:"column:main_image"`
	OriginPrice decimal.Decimal `gorm:"column:origin_price;type:decimal(12,2);not null"`
	CurrencyID  int64           `gorm:"column:currency_id;not null;default:1"`
	Display     bool            `gorm:"column:display;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
