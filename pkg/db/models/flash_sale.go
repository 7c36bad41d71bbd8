package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlashSale is a time-boxed promotion over a set of products.
type FlashSale struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	StartsAt  time.Time `gorm:"column:starts_at;not null"`
	EndsAt    time.Time `gorm:"column:ends_at;not null"`
	Active    bool      `gorm:"column:active;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FlashSaleProduct overrides a product's origin price for the duration
// of a sale. SalePrice is in the product's origin currency; the USD
// display price still goes through the pricing converter.
type FlashSaleProduct struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	FlashSaleID int64           `gorm:"column:flash_sale_id;index:idx_flash_sale_product,unique;not null"`
	ProductID   int64           `gorm:"column:product_id;index:idx_flash_sale_product,unique;not null"`
	SalePrice   decimal.Decimal `gorm:"column:sale_price;type:decimal(12,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
