package models

import "time"

// Category is one node of the catalog forest. ParentID nil (or zero)
// marks a root. Level, HasChildren and ProductCount are denormalized by
// the write paths; OrderNumber keys sibling ordering. Parent pointers
// must never form a cycle, which the database does not enforce; tree
// walks guard against it.
type Category struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;not null"`
	NameEn      string `gorm:"column:name_en"`
	NameCn      string `gorm:"column:name_cn"`
	Slug        string `gorm:"column:slug;uniqueIndex"`
	ParentID    *int64 `gorm:"column:parent;index"`
	Level       int    `gorm:"column:level;not null;default:0"`
	HasChildren bool   `gorm:"column:has_children;not null;default:false"`
	MainImage   string `gorm:"column:main_image"`
	ProductCount int   `gorm:"column:product_count;not null;default:0"`
	Display     bool   `gorm:"column:display;not null;default:true"`
	OrderNumber int    `gorm:"column:order_number;not null;default:0"`

	// shipping/tax overrides; nil falls back to platform defaults
	AirShippingRate    *float64 `gorm:"column:air_shipping_rate"`
	SeaShippingRate    *float64 `gorm:"column:sea_shipping_rate"`
	CBMRate            *float64 `gorm:"column:cbm_rate"`
	SurchargePercent   *float64 `gorm:"column:surcharge_percent"`
	MinAirQuantity     *int     `gorm:"column:min_air_quantity"`
	MinSeaQuantity     *int     `gorm:"column:min_sea_quantity"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
