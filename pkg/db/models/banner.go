package models

import (
	"time"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// Banner is a storefront marketing image managed from the back office.
type Banner struct {
	ID          int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string                `gorm:"column:title;not null"`
	ImageURL    string                `gorm:"column:image_url;not null"`
	LinkURL     string                `gorm:"column:link_url"`
	Placement   enums.BannerPlacement `gorm:"column:placement;not null"`
	Display     bool                  `gorm:"column:display;not null;default:true"`
	OrderNumber int                   `gorm:"column:order_number;not null;default:0"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
