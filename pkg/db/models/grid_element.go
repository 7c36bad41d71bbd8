package models

import "time"

// GridElement is one tile of the storefront home grid. TargetType and
// TargetID describe where the tile links (category, product, flash sale).
type GridElement struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;not null"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	TargetType string   `gorm:"column:target_type;not null"`
	TargetID  int64     `gorm:"column:target_id;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	Display   bool      `gorm:"column:display;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
