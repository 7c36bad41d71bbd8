package models

import "time"

// ExcludedCategory marks a category as hidden from the storefront.
// Exclusion is transitive: a category is excluded when it or any
// ancestor appears here. The closure is computed in memory on read.
type ExcludedCategory struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID int64     `gorm:"column:category_id;uniqueIndex;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
