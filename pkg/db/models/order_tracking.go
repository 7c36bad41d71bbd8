package models

import "time"

// OrderTracking is the append-only audit trail of status transitions.
// StatusID records the status_order of the workflow status applied (or
// the raw legacy code for legacy transitions). Rows are never updated.
type OrderTracking struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64     `gorm:"column:order_id;index;not null"`
	StatusID  int       `gorm:"column:status_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the audit table name.
func (OrderTracking) TableName() string {
	return "order_trackings"
}
