package models

import "github.com/marketa-app/admin-backend/pkg/enums"

// OrderItemStatus is one row of the workflow lookup table, the source of
// truth for the item pipeline. StatusOrder sequences the steps; values
// at or above enums.TerminalStatusOrderFloor are terminal by convention,
// with IsTerminal as the explicit flag.
type OrderItemStatus struct {
	ID          int64                   `gorm:"column:id;primaryKey;autoIncrement"`
	StatusKey   enums.WorkflowStatusKey `gorm:"column:status_key;uniqueIndex;not null"`
	StatusLabel string                  `gorm:"column:status_label;not null"`
	StatusOrder int                     `gorm:"column:status_order;not null"`
	IsTerminal  bool                    `gorm:"column:is_terminal;not null;default:false"`
	IsActive    bool                    `gorm:"column:is_active;not null;default:true"`
}

// TableName pins the lookup table name.
func (OrderItemStatus) TableName() string {
	return "order_item_statuses"
}
