package models

import (
	"time"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// Notification is a message authored in the back office. Broadcast rows
// have a nil CustomerID; customer rows target one recipient. SentAt is
// set after the push fan-out attempt regardless of delivery outcome;
// push is best-effort.
type Notification struct {
	ID         int64                      `gorm:"column:id;primaryKey;autoIncrement"`
	Title      string                     `gorm:"column:title;not null"`
	Body       string                     `gorm:"column:body;not null"`
	Audience   enums.NotificationAudience `gorm:"column:audience;not null"`
	CustomerID *int64                     `gorm:"column:customer_id;index"`
	Data       string                     `gorm:"column:data"`
	SentAt     *time.Time                 `gorm:"column:sent_at"`
	CreatedAt  time.Time                  `gorm:"column:created_at;autoCreateTime"`
}
