package notifications

import (
	"time"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// CreateInput authors a new notification. CustomerID is required for
// the customer audience and forbidden for broadcast.
type CreateInput struct {
	Title      string
	Body       string
	Audience   enums.NotificationAudience
	CustomerID *int64
	Data       map[string]string
}

// NotificationView is one notification row for the admin UI.
type NotificationView struct {
	ID         int64                      `json:"id"`
	Title      string                     `json:"title"`
	Body       string                     `json:"body"`
	Audience   enums.NotificationAudience `json:"audience"`
	CustomerID *int64                     `json:"customer_id,omitempty"`
	SentAt     *time.Time                 `json:"sent_at,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// NotificationList wraps the paginated notifications plus the next page cursor.
type NotificationList struct {
	Notifications []NotificationView `json:"notifications"`
	NextCursor    string             `json:"next_cursor,omitempty"`
	HasMore       bool               `json:"has_more"`
}
