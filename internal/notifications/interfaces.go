package notifications

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/legacy"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

// Repository defines persistence operations for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateNotification(ctx context.Context, notification *models.Notification) error
	MarkSent(ctx context.Context, id int64, at time.Time) error
	ListNotifications(ctx context.Context, page pagination.Params) ([]models.Notification, error)
	FindCustomer(ctx context.Context, id int64) (*models.Customer, error)
	ListCustomerTokens(ctx context.Context) ([]string, error)
}

// Pusher delivers a push message to a single device. The legacy backend
// client implements it; a disabled client silently drops messages.
type Pusher interface {
	SendPush(ctx context.Context, msg legacy.PushMessage) error
}
