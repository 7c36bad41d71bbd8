package notifications

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a notifications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("sent_at", at).Error
}

func (r *repository) ListNotifications(ctx context.Context, page pagination.Params) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{})
	if page.Cursor > 0 {
		query = query.Where("id < ?", page.Cursor)
	}

	var rows []models.Notification
	err := query.
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListCustomerTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("fcm_token IS NOT NULL AND fcm_token <> ''").
		Pluck("fcm_token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
