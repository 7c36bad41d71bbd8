package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/legacy"
	"github.com/marketa-app/admin-backend/pkg/logger"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines notification operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*NotificationView, error)
	List(ctx context.Context, params pagination.Params) (*NotificationList, error)
	OrderStatusChanged(ctx context.Context, orderID, customerID int64, statusLabel string)
}

type service struct {
	repo   Repository
	tx     txRunner
	pusher Pusher
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the notifications service. The pusher is the legacy
// backend client; push delivery is best-effort and never fails a write.
func NewService(repo Repository, tx txRunner, pusher Pusher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if pusher == nil {
		return nil, fmt.Errorf("pusher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, pusher: pusher, logg: logg, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*NotificationView, error) {
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification title required")
	}
	if input.Body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification body required")
	}
	if !input.Audience.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown audience %q", string(input.Audience))
	}
	switch input.Audience {
	case enums.NotificationAudienceCustomer:
		if input.CustomerID == nil || *input.CustomerID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required for customer audience")
		}
	case enums.NotificationAudienceBroadcast:
		if input.CustomerID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id not allowed for broadcast")
		}
	}

	data := ""
	if len(input.Data) > 0 {
		encoded, err := json.Marshal(input.Data)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode notification data")
		}
		data = string(encoded)
	}

	notification := models.Notification{
		Title:      input.Title,
		Body:       input.Body,
		Audience:   input.Audience,
		CustomerID: input.CustomerID,
		Data:       data,
	}

	var tokens []string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if input.Audience == enums.NotificationAudienceCustomer {
			customer, err := repo.FindCustomer(ctx, *input.CustomerID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
			}
			if customer.FCMToken != nil && *customer.FCMToken != "" {
				tokens = []string{*customer.FCMToken}
			}
		} else {
			all, err := repo.ListCustomerTokens(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list device tokens")
			}
			tokens = all
		}

		if err := repo.CreateNotification(ctx, &notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fanOut(ctx, &notification, tokens, input.Data)

	view := toView(notification)
	return &view, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*NotificationList, error) {
	params.Limit = pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListNotifications(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	page, nextCursor, hasMore := pagination.Page(rows, params.Limit, func(n models.Notification) int64 { return n.ID })

	list := &NotificationList{
		Notifications: make([]NotificationView, 0, len(page)),
		HasMore:       hasMore,
	}
	if hasMore {
		list.NextCursor = strconv.FormatInt(nextCursor, 10)
	}
	for _, row := range page {
		list.Notifications = append(list.Notifications, toView(row))
	}
	return list, nil
}

// OrderStatusChanged records and pushes a per-customer status update.
// Called after the order transition commits; every failure is logged
// and swallowed.
func (s *service) OrderStatusChanged(ctx context.Context, orderID, customerID int64, statusLabel string) {
	input := CreateInput{
		Title:      fmt.Sprintf("Order #%d update", orderID),
		Body:       fmt.Sprintf("Your order is now %s", statusLabel),
		Audience:   enums.NotificationAudienceCustomer,
		CustomerID: &customerID,
		Data: map[string]string{
			"order_id": strconv.FormatInt(orderID, 10),
			"status":   statusLabel,
		},
	}
	if _, err := s.Create(ctx, input); err != nil {
		s.logg.Error(ctx, "order status notification", err)
	}
}

// fanOut attempts delivery to every token and stamps sent_at afterwards
// regardless of delivery outcome.
func (s *service) fanOut(ctx context.Context, notification *models.Notification, tokens []string, data map[string]string) {
	for _, token := range tokens {
		msg := legacy.PushMessage{
			FCMToken: token,
			Title:    notification.Title,
			Body:     notification.Body,
			Data:     data,
		}
		if err := s.pusher.SendPush(ctx, msg); err != nil {
			s.logg.Error(ctx, "push delivery", err)
		}
	}

	sentAt := s.now().UTC()
	if err := s.repo.MarkSent(ctx, notification.ID, sentAt); err != nil {
		s.logg.Error(ctx, "marking notification sent", err)
		return
	}
	notification.SentAt = &sentAt
}

func toView(notification models.Notification) NotificationView {
	return NotificationView{
		ID:         notification.ID,
		Title:      notification.Title,
		Body:       notification.Body,
		Audience:   notification.Audience,
		CustomerID: notification.CustomerID,
		SentAt:     notification.SentAt,
		CreatedAt:  notification.CreatedAt,
	}
}
