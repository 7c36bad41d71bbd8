package notifications

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/legacy"
	"github.com/marketa-app/admin-backend/pkg/logger"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type stubNotificationsRepo struct {
	customers     map[int64]models.Customer
	notifications []models.Notification
	nextID        int64
	sentMarks     []int64
}

func (r *stubNotificationsRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubNotificationsRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	r.nextID++
	notification.ID = r.nextID
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *stubNotificationsRepo) MarkSent(ctx context.Context, id int64, at time.Time) error {
	r.sentMarks = append(r.sentMarks, id)
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			stamp := at
			r.notifications[i].SentAt = &stamp
		}
	}
	return nil
}

func (r *stubNotificationsRepo) ListNotifications(ctx context.Context, page pagination.Params) ([]models.Notification, error) {
	var rows []models.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		notification := r.notifications[i]
		if page.Cursor > 0 && notification.ID >= page.Cursor {
			continue
		}
		rows = append(rows, notification)
		if len(rows) == pagination.LimitWithBuffer(page.Limit) {
			break
		}
	}
	return rows, nil
}

func (r *stubNotificationsRepo) FindCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &customer, nil
}

func (r *stubNotificationsRepo) ListCustomerTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	for _, customer := range r.customers {
		if customer.FCMToken != nil && *customer.FCMToken != "" {
			tokens = append(tokens, *customer.FCMToken)
		}
	}
	return tokens, nil
}

type stubNotificationsTx struct{}

func (stubNotificationsTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubPusher struct {
	sent []legacy.PushMessage
	err  error
}

func (p *stubPusher) SendPush(ctx context.Context, msg legacy.PushMessage) error {
	p.sent = append(p.sent, msg)
	return p.err
}

func tokenPtr(v string) *string { return &v }

func newNotificationsService(t *testing.T, repo *stubNotificationsRepo, pusher *stubPusher) *service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, stubNotificationsTx{}, pusher, logg)
	require.NoError(t, err)
	concrete := svc.(*service)
	concrete.now = func() time.Time {
		return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	}
	return concrete
}

func TestCreateCustomerNotificationPushes(t *testing.T) {
	repo := &stubNotificationsRepo{customers: map[int64]models.Customer{
		7: {ID: 7, Name: "alex", FCMToken: tokenPtr("tok-7")},
	}}
	pusher := &stubPusher{}
	svc := newNotificationsService(t, repo, pusher)

	customerID := int64(7)
	view, err := svc.Create(context.Background(), CreateInput{
		Title:      "hello",
		Body:       "world",
		Audience:   enums.NotificationAudienceCustomer,
		CustomerID: &customerID,
	})
	require.NoError(t, err)

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "tok-7", pusher.sent[0].FCMToken)
	assert.Equal(t, "hello", pusher.sent[0].Title)
	require.NotNil(t, view.SentAt)
	assert.Equal(t, []int64{1}, repo.sentMarks)
}

func TestCreateBroadcastFansOut(t *testing.T) {
	repo := &stubNotificationsRepo{customers: map[int64]models.Customer{
		1: {ID: 1, FCMToken: tokenPtr("tok-1")},
		2: {ID: 2, FCMToken: tokenPtr("tok-2")},
		3: {ID: 3}, // no device registered
	}}
	pusher := &stubPusher{}
	svc := newNotificationsService(t, repo, pusher)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:    "sale",
		Body:     "everything must go",
		Audience: enums.NotificationAudienceBroadcast,
	})
	require.NoError(t, err)

	assert.Len(t, pusher.sent, 2)
}

func TestCreateSurvivesPushFailure(t *testing.T) {
	repo := &stubNotificationsRepo{customers: map[int64]models.Customer{
		7: {ID: 7, FCMToken: tokenPtr("tok-7")},
	}}
	pusher := &stubPusher{err: errors.New("fcm unreachable")}
	svc := newNotificationsService(t, repo, pusher)

	customerID := int64(7)
	view, err := svc.Create(context.Background(), CreateInput{
		Title:      "hello",
		Body:       "world",
		Audience:   enums.NotificationAudienceCustomer,
		CustomerID: &customerID,
	})
	require.NoError(t, err)

	// sent_at is stamped after the attempt even when delivery failed
	require.NotNil(t, view.SentAt)
}

func TestCreateCustomerWithoutDeviceSkipsPush(t *testing.T) {
	repo := &stubNotificationsRepo{customers: map[int64]models.Customer{
		7: {ID: 7},
	}}
	pusher := &stubPusher{}
	svc := newNotificationsService(t, repo, pusher)

	customerID := int64(7)
	_, err := svc.Create(context.Background(), CreateInput{
		Title:      "hello",
		Body:       "world",
		Audience:   enums.NotificationAudienceCustomer,
		CustomerID: &customerID,
	})
	require.NoError(t, err)
	assert.Empty(t, pusher.sent)
}

func TestCreateValidation(t *testing.T) {
	svc := newNotificationsService(t, &stubNotificationsRepo{customers: map[int64]models.Customer{}}, &stubPusher{})
	ctx := context.Background()
	customerID := int64(1)

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing title", CreateInput{Body: "b", Audience: enums.NotificationAudienceBroadcast}},
		{"missing body", CreateInput{Title: "t", Audience: enums.NotificationAudienceBroadcast}},
		{"bad audience", CreateInput{Title: "t", Body: "b", Audience: enums.NotificationAudience("everyone")}},
		{"customer without id", CreateInput{Title: "t", Body: "b", Audience: enums.NotificationAudienceCustomer}},
		{"broadcast with id", CreateInput{Title: "t", Body: "b", Audience: enums.NotificationAudienceBroadcast, CustomerID: &customerID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestCreateUnknownCustomer(t *testing.T) {
	svc := newNotificationsService(t, &stubNotificationsRepo{customers: map[int64]models.Customer{}}, &stubPusher{})

	customerID := int64(404)
	_, err := svc.Create(context.Background(), CreateInput{
		Title:      "t",
		Body:       "b",
		Audience:   enums.NotificationAudienceCustomer,
		CustomerID: &customerID,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestOrderStatusChangedNeverPanics(t *testing.T) {
	repo := &stubNotificationsRepo{customers: map[int64]models.Customer{
		7: {ID: 7, FCMToken: tokenPtr("tok-7")},
	}}
	pusher := &stubPusher{}
	svc := newNotificationsService(t, repo, pusher)

	svc.OrderStatusChanged(context.Background(), 42, 7, "shipped_to_wh")

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, "Order #42 update", repo.notifications[0].Title)
	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "shipped_to_wh", pusher.sent[0].Data["status"])

	// unknown customer: logged and swallowed
	svc.OrderStatusChanged(context.Background(), 43, 404, "ordered")
	assert.Len(t, repo.notifications, 1)
}

func TestListPaginates(t *testing.T) {
	repo := &stubNotificationsRepo{customers: map[int64]models.Customer{}}
	svc := newNotificationsService(t, repo, &stubPusher{})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := svc.Create(ctx, CreateInput{
			Title:    "t",
			Body:     "b",
			Audience: enums.NotificationAudienceBroadcast,
		})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 3)
	assert.True(t, list.HasMore)
	assert.Equal(t, "2", list.NextCursor)
	assert.Equal(t, int64(4), list.Notifications[0].ID)
}
