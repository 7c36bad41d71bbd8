package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order            *models.Order
	statuses         []models.OrderItemStatus
	orderUpdates     map[string]any
	trackings        []int
	cascadedLegacy   *enums.LegacyOrderStatus
	cascadedWorkflow *int64
	listRows         []models.Order
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) FindOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return &OrderDetail{Order: *s.order}, nil
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) ([]models.Order, error) {
	return s.listRows, nil
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, orderID int64, updates map[string]any) error {
	if s.order == nil || s.order.ID != orderID {
		return gorm.ErrRecordNotFound
	}
	s.orderUpdates = updates
	for key, value := range updates {
		switch key {
		case "status":
			if v, ok := value.(int); ok {
				s.order.LegacyStatus = &v
			}
		case "workflow_status_id":
			if v, ok := value.(int64); ok {
				s.order.WorkflowStatusID = &v
			}
		case "refund_amount":
			if v, ok := value.(decimal.Decimal); ok {
				s.order.RefundAmount = &v
			}
		}
	}
	return nil
}

func (s *stubOrdersRepo) CascadeLegacyItemStatus(ctx context.Context, orderID int64, status enums.LegacyOrderStatus) error {
	s.cascadedLegacy = &status
	return nil
}

func (s *stubOrdersRepo) CascadeWorkflowItemStatus(ctx context.Context, orderID int64, statusID int64, terminalIDs []int64) error {
	s.cascadedWorkflow = &statusID
	return nil
}

func (s *stubOrdersRepo) FindWorkflowStatusByKey(ctx context.Context, key enums.WorkflowStatusKey) (*models.OrderItemStatus, error) {
	for _, def := range s.statuses {
		if def.StatusKey == key {
			def := def
			return &def, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListWorkflowStatuses(ctx context.Context) ([]models.OrderItemStatus, error) {
	return s.statuses, nil
}

func (s *stubOrdersRepo) AppendTracking(ctx context.Context, orderID int64, statusID int) error {
	s.trackings = append(s.trackings, statusID)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type notifierCall struct {
	orderID     int64
	customerID  int64
	statusLabel string
}

type stubNotifier struct {
	calls []notifierCall
}

func (s *stubNotifier) OrderStatusChanged(ctx context.Context, orderID, customerID int64, statusLabel string) {
	s.calls = append(s.calls, notifierCall{orderID: orderID, customerID: customerID, statusLabel: statusLabel})
}

func statusFixtureRows() []models.OrderItemStatus {
	return []models.OrderItemStatus{
		{ID: 1, StatusKey: enums.WorkflowProcessing, StatusLabel: "Processing", StatusOrder: 10, IsActive: true},
		{ID: 2, StatusKey: enums.WorkflowOrdered, StatusLabel: "Ordered", StatusOrder: 20, IsActive: true},
		{ID: 3, StatusKey: enums.WorkflowShippedToWarehouse, StatusLabel: "Shipped to Warehouse", StatusOrder: 30, IsActive: true},
		{ID: 7, StatusKey: enums.WorkflowDeliveredToCustomer, StatusLabel: "Delivered", StatusOrder: 70, IsTerminal: true, IsActive: true},
		{ID: 8, StatusKey: enums.WorkflowCancelled, StatusLabel: "Cancelled", StatusOrder: 90, IsTerminal: true, IsActive: true},
		{ID: 9, StatusKey: enums.WorkflowRefunded, StatusLabel: "Refunded", StatusOrder: 95, IsTerminal: true, IsActive: true},
	}
}

func newTestService(t *testing.T, repo *stubOrdersRepo) (Service, *stubNotifier) {
	t.Helper()
	notifier := &stubNotifier{}
	svc, err := NewService(repo, stubTxRunner{}, notifier)
	require.NoError(t, err)
	return svc, notifier
}

func requireErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNilf(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func intPtr(v int) *int { return &v }

func TestTransitionLegacySuccess(t *testing.T) {
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:           10,
			CustomerID:   77,
			LegacyStatus: intPtr(int(enums.LegacyStatusPending)),
		},
		statuses: statusFixtureRows(),
	}
	svc, notifier := newTestService(t, repo)

	err := svc.TransitionLegacy(context.Background(), LegacyTransitionInput{
		OrderID:   10,
		NewStatus: enums.LegacyStatusConfirmed,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.order.LegacyStatus)
	assert.Equal(t, int(enums.LegacyStatusConfirmed), *repo.order.LegacyStatus)
	require.NotNil(t, repo.cascadedLegacy, "item cascade not applied")
	assert.Equal(t, enums.LegacyStatusConfirmed, *repo.cascadedLegacy)
	assert.Equal(t, []int{int(enums.LegacyStatusConfirmed)}, repo.trackings)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, int64(77), notifier.calls[0].customerID)
}

func TestTransitionLegacyRejected(t *testing.T) {
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:           10,
			LegacyStatus: intPtr(int(enums.LegacyStatusRefunded)),
		},
	}
	svc, notifier := newTestService(t, repo)

	err := svc.TransitionLegacy(context.Background(), LegacyTransitionInput{
		OrderID:   10,
		NewStatus: enums.LegacyStatusConfirmed,
	})
	requireErrorCode(t, err, pkgerrors.CodeStateConflict)
	assert.Empty(t, repo.trackings, "rejected transition must not append tracking")
	assert.Empty(t, notifier.calls, "rejected transition must not notify")
}

func TestTransitionLegacyNoOpIsIdempotent(t *testing.T) {
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:           10,
			LegacyStatus: intPtr(int(enums.LegacyStatusConfirmed)),
		},
	}
	svc, notifier := newTestService(t, repo)

	err := svc.TransitionLegacy(context.Background(), LegacyTransitionInput{
		OrderID:   10,
		NewStatus: enums.LegacyStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.trackings, "no-op transition must not append tracking")
	assert.Empty(t, notifier.calls, "no-op transition must not notify")
}

func TestTransitionWorkflowSuccess(t *testing.T) {
	statusID := int64(2)
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:               11,
			CustomerID:       42,
			WorkflowStatusID: &statusID, // ordered
		},
		statuses: statusFixtureRows(),
	}
	svc, notifier := newTestService(t, repo)

	err := svc.TransitionWorkflow(context.Background(), WorkflowTransitionInput{
		OrderID:   11,
		StatusKey: enums.WorkflowShippedToWarehouse,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.cascadedWorkflow, "workflow cascade not applied")
	assert.Equal(t, int64(3), *repo.cascadedWorkflow)
	assert.Equal(t, []int{30}, repo.trackings, "tracking should carry status_order 30")
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "Shipped to Warehouse", notifier.calls[0].statusLabel)
}

func TestTransitionWorkflowFromTerminalRejected(t *testing.T) {
	statusID := int64(9) // refunded
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:               11,
			WorkflowStatusID: &statusID,
		},
		statuses: statusFixtureRows(),
	}
	svc, _ := newTestService(t, repo)

	err := svc.TransitionWorkflow(context.Background(), WorkflowTransitionInput{
		OrderID:   11,
		StatusKey: enums.WorkflowOrdered,
	})
	requireErrorCode(t, err, pkgerrors.CodeStateConflict)
}

func TestTransitionWorkflowUnknownKey(t *testing.T) {
	repo := &stubOrdersRepo{order: &models.Order{ID: 11}}
	svc, _ := newTestService(t, repo)

	err := svc.TransitionWorkflow(context.Background(), WorkflowTransitionInput{
		OrderID:   11,
		StatusKey: "teleported",
	})
	requireErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestRefundComputesAmount(t *testing.T) {
	orderedID := int64(2)
	cancelledID := int64(8)
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:          12,
			CustomerID:  5,
			TotalAmount: decimal.RequireFromString("120.00"),
			ShippingFee: decimal.RequireFromString("20.00"),
			Items: []models.OrderItem{
				{ID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("30.00"), WorkflowStatusID: &orderedID},
				{ID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("40.00"), WorkflowStatusID: &cancelledID},
			},
		},
		statuses: statusFixtureRows(),
	}
	svc, notifier := newTestService(t, repo)

	amount, err := svc.Refund(context.Background(), RefundInput{OrderID: 12})
	require.NoError(t, err)

	// the cancelled 40.00 line is excluded from the default amount
	assert.True(t, amount.Equal(decimal.RequireFromString("60.00")),
		"expected refund 60.00, got %s", amount)
	require.NotNil(t, repo.order.RefundAmount, "refund amount not persisted")
	assert.Equal(t, []int{95}, repo.trackings, "tracking should carry the refunded status_order")
	assert.Len(t, notifier.calls, 1, "expected refund notification")
}

func TestRefundDefaultSkipsLegacyCancelledItems(t *testing.T) {
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:          14,
			CustomerID:  5,
			TotalAmount: decimal.RequireFromString("55.00"),
			Items: []models.OrderItem{
				{ID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("25.00"), LegacyStatus: intPtr(int(enums.LegacyStatusConfirmed))},
				{ID: 2, Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"), LegacyStatus: intPtr(int(enums.LegacyStatusCancelled))},
			},
		},
		statuses: statusFixtureRows(),
	}
	svc, _ := newTestService(t, repo)

	amount, err := svc.Refund(context.Background(), RefundInput{OrderID: 14})
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("25.00")),
		"expected refund 25.00, got %s", amount)
}

func TestRefundExplicitAmountOverridesDefault(t *testing.T) {
	orderedID := int64(2)
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:          15,
			CustomerID:  5,
			TotalAmount: decimal.RequireFromString("80.00"),
			Items: []models.OrderItem{
				{ID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("40.00"), WorkflowStatusID: &orderedID},
			},
		},
		statuses: statusFixtureRows(),
	}
	svc, _ := newTestService(t, repo)

	amount := decimal.RequireFromString("15.00")
	got, err := svc.Refund(context.Background(), RefundInput{OrderID: 15, Amount: &amount})
	require.NoError(t, err)
	assert.True(t, got.Equal(amount), "expected refund 15.00, got %s", got)
}

func TestRefundTwiceRejected(t *testing.T) {
	refunded := decimal.RequireFromString("50.00")
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:           12,
			TotalAmount:  decimal.RequireFromString("120.00"),
			RefundAmount: &refunded,
		},
		statuses: statusFixtureRows(),
	}
	svc, _ := newTestService(t, repo)

	_, err := svc.Refund(context.Background(), RefundInput{OrderID: 12})
	requireErrorCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRefundExceedingTotalRejected(t *testing.T) {
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:          12,
			TotalAmount: decimal.RequireFromString("100.00"),
		},
		statuses: statusFixtureRows(),
	}
	svc, _ := newTestService(t, repo)

	amount := decimal.RequireFromString("150.00")
	_, err := svc.Refund(context.Background(), RefundInput{OrderID: 12, Amount: &amount})
	requireErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestRecomputeAggregateUpdatesOrder(t *testing.T) {
	orderedID := int64(2)
	shippedID := int64(3)
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID: 13,
			Items: []models.OrderItem{
				{ID: 1, WorkflowStatusID: &orderedID},
				{ID: 2, WorkflowStatusID: &shippedID},
			},
		},
		statuses: statusFixtureRows(),
	}
	svc, _ := newTestService(t, repo)

	result, err := svc.RecomputeAggregate(context.Background(), 13)
	require.NoError(t, err)
	assert.True(t, result.Changed, "expected aggregate to change the order")
	assert.Equal(t, "ordered", result.StatusKey)
	assert.Equal(t, []int{20}, repo.trackings, "tracking should carry status_order 20")
}

func TestRecomputeAggregateNoOpSuppressesTracking(t *testing.T) {
	orderedID := int64(2)
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:               13,
			WorkflowStatusID: &orderedID,
			Items: []models.OrderItem{
				{ID: 1, WorkflowStatusID: &orderedID},
			},
		},
		statuses: statusFixtureRows(),
	}
	svc, _ := newTestService(t, repo)

	result, err := svc.RecomputeAggregate(context.Background(), 13)
	require.NoError(t, err)
	assert.False(t, result.Changed, "rerun with unchanged items must be a no-op")
	assert.Empty(t, repo.trackings, "no-op rerun must not append tracking")
}

func TestListOrdersPaginates(t *testing.T) {
	rows := make([]models.Order, 0, 4)
	for id := int64(40); id >= 37; id-- {
		rows = append(rows, models.Order{ID: id, CustomerID: 1})
	}
	repo := &stubOrdersRepo{listRows: rows, statuses: statusFixtureRows()}
	svc, _ := newTestService(t, repo)

	list, err := svc.List(context.Background(), pagination.Params{Limit: 3}, OrderFilters{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 3)
	assert.True(t, list.HasMore, "expected has_more with a fourth row buffered")
	assert.Equal(t, "38", list.NextCursor, "cursor should be the last returned id")
}
