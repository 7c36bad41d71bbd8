package orders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StatusNotifier fans out a best-effort customer notification after a
// status transition commits. Implementations must not block and must
// never surface delivery failures.
type StatusNotifier interface {
	OrderStatusChanged(ctx context.Context, orderID, customerID int64, statusLabel string)
}

// Service defines order lifecycle operations.
type Service interface {
	Get(ctx context.Context, orderID int64) (*OrderDetail, error)
	List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	TransitionLegacy(ctx context.Context, input LegacyTransitionInput) error
	TransitionWorkflow(ctx context.Context, input WorkflowTransitionInput) error
	Refund(ctx context.Context, input RefundInput) (decimal.Decimal, error)
	RecomputeAggregate(ctx context.Context, orderID int64) (*AggregateResult, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier StatusNotifier
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifier StatusNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("status notifier required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier}, nil
}

func (s *service) Get(ctx context.Context, orderID int64) (*OrderDetail, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	detail, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order detail")
	}

	statusesByID, err := s.workflowStatusesByID(ctx)
	if err != nil {
		return nil, err
	}
	detail.Status = displayStatus(&detail.Order, statusesByID)
	return detail, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	params.Limit = pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	statusesByID, err := s.workflowStatusesByID(ctx)
	if err != nil {
		return nil, err
	}

	page, nextCursor, hasMore := pagination.Page(rows, params.Limit, func(o models.Order) int64 { return o.ID })

	list := &OrderList{
		Orders:  make([]OrderSummary, 0, len(page)),
		HasMore: hasMore,
	}
	if hasMore {
		list.NextCursor = strconv.FormatInt(nextCursor, 10)
	}
	for _, order := range page {
		order := order
		list.Orders = append(list.Orders, OrderSummary{
			ID:          order.ID,
			CustomerID:  order.CustomerID,
			Status:      displayStatus(&order, statusesByID),
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
			CreatedAt:   order.CreatedAt,
		})
	}
	return list, nil
}

func (s *service) TransitionLegacy(ctx context.Context, input LegacyTransitionInput) error {
	if input.OrderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var notify func()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		current := enums.LegacyStatusDraft
		if order.LegacyStatus != nil {
			current = enums.LegacyOrderStatus(*order.LegacyStatus)
		}
		if current == input.NewStatus {
			return nil
		}
		if err := ValidateLegacyTransition(current, input.NewStatus); err != nil {
			return err
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": int(input.NewStatus)}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if err := repo.CascadeLegacyItemStatus(ctx, order.ID, input.NewStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade item status")
		}
		if err := repo.AppendTracking(ctx, order.ID, int(input.NewStatus)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking")
		}

		notify = s.statusNotification(ctx, order, input.NewStatus.String())
		return nil
	})
	if err != nil {
		return err
	}
	if notify != nil {
		notify()
	}
	return nil
}

func (s *service) TransitionWorkflow(ctx context.Context, input WorkflowTransitionInput) error {
	if input.OrderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.StatusKey.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown workflow status %q", input.StatusKey)
	}

	var notify func()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		target, err := repo.FindWorkflowStatusByKey(ctx, input.StatusKey)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown workflow status %q", input.StatusKey)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow status")
		}

		statuses, err := repo.ListWorkflowStatuses(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow statuses")
		}

		if order.WorkflowStatusID != nil {
			if *order.WorkflowStatusID == target.ID {
				return nil
			}
			for _, def := range statuses {
				if def.ID == *order.WorkflowStatusID && def.IsTerminal {
					return pkgerrors.Newf(pkgerrors.CodeStateConflict,
						"cannot transition from %s to %s", def.StatusKey, target.StatusKey)
				}
			}
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"workflow_status_id": target.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if err := repo.CascadeWorkflowItemStatus(ctx, order.ID, target.ID, terminalStatusIDs(statuses)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade item status")
		}
		if err := repo.AppendTracking(ctx, order.ID, target.StatusOrder); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking")
		}

		notify = s.statusNotification(ctx, order, target.StatusLabel)
		return nil
	})
	if err != nil {
		return err
	}
	if notify != nil {
		notify()
	}
	return nil
}

func (s *service) Refund(ctx context.Context, input RefundInput) (decimal.Decimal, error) {
	if input.OrderID <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var (
		amount decimal.Decimal
		notify func()
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.RefundAmount != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already refunded")
		}
		if order.LegacyStatus != nil && enums.LegacyOrderStatus(*order.LegacyStatus) == enums.LegacyStatusRefunded {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already refunded")
		}

		refundedDef, err := repo.FindWorkflowStatusByKey(ctx, enums.WorkflowRefunded)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refunded status")
		}
		if order.WorkflowStatusID != nil && *order.WorkflowStatusID == refundedDef.ID {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already refunded")
		}

		statuses, err := repo.ListWorkflowStatuses(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow statuses")
		}

		amount = refundableAmount(order.Items, statuses)
		if input.Amount != nil {
			amount = *input.Amount
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive")
		}
		if amount.GreaterThan(order.TotalAmount) {
			return pkgerrors.New(pkgerrors.CodeValidation, "refund amount exceeds order total")
		}

		updates := map[string]any{
			"status":             int(enums.LegacyStatusRefunded),
			"workflow_status_id": refundedDef.ID,
			"refund_amount":      amount,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if err := repo.CascadeWorkflowItemStatus(ctx, order.ID, refundedDef.ID, terminalStatusIDs(statuses)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade item status")
		}
		if err := repo.AppendTracking(ctx, order.ID, refundedDef.StatusOrder); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking")
		}

		notify = s.statusNotification(ctx, order, refundedDef.StatusLabel)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	if notify != nil {
		notify()
	}
	return amount, nil
}

func (s *service) RecomputeAggregate(ctx context.Context, orderID int64) (*AggregateResult, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *AggregateResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		statuses, err := repo.ListWorkflowStatuses(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow statuses")
		}
		statusesByID := make(map[int64]models.OrderItemStatus, len(statuses))
		for _, def := range statuses {
			statusesByID[def.ID] = def
		}

		winner := AggregateItemStatus(order.Items, statusesByID)
		if winner == nil {
			result = &AggregateResult{OrderID: order.ID, Changed: false}
			return nil
		}

		// Rerunning with unchanged items must not append another
		// tracking row.
		if order.WorkflowStatusID != nil && *order.WorkflowStatusID == winner.ID {
			result = &AggregateResult{OrderID: order.ID, StatusKey: winner.StatusKey.String(), Changed: false}
			return nil
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"workflow_status_id": winner.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if err := repo.AppendTracking(ctx, order.ID, winner.StatusOrder); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking")
		}
		result = &AggregateResult{OrderID: order.ID, StatusKey: winner.StatusKey.String(), Changed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) workflowStatusesByID(ctx context.Context) (map[int64]models.OrderItemStatus, error) {
	statuses, err := s.repo.ListWorkflowStatuses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow statuses")
	}
	byID := make(map[int64]models.OrderItemStatus, len(statuses))
	for _, def := range statuses {
		byID[def.ID] = def
	}
	return byID, nil
}

// statusNotification builds the post-commit callback. The notifier owns
// delivery; the transition never waits on it.
func (s *service) statusNotification(ctx context.Context, order *models.Order, statusLabel string) func() {
	orderID := order.ID
	customerID := order.CustomerID
	return func() {
		s.notifier.OrderStatusChanged(ctx, orderID, customerID, statusLabel)
	}
}

// refundableAmount sums quantity times unit price over the lines that
// are not cancelled. A cancelled line's money was already returned when
// the line was cancelled, so it never counts toward a fresh refund.
func refundableAmount(items []models.OrderItem, statuses []models.OrderItemStatus) decimal.Decimal {
	var cancelledID *int64
	for _, def := range statuses {
		if def.StatusKey == enums.WorkflowCancelled {
			id := def.ID
			cancelledID = &id
			break
		}
	}

	total := decimal.Zero
	for _, item := range items {
		if item.WorkflowStatusID != nil {
			if cancelledID != nil && *item.WorkflowStatusID == *cancelledID {
				continue
			}
		} else if item.LegacyStatus != nil && enums.LegacyOrderStatus(*item.LegacyStatus) == enums.LegacyStatusCancelled {
			continue
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func terminalStatusIDs(statuses []models.OrderItemStatus) []int64 {
	ids := make([]int64, 0, 3)
	for _, def := range statuses {
		if def.IsTerminal || def.StatusOrder >= enums.TerminalStatusOrderFloor {
			ids = append(ids, def.ID)
		}
	}
	return ids
}

func displayStatus(order *models.Order, statusesByID map[int64]models.OrderItemStatus) string {
	if order.WorkflowStatusID != nil {
		if def, ok := statusesByID[*order.WorkflowStatusID]; ok {
			return def.StatusKey.String()
		}
	}
	if order.LegacyStatus != nil {
		return enums.LegacyOrderStatus(*order.LegacyStatus).String()
	}
	return enums.LegacyStatusDraft.String()
}
