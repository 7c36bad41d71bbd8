package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	order, err := r.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: *order}

	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", order.CustomerID).First(&customer).Error; err == nil {
		detail.Customer = &customer
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if order.CouponID != nil {
		var coupon models.Coupon
		if err := r.db.WithContext(ctx).Where("id = ?", *order.CouponID).First(&coupon).Error; err == nil {
			detail.Coupon = &coupon
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	err = r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&detail.Trackings).Error
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *repository) ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items").Order("id DESC")

	if params.Cursor > 0 {
		query = query.Where("id < ?", params.Cursor)
	}
	if filters.LegacyStatus != nil {
		query = query.Where("status = ?", int(*filters.LegacyStatus))
	}
	if filters.WorkflowKey != nil {
		query = query.Where(
			"workflow_status_id IN (?)",
			r.db.Model(&models.OrderItemStatus{}).Select("id").Where("status_key = ?", string(*filters.WorkflowKey)),
		)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var rows []models.Order
	err := query.Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) CascadeLegacyItemStatus(ctx context.Context, orderID int64, status enums.LegacyOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Where("status IS NULL OR status <> ?", int(enums.LegacyStatusCancelled)).
		Update("status", int(status)).Error
}

func (r *repository) CascadeWorkflowItemStatus(ctx context.Context, orderID int64, statusID int64, terminalIDs []int64) error {
	query := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ?", orderID)
	if len(terminalIDs) > 0 {
		query = query.Where("workflow_status_id IS NULL OR workflow_status_id NOT IN ?", terminalIDs)
	}
	return query.Update("workflow_status_id", statusID).Error
}

func (r *repository) FindWorkflowStatusByKey(ctx context.Context, key enums.WorkflowStatusKey) (*models.OrderItemStatus, error) {
	var status models.OrderItemStatus
	err := r.db.WithContext(ctx).
		Where("status_key = ? AND is_active = ?", string(key), true).
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *repository) ListWorkflowStatuses(ctx context.Context) ([]models.OrderItemStatus, error) {
	var statuses []models.OrderItemStatus
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("status_order ASC").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *repository) AppendTracking(ctx context.Context, orderID int64, statusID int) error {
	tracking := models.OrderTracking{
		OrderID:  orderID,
		StatusID: statusID,
	}
	return r.db.WithContext(ctx).Create(&tracking).Error
}
