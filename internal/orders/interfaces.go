package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and the workflow
// lookup table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrder(ctx context.Context, orderID int64) (*models.Order, error)
	FindOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID int64, updates map[string]any) error

	CascadeLegacyItemStatus(ctx context.Context, orderID int64, status enums.LegacyOrderStatus) error
	CascadeWorkflowItemStatus(ctx context.Context, orderID int64, statusID int64, terminalIDs []int64) error

	FindWorkflowStatusByKey(ctx context.Context, key enums.WorkflowStatusKey) (*models.OrderItemStatus, error)
	ListWorkflowStatuses(ctx context.Context) ([]models.OrderItemStatus, error)

	AppendTracking(ctx context.Context, orderID int64, statusID int) error
}
