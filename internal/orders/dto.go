package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

// OrderFilters describe the inputs supported by the order listing.
type OrderFilters struct {
	LegacyStatus *enums.LegacyOrderStatus
	WorkflowKey  *enums.WorkflowStatusKey
	CustomerID   *int64
	DateFrom     *time.Time
	DateTo       *time.Time
}

// OrderSummary is one row of the paginated order list.
type OrderSummary struct {
	ID          int64           `json:"id"`
	CustomerID  int64           `json:"customer_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}

// OrderDetail joins the order with its satellite rows for the detail view.
type OrderDetail struct {
	Order     models.Order           `json:"order"`
	Status    string                 `json:"status"`
	Customer  *models.Customer       `json:"customer,omitempty"`
	Coupon    *models.Coupon         `json:"coupon,omitempty"`
	Trackings []models.OrderTracking `json:"trackings"`
}

// LegacyTransitionInput carries a numeric status transition request.
type LegacyTransitionInput struct {
	OrderID   int64
	NewStatus enums.LegacyOrderStatus
}

// WorkflowTransitionInput carries a workflow-key transition request.
type WorkflowTransitionInput struct {
	OrderID   int64
	StatusKey enums.WorkflowStatusKey
}

// RefundInput carries a refund request. A nil Amount refunds the order
// total minus the shipping fee.
type RefundInput struct {
	OrderID int64
	Amount  *decimal.Decimal
}

// AggregateResult reports the outcome of an order-status recomputation.
type AggregateResult struct {
	OrderID   int64  `json:"order_id"`
	StatusKey string `json:"status_key"`
	Changed   bool   `json:"changed"`
}
