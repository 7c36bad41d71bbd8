package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// GenerateInput asks for a new invoice of the given type against an order.
type GenerateInput struct {
	OrderID int64
	Type    enums.InvoiceType
}

// InvoiceView is the API shape of one invoice row.
type InvoiceView struct {
	ID       int64             `json:"id"`
	OrderID  int64             `json:"order_id"`
	Type     enums.InvoiceType `json:"type"`
	Number   string            `json:"number"`
	Amount   decimal.Decimal   `json:"amount"`
	IssuedAt time.Time         `json:"issued_at"`
}
