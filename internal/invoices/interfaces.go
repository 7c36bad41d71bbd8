package invoices

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

// Repository defines persistence operations for invoices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrder(ctx context.Context, orderID int64) (*models.Order, error)
	FindByOrderAndType(ctx context.Context, orderID int64, invoiceType enums.InvoiceType) (*models.Invoice, error)
	ListByOrder(ctx context.Context, orderID int64) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
}
