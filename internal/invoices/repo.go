package invoices

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoices repository bound to the provided DB.
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
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByOrderAndType(ctx context.Context, orderID int64, invoiceType enums.InvoiceType) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND type = ?", orderID, invoiceType).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID int64) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}
