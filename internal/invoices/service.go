package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db"
	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines invoice operations.
type Service interface {
	ListForOrder(ctx context.Context, orderID int64) ([]InvoiceView, error)
	Generate(ctx context.Context, input GenerateInput) (*InvoiceView, error)
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the invoices service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) ListForOrder(ctx context.Context, orderID int64) ([]InvoiceView, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if _, err := s.repo.FindOrder(ctx, orderID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	rows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}

	views := make([]InvoiceView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return views, nil
}

func (s *service) Generate(ctx context.Context, input GenerateInput) (*InvoiceView, error) {
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown invoice type %q", string(input.Type))
	}

	var created models.Invoice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if _, err := repo.FindByOrderAndType(ctx, input.OrderID, input.Type); err == nil {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "%s invoice already exists for order %d", input.Type, input.OrderID)
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing invoice")
		}

		amount, err := invoiceAmount(order, input.Type)
		if err != nil {
			return err
		}

		issuedAt := s.now().UTC()
		created = models.Invoice{
			OrderID:  order.ID,
			Type:     input.Type,
			Number:   invoiceNumber(input.Type, order.ID, issuedAt),
			Amount:   amount,
			IssuedAt: issuedAt,
		}
		if err := repo.CreateInvoice(ctx, &created); err != nil {
			// concurrent generation lost the race to the unique index
			if db.IsUniqueViolation(err, "idx_invoices_order_type") {
				return pkgerrors.Newf(pkgerrors.CodeConflict, "%s invoice already exists for order %d", input.Type, input.OrderID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := toView(created)
	return &view, nil
}

// invoiceAmount derives the billed amount from the order. Credit notes
// bill the refunded amount, which requires the refund to exist first.
func invoiceAmount(order *models.Order, invoiceType enums.InvoiceType) (decimal.Decimal, error) {
	if invoiceType == enums.InvoiceTypeCreditNote {
		if order.RefundAmount == nil {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict, "credit note requires a refunded order")
		}
		return *order.RefundAmount, nil
	}
	return order.TotalAmount, nil
}

func invoiceNumber(invoiceType enums.InvoiceType, orderID int64, issuedAt time.Time) string {
	prefix := "INV"
	switch invoiceType {
	case enums.InvoiceTypeProforma:
		prefix = "PF"
	case enums.InvoiceTypeCommercial:
		prefix = "CI"
	case enums.InvoiceTypeCreditNote:
		prefix = "CN"
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, issuedAt.Year(), orderID)
}

func toView(invoice models.Invoice) InvoiceView {
	return InvoiceView{
		ID:       invoice.ID,
		OrderID:  invoice.OrderID,
		Type:     invoice.Type,
		Number:   invoice.Number,
		Amount:   invoice.Amount,
		IssuedAt: invoice.IssuedAt,
	}
}
