package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
)

type stubInvoicesRepo struct {
	orders   map[int64]models.Order
	invoices []models.Invoice
	nextID   int64
}

func (r *stubInvoicesRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubInvoicesRepo) FindOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}

func (r *stubInvoicesRepo) FindByOrderAndType(ctx context.Context, orderID int64, invoiceType enums.InvoiceType) (*models.Invoice, error) {
	for _, invoice := range r.invoices {
		if invoice.OrderID == orderID && invoice.Type == invoiceType {
			found := invoice
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoicesRepo) ListByOrder(ctx context.Context, orderID int64) ([]models.Invoice, error) {
	var rows []models.Invoice
	for _, invoice := range r.invoices {
		if invoice.OrderID == orderID {
			rows = append(rows, invoice)
		}
	}
	return rows, nil
}

func (r *stubInvoicesRepo) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	r.nextID++
	invoice.ID = r.nextID
	r.invoices = append(r.invoices, *invoice)
	return nil
}

type stubInvoicesTx struct{}

func (stubInvoicesTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newInvoicesService(t *testing.T, repo *stubInvoicesRepo) *service {
	t.Helper()
	svc, err := NewService(repo, stubInvoicesTx{})
	require.NoError(t, err)
	concrete := svc.(*service)
	concrete.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return concrete
}

func refundOf(value string) *decimal.Decimal {
	amount := decimal.RequireFromString(value)
	return &amount
}

func TestGenerateCommercialInvoice(t *testing.T) {
	repo := &stubInvoicesRepo{orders: map[int64]models.Order{
		42: {ID: 42, TotalAmount: decimal.RequireFromString("120.50")},
	}}
	svc := newInvoicesService(t, repo)

	view, err := svc.Generate(context.Background(), GenerateInput{OrderID: 42, Type: enums.InvoiceTypeCommercial})
	require.NoError(t, err)

	assert.Equal(t, "CI-2026-000042", view.Number)
	assert.True(t, view.Amount.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, enums.InvoiceTypeCommercial, view.Type)
}

func TestGenerateDuplicateTypeConflicts(t *testing.T) {
	repo := &stubInvoicesRepo{orders: map[int64]models.Order{
		42: {ID: 42, TotalAmount: decimal.RequireFromString("10")},
	}}
	svc := newInvoicesService(t, repo)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateInput{OrderID: 42, Type: enums.InvoiceTypeProforma})
	require.NoError(t, err)

	_, err = svc.Generate(ctx, GenerateInput{OrderID: 42, Type: enums.InvoiceTypeProforma})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	// a different type for the same order is still fine
	_, err = svc.Generate(ctx, GenerateInput{OrderID: 42, Type: enums.InvoiceTypeCommercial})
	require.NoError(t, err)
}

func TestGenerateCreditNoteUsesRefundAmount(t *testing.T) {
	repo := &stubInvoicesRepo{orders: map[int64]models.Order{
		7: {ID: 7, TotalAmount: decimal.RequireFromString("200"), RefundAmount: refundOf("180.00")},
	}}
	svc := newInvoicesService(t, repo)

	view, err := svc.Generate(context.Background(), GenerateInput{OrderID: 7, Type: enums.InvoiceTypeCreditNote})
	require.NoError(t, err)

	assert.Equal(t, "CN-2026-000007", view.Number)
	assert.True(t, view.Amount.Equal(decimal.RequireFromString("180.00")))
}

func TestGenerateCreditNoteWithoutRefund(t *testing.T) {
	repo := &stubInvoicesRepo{orders: map[int64]models.Order{
		7: {ID: 7, TotalAmount: decimal.RequireFromString("200")},
	}}
	svc := newInvoicesService(t, repo)

	_, err := svc.Generate(context.Background(), GenerateInput{OrderID: 7, Type: enums.InvoiceTypeCreditNote})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestGenerateUnknownOrder(t *testing.T) {
	svc := newInvoicesService(t, &stubInvoicesRepo{orders: map[int64]models.Order{}})

	_, err := svc.Generate(context.Background(), GenerateInput{OrderID: 404, Type: enums.InvoiceTypeProforma})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestGenerateUnknownType(t *testing.T) {
	svc := newInvoicesService(t, &stubInvoicesRepo{orders: map[int64]models.Order{}})

	_, err := svc.Generate(context.Background(), GenerateInput{OrderID: 1, Type: enums.InvoiceType("receipt")})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestListForOrder(t *testing.T) {
	repo := &stubInvoicesRepo{orders: map[int64]models.Order{
		42: {ID: 42, TotalAmount: decimal.RequireFromString("10")},
	}}
	svc := newInvoicesService(t, repo)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateInput{OrderID: 42, Type: enums.InvoiceTypeProforma})
	require.NoError(t, err)
	_, err = svc.Generate(ctx, GenerateInput{OrderID: 42, Type: enums.InvoiceTypeCommercial})
	require.NoError(t, err)

	views, err := svc.ListForOrder(ctx, 42)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, enums.InvoiceTypeProforma, views[0].Type)
	assert.Equal(t, enums.InvoiceTypeCommercial, views[1].Type)
}

func TestListForOrderNotFound(t *testing.T) {
	svc := newInvoicesService(t, &stubInvoicesRepo{orders: map[int64]models.Order{}})

	_, err := svc.ListForOrder(context.Background(), 404)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
