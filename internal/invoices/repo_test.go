package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

func setupInvoicesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Invoice{},
	))
	return db
}

func seedInvoiceOrder(t *testing.T, db *gorm.DB) models.Order {
	t.Helper()
	order := models.Order{
		CustomerID:  1,
		TotalAmount: decimal.RequireFromString("55.00"),
		ShippingFee: decimal.RequireFromString("5.00"),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestRepoCreateAndListInvoices(t *testing.T) {
	db := setupInvoicesTestDB(t)
	order := seedInvoiceOrder(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	first := models.Invoice{
		OrderID: order.ID, Type: enums.InvoiceTypeProforma,
		Number: "PF-2026-000001", Amount: order.TotalAmount, IssuedAt: time.Now().UTC(),
	}
	second := models.Invoice{
		OrderID: order.ID, Type: enums.InvoiceTypeCommercial,
		Number: "CI-2026-000001", Amount: order.TotalAmount, IssuedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateInvoice(ctx, &first))
	require.NoError(t, repo.CreateInvoice(ctx, &second))

	rows, err := repo.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, enums.InvoiceTypeProforma, rows[0].Type)
	assert.Equal(t, enums.InvoiceTypeCommercial, rows[1].Type)
}

func TestRepoDuplicateTypeHitsUniqueIndex(t *testing.T) {
	db := setupInvoicesTestDB(t)
	order := seedInvoiceOrder(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	first := models.Invoice{
		OrderID: order.ID, Type: enums.InvoiceTypeProforma,
		Number: "PF-2026-000001", Amount: order.TotalAmount, IssuedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateInvoice(ctx, &first))

	duplicate := models.Invoice{
		OrderID: order.ID, Type: enums.InvoiceTypeProforma,
		Number: "PF-2026-000001-bis", Amount: order.TotalAmount, IssuedAt: time.Now().UTC(),
	}
	assert.Error(t, repo.CreateInvoice(ctx, &duplicate))
}

func TestRepoFindByOrderAndType(t *testing.T) {
	db := setupInvoicesTestDB(t)
	order := seedInvoiceOrder(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	invoice := models.Invoice{
		OrderID: order.ID, Type: enums.InvoiceTypeCreditNote,
		Number: "CN-2026-000001", Amount: decimal.RequireFromString("50.00"), IssuedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateInvoice(ctx, &invoice))

	found, err := repo.FindByOrderAndType(ctx, order.ID, enums.InvoiceTypeCreditNote)
	require.NoError(t, err)
	assert.Equal(t, "CN-2026-000001", found.Number)

	_, err = repo.FindByOrderAndType(ctx, order.ID, enums.InvoiceTypeProforma)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
