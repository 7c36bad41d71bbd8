package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/internal/pricing"
	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type stubProductsRepo struct {
	products   []models.Product
	categories map[int64]bool
}

func (r *stubProductsRepo) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	for _, product := range r.products {
		if product.ID == id {
			found := product
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductsRepo) ListProducts(ctx context.Context, filters ProductFilters, page pagination.Params) ([]models.Product, error) {
	var rows []models.Product
	for i := len(r.products) - 1; i >= 0; i-- {
		product := r.products[i]
		if filters.CategoryID != nil && product.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.DisplayOnly && !product.Display {
			continue
		}
		if page.Cursor > 0 && product.ID >= page.Cursor {
			continue
		}
		rows = append(rows, product)
		if len(rows) == pagination.LimitWithBuffer(page.Limit) {
			break
		}
	}
	return rows, nil
}

func (r *stubProductsRepo) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	return r.categories[categoryID], nil
}

func testConverter(t *testing.T) *pricing.Converter {
	t.Helper()
	converter, err := pricing.NewConverter(config.PricingConfig{
		ExchangeRate:  "0.14",
		MarkupPercent: "15",
		USDCurrencyID: 2,
	})
	require.NoError(t, err)
	return converter
}

func newProductsService(t *testing.T, repo *stubProductsRepo) Service {
	t.Helper()
	svc, err := NewService(repo, testConverter(t))
	require.NoError(t, err)
	return svc
}

func productFixture(id, categoryID int64, price string, currencyID int64) models.Product {
	return models.Product{
		ID:          id,
		CategoryID:  categoryID,
		Name:        "product",
		OriginPrice: decimal.RequireFromString(price),
		CurrencyID:  currencyID,
		Display:     true,
	}
}

func TestListConvertsPrices(t *testing.T) {
	repo := &stubProductsRepo{
		products: []models.Product{
			productFixture(1, 10, "100", 1),
			productFixture(2, 10, "20", 2),
		},
		categories: map[int64]bool{10: true},
	}
	svc := newProductsService(t, repo)

	list, err := svc.List(context.Background(), ProductFilters{}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Products, 2)
	assert.False(t, list.HasMore)

	// id DESC: the USD-priced product comes first and skips the rate
	assert.Equal(t, int64(2), list.Products[0].ID)
	assert.Equal(t, "23", list.Products[0].AppPriceUSD.String())
	assert.Equal(t, "16.1", list.Products[1].AppPriceUSD.String())
}

func TestListPaginates(t *testing.T) {
	repo := &stubProductsRepo{categories: map[int64]bool{10: true}}
	for id := int64(1); id <= 5; id++ {
		repo.products = append(repo.products, productFixture(id, 10, "10", 1))
	}
	svc := newProductsService(t, repo)
	ctx := context.Background()

	list, err := svc.List(ctx, ProductFilters{}, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, list.Products, 3)
	assert.True(t, list.HasMore)
	assert.Equal(t, "3", list.NextCursor)

	cursor, err := pagination.ParseCursor(list.NextCursor)
	require.NoError(t, err)

	rest, err := svc.List(ctx, ProductFilters{}, pagination.Params{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest.Products, 2)
	assert.False(t, rest.HasMore)
	assert.Empty(t, rest.NextCursor)
	assert.Equal(t, int64(2), rest.Products[0].ID)
	assert.Equal(t, int64(1), rest.Products[1].ID)
}

func TestListByCategory(t *testing.T) {
	repo := &stubProductsRepo{
		products: []models.Product{
			productFixture(1, 10, "10", 1),
			productFixture(2, 20, "10", 1),
		},
		categories: map[int64]bool{10: true, 20: true},
	}
	svc := newProductsService(t, repo)

	categoryID := int64(20)
	list, err := svc.List(context.Background(), ProductFilters{CategoryID: &categoryID}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, int64(2), list.Products[0].ID)
}

func TestListUnknownCategory(t *testing.T) {
	svc := newProductsService(t, &stubProductsRepo{categories: map[int64]bool{}})

	categoryID := int64(404)
	_, err := svc.List(context.Background(), ProductFilters{CategoryID: &categoryID}, pagination.Params{Limit: 10})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestGetProduct(t *testing.T) {
	repo := &stubProductsRepo{products: []models.Product{productFixture(7, 10, "33.33", 1)}}
	svc := newProductsService(t, repo)

	view, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "5.37", view.AppPriceUSD.String())
}

func TestGetProductNotFound(t *testing.T) {
	svc := newProductsService(t, &stubProductsRepo{})

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
