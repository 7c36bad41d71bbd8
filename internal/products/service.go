package products

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/internal/pricing"
	"github.com/marketa-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

// Service defines catalog read operations.
type Service interface {
	List(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error)
	Get(ctx context.Context, id int64) (*ProductView, error)
}

type service struct {
	repo      Repository
	converter *pricing.Converter
}

// NewService builds the products service. The converter is shared with
// every other price-displaying component so the USD math stays in one
// place.
func NewService(repo Repository, converter *pricing.Converter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if converter == nil {
		return nil, fmt.Errorf("pricing converter required")
	}
	return &service{repo: repo, converter: converter}, nil
}

func (s *service) List(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error) {
	if filters.CategoryID != nil {
		if *filters.CategoryID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
		}
		exists, err := s.repo.CategoryExists(ctx, *filters.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
	}

	params.Limit = pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page, nextCursor, hasMore := pagination.Page(rows, params.Limit, func(p models.Product) int64 { return p.ID })

	list := &ProductList{
		Products: make([]ProductView, 0, len(page)),
		HasMore:  hasMore,
	}
	if hasMore {
		list.NextCursor = strconv.FormatInt(nextCursor, 10)
	}
	for _, product := range page {
		list.Products = append(list.Products, s.toView(product))
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id int64) (*ProductView, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	view := s.toView(*product)
	return &view, nil
}

func (s *service) toView(product models.Product) ProductView {
	return ProductView{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		NameCn:      product.NameCn,
		Slug:        product.Slug,
		MainImage:   product.MainImage,
		OriginPrice: product.OriginPrice,
		AppPriceUSD: s.converter.ToUSD(product.OriginPrice, product.CurrencyID),
		Display:     product.Display,
		CreatedAt:   product.CreatedAt,
	}
}
