package products

import (
	"context"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

// Repository defines read operations over the catalog.
type Repository interface {
	FindProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, filters ProductFilters, page pagination.Params) ([]models.Product, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
}
