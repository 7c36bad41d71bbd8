package marketing

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
)

// Repository defines persistence operations for banners, the home grid
// and flash sales.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListBanners(ctx context.Context) ([]models.Banner, error)
	FindBanner(ctx context.Context, id int64) (*models.Banner, error)
	CreateBanner(ctx context.Context, banner *models.Banner) error
	UpdateBanner(ctx context.Context, id int64, updates map[string]any) error
	DeleteBanner(ctx context.Context, id int64) error

	ListGridElements(ctx context.Context) ([]models.GridElement, error)
	FindGridElement(ctx context.Context, id int64) (*models.GridElement, error)
	CreateGridElement(ctx context.Context, element *models.GridElement) error
	UpdateGridElement(ctx context.Context, id int64, updates map[string]any) error
	DeleteGridElement(ctx context.Context, id int64) error

	ListFlashSales(ctx context.Context) ([]models.FlashSale, error)
	FindFlashSale(ctx context.Context, id int64) (*models.FlashSale, error)
	ListSaleProducts(ctx context.Context, saleID int64) ([]models.FlashSaleProduct, error)
	FindProducts(ctx context.Context, ids []int64) ([]models.Product, error)
}

// HomeCacheBuster invalidates the storefront home cache after a
// marketing mutation. The legacy backend client implements it.
type HomeCacheBuster interface {
	ClearHomeCache(ctx context.Context) error
}
