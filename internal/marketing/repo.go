package marketing

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a marketing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var rows []models.Banner
	err := r.db.WithContext(ctx).
		Order("placement ASC, order_number ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindBanner(ctx context.Context, id int64) (*models.Banner, error) {
	var banner models.Banner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&banner).Error
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *repository) CreateBanner(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *repository) UpdateBanner(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteBanner(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Banner{}).Error
}

func (r *repository) ListGridElements(ctx context.Context) ([]models.GridElement, error) {
	var rows []models.GridElement
	err := r.db.WithContext(ctx).
		Order("position ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindGridElement(ctx context.Context, id int64) (*models.GridElement, error) {
	var element models.GridElement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&element).Error
	if err != nil {
		return nil, err
	}
	return &element, nil
}

func (r *repository) CreateGridElement(ctx context.Context, element *models.GridElement) error {
	return r.db.WithContext(ctx).Create(element).Error
}

func (r *repository) UpdateGridElement(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.GridElement{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteGridElement(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.GridElement{}).Error
}

func (r *repository) ListFlashSales(ctx context.Context) ([]models.FlashSale, error) {
	var rows []models.FlashSale
	err := r.db.WithContext(ctx).
		Order("starts_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindFlashSale(ctx context.Context, id int64) (*models.FlashSale, error) {
	var sale models.FlashSale
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListSaleProducts(ctx context.Context, saleID int64) ([]models.FlashSaleProduct, error) {
	var rows []models.FlashSaleProduct
	err := r.db.WithContext(ctx).
		Where("flash_sale_id = ?", saleID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindProducts(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
