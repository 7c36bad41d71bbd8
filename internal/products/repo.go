package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context, filters ProductFilters, page pagination.Params) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.DisplayOnly {
		query = query.Where("display = ?", true)
	}
	if page.Cursor > 0 {
		query = query.Where("id < ?", page.Cursor)
	}

	var rows []models.Product
	err := query.
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", categoryID).
		Count(&count).Error
	return count > 0, err
}
