package categories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marketa-app/admin-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a categories repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Order("level ASC, order_number ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListRoots(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("parent IS NULL OR parent = 0").
		Order("order_number ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListChildren(ctx context.Context, parentID int64) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("parent = ?", parentID).
		Order("order_number ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CountChildren(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("parent = ?", parentID).
		Count(&count).Error
	return count, err
}

func (r *repository) ListExcludedIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.ExcludedCategory{}).
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) AddExclusion(ctx context.Context, categoryID int64) error {
	row := models.ExcludedCategory{CategoryID: categoryID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *repository) RemoveExclusion(ctx context.Context, categoryID int64) error {
	return r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&models.ExcludedCategory{}).Error
}
