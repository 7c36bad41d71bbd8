package categories

import (
	"context"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
)

// Repository defines persistence operations for the category forest and
// the exclusion marker table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindCategory(ctx context.Context, id int64) (*models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	ListRoots(ctx context.Context) ([]models.Category, error)
	ListChildren(ctx context.Context, parentID int64) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id int64, updates map[string]any) error
	CountChildren(ctx context.Context, parentID int64) (int64, error)

	ListExcludedIDs(ctx context.Context) ([]int64, error)
	AddExclusion(ctx context.Context, categoryID int64) error
	RemoveExclusion(ctx context.Context, categoryID int64) error
}
