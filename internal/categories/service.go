package categories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/cache"
	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines category tree operations.
type Service interface {
	Roots(ctx context.Context) ([]Node, error)
	Children(ctx context.Context, parentID int64) ([]Node, error)
	FullTree(ctx context.Context) ([]Node, error)
	Get(ctx context.Context, id int64) (*Node, error)
	Update(ctx context.Context, id int64, input UpdateInput) error
	SetExcluded(ctx context.Context, id int64, excluded bool) error
	Reorder(ctx context.Context, input ReorderInput) error
}

type service struct {
	repo Repository
	tx   txRunner

	treeCache     *cache.Loader[[]models.Category]
	excludedCache *cache.Loader[map[int64]bool]
}

// NewService builds the category tree service. The full-tree read and
// the exclusion closure each sit behind a coalescing TTL cache; every
// write path invalidates both so readers never wait out the TTL after
// a mutation.
func NewService(repo Repository, tx txRunner, cfg config.CategoryCacheConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}

	s := &service{repo: repo, tx: tx}
	s.treeCache = cache.NewLoader("categories.full_tree", cfg.TreeTTL, func(ctx context.Context) ([]models.Category, error) {
		return repo.ListAll(ctx)
	})
	s.excludedCache = cache.NewLoader("categories.excluded", cfg.ExcludedTTL, func(ctx context.Context) (map[int64]bool, error) {
		all, err := repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		direct, err := repo.ListExcludedIDs(ctx)
		if err != nil {
			return nil, err
		}
		return ExclusionClosure(all, direct), nil
	})
	return s, nil
}

func (s *service) Roots(ctx context.Context) ([]Node, error) {
	rows, err := s.repo.ListRoots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list root categories")
	}
	return s.decorate(ctx, rows)
}

func (s *service) Children(ctx context.Context, parentID int64) ([]Node, error) {
	if parentID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent id required")
	}
	rows, err := s.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list child categories")
	}
	return s.decorate(ctx, rows)
}

func (s *service) FullTree(ctx context.Context) ([]Node, error) {
	rows, err := s.treeCache.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load full tree")
	}
	return s.decorate(ctx, rows)
}

func (s *service) Get(ctx context.Context, id int64) (*Node, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	excluded, err := s.excludedCache.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exclusion closure")
	}
	return &Node{Category: *category, IsExcluded: excluded[category.ID]}, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.NameEn != nil {
		updates["name_en"] = *input.NameEn
	}
	if input.NameCn != nil {
		updates["name_cn"] = *input.NameCn
	}
	if input.Slug != nil {
		updates["slug"] = *input.Slug
	}
	if input.MainImage != nil {
		updates["main_image"] = *input.MainImage
	}
	if input.Display != nil {
		updates["display"] = *input.Display
	}
	if input.AirShippingRate != nil {
		updates["air_shipping_rate"] = *input.AirShippingRate
	}
	if input.SeaShippingRate != nil {
		updates["sea_shipping_rate"] = *input.SeaShippingRate
	}
	if input.CBMRate != nil {
		updates["cbm_rate"] = *input.CBMRate
	}
	if input.SurchargePercent != nil {
		updates["surcharge_percent"] = *input.SurchargePercent
	}
	if input.MinAirQuantity != nil {
		updates["min_air_quantity"] = *input.MinAirQuantity
	}
	if input.MinSeaQuantity != nil {
		updates["min_sea_quantity"] = *input.MinSeaQuantity
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindCategory(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		if err := repo.UpdateCategory(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}

func (s *service) SetExcluded(ctx context.Context, id int64, excluded bool) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindCategory(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		if excluded {
			if err := repo.AddExclusion(ctx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add exclusion")
			}
			return nil
		}
		if err := repo.RemoveExclusion(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove exclusion")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}

func (s *service) Reorder(ctx context.Context, input ReorderInput) error {
	if input.CategoryID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if input.Position < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "position cannot be negative")
	}
	if input.NewParentID != nil && *input.NewParentID == input.CategoryID {
		return pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		dragged, err := repo.FindCategory(ctx, input.CategoryID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		if sameParent(dragged.ParentID, input.NewParentID) {
			return s.reorderSiblings(ctx, repo, dragged, input.Position)
		}
		return s.reparent(ctx, repo, dragged, input.NewParentID, input.Position)
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// reorderSiblings renumbers order_number under the unchanged parent.
func (s *service) reorderSiblings(ctx context.Context, repo Repository, dragged *models.Category, position int) error {
	siblings, err := s.siblingsOf(ctx, repo, dragged.ParentID)
	if err != nil {
		return err
	}

	reordered := make([]models.Category, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID != dragged.ID {
			reordered = append(reordered, sibling)
		}
	}
	if position > len(reordered) {
		position = len(reordered)
	}
	reordered = append(reordered[:position], append([]models.Category{*dragged}, reordered[position:]...)...)

	for index, sibling := range reordered {
		if sibling.OrderNumber == index {
			continue
		}
		if err := repo.UpdateCategory(ctx, sibling.ID, map[string]any{"order_number": index}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "renumber sibling")
		}
	}
	return nil
}

// reparent moves the category under a new parent and renumbers both
// sibling groups. The move is rejected when the target parent sits in
// the dragged category's own subtree.
func (s *service) reparent(ctx context.Context, repo Repository, dragged *models.Category, newParentID *int64, position int) error {
	newLevel := 0
	if newParentID != nil && *newParentID != 0 {
		parent, err := repo.FindCategory(ctx, *newParentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "target parent not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load target parent")
		}

		all, err := repo.ListAll(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan categories")
		}
		byID := make(map[int64]models.Category, len(all))
		for _, category := range all {
			byID[category.ID] = category
		}
		if isDescendant(byID, parent.ID, dragged.ID) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move a category into its own subtree")
		}
		newLevel = parent.Level + 1
	}

	oldParentID := dragged.ParentID

	newSiblings, err := s.siblingsOf(ctx, repo, newParentID)
	if err != nil {
		return err
	}
	if position > len(newSiblings) {
		position = len(newSiblings)
	}

	updates := map[string]any{
		"parent":       nil,
		"level":        newLevel,
		"order_number": position,
	}
	if newParentID != nil && *newParentID != 0 {
		updates["parent"] = *newParentID
	}
	if err := repo.UpdateCategory(ctx, dragged.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reparent category")
	}

	// shift the new siblings at and after the insertion point
	for _, sibling := range newSiblings {
		if sibling.OrderNumber >= position {
			if err := repo.UpdateCategory(ctx, sibling.ID, map[string]any{"order_number": sibling.OrderNumber + 1}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "shift sibling")
			}
		}
	}

	if err := s.refreshHasChildren(ctx, repo, oldParentID); err != nil {
		return err
	}
	return s.refreshHasChildren(ctx, repo, newParentID)
}

func (s *service) refreshHasChildren(ctx context.Context, repo Repository, parentID *int64) error {
	if parentID == nil || *parentID == 0 {
		return nil
	}
	count, err := repo.CountChildren(ctx, *parentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count children")
	}
	if err := repo.UpdateCategory(ctx, *parentID, map[string]any{"has_children": count > 0}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh has_children")
	}
	return nil
}

func (s *service) siblingsOf(ctx context.Context, repo Repository, parentID *int64) ([]models.Category, error) {
	if parentID == nil || *parentID == 0 {
		rows, err := repo.ListRoots(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list root siblings")
		}
		return rows, nil
	}
	rows, err := repo.ListChildren(ctx, *parentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list siblings")
	}
	return rows, nil
}

func (s *service) decorate(ctx context.Context, rows []models.Category) ([]Node, error) {
	excluded, err := s.excludedCache.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exclusion closure")
	}

	nodes := make([]Node, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, Node{Category: row, IsExcluded: excluded[row.ID]})
	}
	return nodes, nil
}

func (s *service) invalidate() {
	s.treeCache.Invalidate()
	s.excludedCache.Invalidate()
}

func sameParent(a, b *int64) bool {
	normalize := func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return normalize(a) == normalize(b)
}
