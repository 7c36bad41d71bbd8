package marketing

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/internal/pricing"
	"github.com/marketa-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines marketing operations for the back office.
type Service interface {
	ListBanners(ctx context.Context) ([]models.Banner, error)
	CreateBanner(ctx context.Context, input BannerInput) (*models.Banner, error)
	UpdateBanner(ctx context.Context, id int64, input BannerInput) error
	DeleteBanner(ctx context.Context, id int64) error

	ListGridElements(ctx context.Context) ([]models.GridElement, error)
	CreateGridElement(ctx context.Context, input GridElementInput) (*models.GridElement, error)
	UpdateGridElement(ctx context.Context, id int64, input GridElementInput) error
	DeleteGridElement(ctx context.Context, id int64) error

	ListFlashSales(ctx context.Context) ([]FlashSaleView, error)
	SaleProducts(ctx context.Context, saleID int64) ([]SaleProductView, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	converter *pricing.Converter
	cache     HomeCacheBuster
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the marketing service. The cache buster is called
// after every successful banner or grid mutation; its failures are
// logged and swallowed so the storefront cache going stale never fails
// an admin write.
func NewService(repo Repository, tx txRunner, converter *pricing.Converter, cache HomeCacheBuster, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("marketing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if converter == nil {
		return nil, fmt.Errorf("pricing converter required")
	}
	if cache == nil {
		return nil, fmt.Errorf("home cache buster required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, converter: converter, cache: cache, logg: logg, now: time.Now}, nil
}

func (s *service) ListBanners(ctx context.Context) ([]models.Banner, error) {
	rows, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return rows, nil
}

func (s *service) CreateBanner(ctx context.Context, input BannerInput) (*models.Banner, error) {
	if input.Title == nil || *input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner title required")
	}
	if input.ImageURL == nil || *input.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner image required")
	}
	if input.Placement == nil || !input.Placement.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown banner placement")
	}

	banner := models.Banner{
		Title:     *input.Title,
		ImageURL:  *input.ImageURL,
		Placement: *input.Placement,
		Display:   true,
	}
	if input.LinkURL != nil {
		banner.LinkURL = *input.LinkURL
	}
	if input.Display != nil {
		banner.Display = *input.Display
	}
	if input.OrderNumber != nil {
		banner.OrderNumber = *input.OrderNumber
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateBanner(ctx, &banner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bustHomeCache(ctx)
	return &banner, nil
}

func (s *service) UpdateBanner(ctx context.Context, id int64, input BannerInput) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.LinkURL != nil {
		updates["link_url"] = *input.LinkURL
	}
	if input.Placement != nil {
		if !input.Placement.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown banner placement")
		}
		updates["placement"] = *input.Placement
	}
	if input.Display != nil {
		updates["display"] = *input.Display
	}
	if input.OrderNumber != nil {
		updates["order_number"] = *input.OrderNumber
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindBanner(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
		}
		if err := repo.UpdateBanner(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.bustHomeCache(ctx)
	return nil
}

func (s *service) DeleteBanner(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindBanner(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
		}
		if err := repo.DeleteBanner(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.bustHomeCache(ctx)
	return nil
}

func (s *service) ListGridElements(ctx context.Context) ([]models.GridElement, error) {
	rows, err := s.repo.ListGridElements(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list grid elements")
	}
	return rows, nil
}

func (s *service) CreateGridElement(ctx context.Context, input GridElementInput) (*models.GridElement, error) {
	if input.Title == nil || *input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grid element title required")
	}
	if input.ImageURL == nil || *input.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grid element image required")
	}
	if input.TargetType == nil || *input.TargetType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grid element target type required")
	}
	if input.TargetID == nil || *input.TargetID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grid element target id required")
	}

	element := models.GridElement{
		Title:      *input.Title,
		ImageURL:   *input.ImageURL,
		TargetType: *input.TargetType,
		TargetID:   *input.TargetID,
		Display:    true,
	}
	if input.Position != nil {
		element.Position = *input.Position
	}
	if input.Display != nil {
		element.Display = *input.Display
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateGridElement(ctx, &element); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create grid element")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bustHomeCache(ctx)
	return &element, nil
}

func (s *service) UpdateGridElement(ctx context.Context, id int64, input GridElementInput) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "grid element id required")
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.TargetType != nil {
		updates["target_type"] = *input.TargetType
	}
	if input.TargetID != nil {
		updates["target_id"] = *input.TargetID
	}
	if input.Position != nil {
		updates["position"] = *input.Position
	}
	if input.Display != nil {
		updates["display"] = *input.Display
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindGridElement(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "grid element not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load grid element")
		}
		if err := repo.UpdateGridElement(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update grid element")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.bustHomeCache(ctx)
	return nil
}

func (s *service) DeleteGridElement(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "grid element id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindGridElement(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "grid element not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load grid element")
		}
		if err := repo.DeleteGridElement(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete grid element")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.bustHomeCache(ctx)
	return nil
}

func (s *service) ListFlashSales(ctx context.Context) ([]FlashSaleView, error) {
	rows, err := s.repo.ListFlashSales(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list flash sales")
	}

	now := s.now().UTC()
	views := make([]FlashSaleView, 0, len(rows))
	for _, sale := range rows {
		views = append(views, FlashSaleView{
			ID:        sale.ID,
			Name:      sale.Name,
			StartsAt:  sale.StartsAt,
			EndsAt:    sale.EndsAt,
			Active:    sale.Active,
			Running:   sale.Active && !now.Before(sale.StartsAt) && now.Before(sale.EndsAt),
			CreatedAt: sale.CreatedAt,
		})
	}
	return views, nil
}

func (s *service) SaleProducts(ctx context.Context, saleID int64) ([]SaleProductView, error) {
	if saleID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "flash sale id required")
	}

	if _, err := s.repo.FindFlashSale(ctx, saleID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "flash sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load flash sale")
	}

	entries, err := s.repo.ListSaleProducts(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sale products")
	}

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ProductID)
	}
	products, err := s.repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale product rows")
	}
	byID := make(map[int64]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	views := make([]SaleProductView, 0, len(entries))
	for _, entry := range entries {
		product, ok := byID[entry.ProductID]
		if !ok {
			continue
		}
		views = append(views, SaleProductView{
			ProductID:    product.ID,
			Name:         product.Name,
			MainImage:    product.MainImage,
			OriginPrice:  product.OriginPrice,
			SalePrice:    entry.SalePrice,
			PriceUSD:     s.converter.ToUSD(product.OriginPrice, product.CurrencyID),
			SalePriceUSD: s.converter.ToUSD(entry.SalePrice, product.CurrencyID),
			Stock:        entry.Stock,
		})
	}
	return views, nil
}

// bustHomeCache asks the legacy backend to drop its cached home screen.
// Best effort: a failure leaves the cache stale until its own TTL.
func (s *service) bustHomeCache(ctx context.Context) {
	if err := s.cache.ClearHomeCache(ctx); err != nil {
		s.logg.Error(ctx, "clearing legacy home cache", err)
	}
}
