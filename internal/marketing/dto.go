package marketing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// BannerInput carries the writable banner fields. Create requires
// Title, ImageURL and Placement; Update treats nil pointers as
// untouched columns.
type BannerInput struct {
	Title       *string
	ImageURL    *string
	LinkURL     *string
	Placement   *enums.BannerPlacement
	Display     *bool
	OrderNumber *int
}

// GridElementInput carries the writable home-grid tile fields.
type GridElementInput struct {
	Title      *string
	ImageURL   *string
	TargetType *string
	TargetID   *int64
	Position   *int
	Display    *bool
}

// FlashSaleView is one sale with its window state resolved.
type FlashSaleView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Active    bool      `json:"active"`
	Running   bool      `json:"running"`
	CreatedAt time.Time `json:"created_at"`
}

// SaleProductView is one flash-sale product with both the regular and
// the discounted USD display price.
type SaleProductView struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	MainImage    string          `json:"main_image,omitempty"`
	OriginPrice  decimal.Decimal `json:"origin_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	SalePriceUSD decimal.Decimal `json:"sale_price_usd"`
	Stock        int             `json:"stock"`
}
