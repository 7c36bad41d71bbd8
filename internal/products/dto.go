package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductFilters narrow the product listing.
type ProductFilters struct {
	CategoryID  *int64
	DisplayOnly bool
}

// ProductView is one product with its derived USD display price.
type ProductView struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	NameCn      string          `json:"name_cn,omitempty"`
	Slug        string          `json:"slug"`
	MainImage   string          `json:"main_image,omitempty"`
	OriginPrice decimal.Decimal `json:"origin_price"`
	AppPriceUSD decimal.Decimal `json:"app_price_usd"`
	Display     bool            `json:"display"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}
