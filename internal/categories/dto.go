package categories

import (
	"github.com/marketa-app/admin-backend/pkg/db/models"
)

// TreeMode selects which slice of the category forest a read returns.
type TreeMode string

const (
	TreeModeRoots    TreeMode = "roots"
	TreeModeChildren TreeMode = "children"
	TreeModeAll      TreeMode = "all"
)

// Node is one category row decorated with the derived exclusion flag.
type Node struct {
	models.Category
	IsExcluded bool `json:"is_excluded"`
}

// ReorderInput captures a drag-and-drop move. A nil NewParentID moves
// the category to the root level. Position is the target index among
// the (new) siblings.
type ReorderInput struct {
	CategoryID  int64
	NewParentID *int64
	Position    int
}

// UpdateInput carries the PATCHable category fields. Nil pointers leave
// the column untouched.
type UpdateInput struct {
	Name      *string
	NameEn    *string
	NameCn    *string
	Slug      *string
	MainImage *string
	Display   *bool

	AirShippingRate  *float64
	SeaShippingRate  *float64
	CBMRate          *float64
	SurchargePercent *float64
	MinAirQuantity   *int
	MinSeaQuantity   *int
}
