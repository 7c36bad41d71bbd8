package controllers

import (
	"math"
	"net/http"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/api/validators"
	"github.com/marketa-app/admin-backend/internal/categories"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

type categoryUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	NameEn    *string `json:"name_en" validate:"omitempty,max=200"`
	NameCn    *string `json:"name_cn" validate:"omitempty,max=200"`
	Slug      *string `json:"slug" validate:"omitempty,max=200"`
	MainImage *string `json:"main_image" validate:"omitempty,max=500"`
	Display   *bool   `json:"display"`

	AirShippingRate  *float64 `json:"air_shipping_rate" validate:"omitempty,gt=0"`
	SeaShippingRate  *float64 `json:"sea_shipping_rate" validate:"omitempty,gt=0"`
	CBMRate          *float64 `json:"cbm_rate" validate:"omitempty,gt=0"`
	SurchargePercent *float64 `json:"surcharge_percent" validate:"omitempty,min=0"`
	MinAirQuantity   *int     `json:"min_air_quantity" validate:"omitempty,min=0"`
	MinSeaQuantity   *int     `json:"min_sea_quantity" validate:"omitempty,min=0"`
}

type categoryReorderRequest struct {
	CategoryID  int64  `json:"category_id" validate:"required,min=1"`
	NewParentID *int64 `json:"new_parent_id"`
	Position    int    `json:"position" validate:"min=0"`
}

type categoryExcludeRequest struct {
	Excluded *bool `json:"excluded" validate:"required"`
}

// CategoryTree serves the category forest. The mode query selects roots
// (default), the children of a parent, or the flattened full tree.
func CategoryTree(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := categories.TreeMode(r.URL.Query().Get("mode"))

		switch mode {
		case "", categories.TreeModeRoots:
			nodes, err := svc.Roots(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, nodes)
		case categories.TreeModeChildren:
			parentID, err := validators.ParseQueryInt(r, "parent", 0, 1, math.MaxInt32)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			nodes, err := svc.Children(r.Context(), int64(parentID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, nodes)
		case categories.TreeModeAll:
			nodes, err := svc.FullTree(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, nodes)
		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "mode must be one of: roots, children, all"))
		}
	}
}

func CategoryDetail(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		node, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, node)
	}
}

func CategoryUpdate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body categoryUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.Update(r.Context(), id, categories.UpdateInput{
			Name:             body.Name,
			NameEn:           body.NameEn,
			NameCn:           body.NameCn,
			Slug:             body.Slug,
			MainImage:        body.MainImage,
			Display:          body.Display,
			AirShippingRate:  body.AirShippingRate,
			SeaShippingRate:  body.SeaShippingRate,
			CBMRate:          body.CBMRate,
			SurchargePercent: body.SurchargePercent,
			MinAirQuantity:   body.MinAirQuantity,
			MinSeaQuantity:   body.MinSeaQuantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func CategoryReorder(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body categoryReorderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.Reorder(r.Context(), categories.ReorderInput{
			CategoryID:  body.CategoryID,
			NewParentID: body.NewParentID,
			Position:    body.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

func CategorySetExcluded(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body categoryExcludeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetExcluded(r.Context(), id, *body.Excluded); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
