package controllers

import (
	"math"
	"net/http"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/api/validators"
	"github.com/marketa-app/admin-backend/internal/products"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

// ProductList serves the paginated catalog listing with USD prices
// resolved. An optional category_id query scopes it to one category.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters products.ProductFilters
		if r.URL.Query().Get("category_id") != "" {
			value, err := validators.ParseQueryInt(r, "category_id", 0, 1, math.MaxInt32)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			categoryID := int64(value)
			filters.CategoryID = &categoryID
		}
		if r.URL.Query().Get("display_only") == "true" {
			filters.DisplayOnly = true
		}

		list, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CategoryProducts lists one category's products, paginated.
func CategoryProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.URLParamID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), products.ProductFilters{CategoryID: &categoryID}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
