package controllers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/api/validators"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/legacy"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

// ShippingRater prices a parcel through the storefront backend.
type ShippingRater interface {
	CalculateShippingRate(ctx context.Context, req legacy.ShippingRateRequest) (decimal.Decimal, error)
}

type shippingEstimateRequest struct {
	CategoryID int64  `json:"category_id" validate:"required,min=1"`
	Weight     string `json:"weight" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// ShippingEstimate proxies a rate calculation to the storefront.
func ShippingEstimate(rater ShippingRater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body shippingEstimateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		weight, err := decimal.NewFromString(body.Weight)
		if err != nil || weight.Sign() <= 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "weight must be a positive decimal"))
			return
		}

		rate, err := rater.CalculateShippingRate(r.Context(), legacy.ShippingRateRequest{
			CategoryID: body.CategoryID,
			Weight:     weight,
			Quantity:   body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "shipping rate unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"rate": rate.String()})
	}
}
