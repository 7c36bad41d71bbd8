package controllers

import (
	"net/http"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/api/validators"
	"github.com/marketa-app/admin-backend/internal/marketing"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

type bannerRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	ImageURL    *string `json:"image_url" validate:"omitempty,min=1,max=500"`
	LinkURL     *string `json:"link_url" validate:"omitempty,max=500"`
	Placement   *string `json:"placement" validate:"omitempty,oneof=home_top home_middle category"`
	Display     *bool   `json:"display"`
	OrderNumber *int    `json:"order_number" validate:"omitempty,min=0"`
}

type gridElementRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=200"`
	ImageURL   *string `json:"image_url" validate:"omitempty,min=1,max=500"`
	TargetType *string `json:"target_type" validate:"omitempty,oneof=category product sale url"`
	TargetID   *int64  `json:"target_id" validate:"omitempty,min=1"`
	Position   *int    `json:"position" validate:"omitempty,min=0"`
	Display    *bool   `json:"display"`
}

func BannerList(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banners, err := svc.ListBanners(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banners)
	}
}

func BannerCreate(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeBannerInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.CreateBanner(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, banner)
	}
}

func BannerUpdate(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeBannerInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateBanner(r.Context(), id, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func BannerDelete(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBanner(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GridElementList(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		elements, err := svc.ListGridElements(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, elements)
	}
}

func GridElementCreate(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body gridElementRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		element, err := svc.CreateGridElement(r.Context(), gridInput(body))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, element)
	}
}

func GridElementUpdate(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "elementId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body gridElementRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateGridElement(r.Context(), id, gridInput(body)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func GridElementDelete(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "elementId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteGridElement(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func FlashSaleList(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales, err := svc.ListFlashSales(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales)
	}
}

func FlashSaleProducts(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.SaleProducts(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func decodeBannerInput(r *http.Request) (marketing.BannerInput, error) {
	var body bannerRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return marketing.BannerInput{}, err
	}

	input := marketing.BannerInput{
		Title:       body.Title,
		ImageURL:    body.ImageURL,
		LinkURL:     body.LinkURL,
		Display:     body.Display,
		OrderNumber: body.OrderNumber,
	}
	if body.Placement != nil {
		placement, err := enums.ParseBannerPlacement(*body.Placement)
		if err != nil {
			return marketing.BannerInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown banner placement")
		}
		input.Placement = &placement
	}
	return input, nil
}

func gridInput(body gridElementRequest) marketing.GridElementInput {
	return marketing.GridElementInput{
		Title:      body.Title,
		ImageURL:   body.ImageURL,
		TargetType: body.TargetType,
		TargetID:   body.TargetID,
		Position:   body.Position,
		Display:    body.Display,
	}
}
