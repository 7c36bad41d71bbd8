package controllers

import (
	"net/http"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/api/validators"
	"github.com/marketa-app/admin-backend/internal/notifications"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

type notificationCreateRequest struct {
	Title      string            `json:"title" validate:"required,min=1,max=200"`
	Body       string            `json:"body" validate:"required,min=1,max=2000"`
	Audience   string            `json:"audience" validate:"required,oneof=broadcast customer"`
	CustomerID *int64            `json:"customer_id" validate:"omitempty,min=1"`
	Data       map[string]string `json:"data" validate:"omitempty,max=20"`
}

// NotificationCreate records a notification and fans it out to the
// matching device tokens.
func NotificationCreate(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body notificationCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		audience, err := enums.ParseNotificationAudience(body.Audience)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown notification audience"))
			return
		}

		view, err := svc.Create(r.Context(), notifications.CreateInput{
			Title:      body.Title,
			Body:       body.Body,
			Audience:   audience,
			CustomerID: body.CustomerID,
			Data:       body.Data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func NotificationList(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
