package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/api/validators"
	"github.com/marketa-app/admin-backend/internal/invoices"
	"github.com/marketa-app/admin-backend/internal/orders"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

type orderStatusRequest struct {
	Status    *int    `json:"status" validate:"omitempty,min=0,max=10"`
	StatusKey *string `json:"status_key" validate:"omitempty,min=1"`
}

type orderRefundRequest struct {
	Amount *string `json:"amount" validate:"omitempty,min=1"`
}

type invoiceGenerateRequest struct {
	Type string `json:"type" validate:"required,oneof=proforma commercial credit_note"`
}

// OrderList serves the paginated order listing. Filters arrive as query
// parameters and are all optional.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// OrderUpdateStatus transitions an order. The body carries either a
// numeric legacy status or a workflow status key, never both.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch {
		case body.Status != nil && body.StatusKey != nil:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "provide either status or status_key, not both"))
			return
		case body.Status != nil:
			status, perr := enums.ParseLegacyOrderStatus(*body.Status)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "unknown order status"))
				return
			}
			err = svc.TransitionLegacy(r.Context(), orders.LegacyTransitionInput{
				OrderID:   id,
				NewStatus: status,
			})
		case body.StatusKey != nil:
			key, perr := enums.ParseWorkflowStatusKey(*body.StatusKey)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "unknown workflow status"))
				return
			}
			err = svc.TransitionWorkflow(r.Context(), orders.WorkflowTransitionInput{
				OrderID:   id,
				StatusKey: key,
			})
		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "status or status_key is required"))
			return
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// OrderRefund refunds an order. An omitted amount refunds the sum of
// the non-cancelled line totals.
func OrderRefund(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// amount is optional, so the body may be omitted entirely
		var body orderRefundRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := orders.RefundInput{OrderID: id}
		if body.Amount != nil {
			amount, perr := decimal.NewFromString(*body.Amount)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal number"))
				return
			}
			input.Amount = &amount
		}

		refunded, err := svc.Refund(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"refund_amount": refunded.String()})
	}
}

// OrderRecomputeStatus re-derives the composite order status from the
// item states and reports whether it changed.
func OrderRecomputeStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RecomputeAggregate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func OrderInvoices(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderGenerateInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body invoiceGenerateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoiceType, err := enums.ParseInvoiceType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown invoice type"))
			return
		}

		view, err := svc.Generate(r.Context(), invoices.GenerateInput{OrderID: id, Type: invoiceType})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func parseOrderFilters(r *http.Request) (orders.OrderFilters, error) {
	var filters orders.OrderFilters
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		value, err := validators.ParseQueryInt(r, "status", 0, 0, 10)
		if err != nil {
			return filters, err
		}
		status, err := enums.ParseLegacyOrderStatus(value)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status")
		}
		filters.LegacyStatus = &status
	}
	if raw := query.Get("workflow_status"); raw != "" {
		key, err := enums.ParseWorkflowStatusKey(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown workflow status")
		}
		filters.WorkflowKey = &key
	}
	if query.Get("customer_id") != "" {
		value, err := validators.ParseQueryInt(r, "customer_id", 0, 1, math.MaxInt32)
		if err != nil {
			return filters, err
		}
		customerID := int64(value)
		filters.CustomerID = &customerID
	}

	from, err := parseDateParam(query.Get("date_from"))
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := parseDateParam(query.Get("date_to"))
	if err != nil {
		return filters, err
	}
	if to != nil {
		// upper bound is inclusive of the whole day when only a date is given
		if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 {
			end := to.Add(24*time.Hour - time.Nanosecond)
			to = &end
		}
		filters.DateTo = to
	}

	return filters, nil
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "dates must be RFC3339 or YYYY-MM-DD").
		WithDetails(map[string]any{"value": raw})
}
