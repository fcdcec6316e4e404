package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/services"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
	"github.com/nimasrn/cable-billing/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type duplicatePaymentResponse struct {
	Error                 string `json:"error"`
	PaymentID             int64  `json:"payment_id"`
	CollectionDate        string `json:"collection_date"`
	SubscriptionMonthName string `json:"subscription_month_name"`
	SubscriptionYear      int    `json:"subscription_year"`
}

type conflictResponse struct {
	Error string `json:"error"`
	Count int64  `json:"count"`
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode response", "error", err, "path", string(ctx.Path()))
		status = xhttp.StatusInternalServerError
		b = []byte(`{"error":"internal error"}`)
	}
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, errorResponse{Error: msg})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Storage failures are logged and reported without detail.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	var (
		dup      *services.DuplicatePaymentError
		conflict *services.ReferentialConflictError
	)
	switch {
	case errors.As(err, &dup):
		writeJSON(ctx, xhttp.StatusConflict, duplicatePaymentResponse{
			Error:                 dup.Error(),
			PaymentID:             dup.PaymentID,
			CollectionDate:        dup.CollectionDate.Format(model.DateLayout),
			SubscriptionMonthName: dup.SubscriptionMonthName,
			SubscriptionYear:      dup.SubscriptionYear,
		})
	case errors.As(err, &conflict):
		writeJSON(ctx, xhttp.StatusConflict, conflictResponse{Error: conflict.Error(), Count: conflict.Count})
	case errors.Is(err, services.ErrDuplicatePayment), errors.Is(err, services.ErrReferentialConflict):
		writeError(ctx, xhttp.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		writeError(ctx, xhttp.StatusForbidden, err.Error())
	default:
		logger.Error("request failed", "error", err, "path", string(ctx.Path()), "request_id", xhttp.RequestID(ctx))
		writeError(ctx, xhttp.StatusInternalServerError, "internal error")
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func queryInt(ctx *xhttp.RequestCtx, key string) (*int, error) {
	v := query(ctx, key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", services.ErrValidation, key)
	}
	return &n, nil
}

func queryInt64(ctx *xhttp.RequestCtx, key string) (*int64, error) {
	v := query(ctx, key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", services.ErrValidation, key)
	}
	return &n, nil
}

// queryPage reads limit and offset; absent values stay zero.
func queryPage(ctx *xhttp.RequestCtx) (limit, offset int, err error) {
	l, err := queryInt(ctx, "limit")
	if err != nil {
		return 0, 0, err
	}
	o, err := queryInt(ctx, "offset")
	if err != nil {
		return 0, 0, err
	}
	if l != nil {
		limit = *l
	}
	if o != nil {
		offset = *o
	}
	return limit, offset, nil
}

// pathID reads the {id} route parameter.
func pathID(ctx *xhttp.RequestCtx) (int64, bool) {
	v, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryRange reads from/to as an inclusive date range. A date-only "to" covers
// that whole day.
func queryRange(ctx *xhttp.RequestCtx, loc *time.Location) (from, until *time.Time, err error) {
	if v := query(ctx, "from"); v != "" {
		t, err := model.ParseDate(v, loc)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if v := query(ctx, "to"); v != "" {
		t, err := model.ParseDate(v, loc)
		if err != nil {
			return nil, nil, err
		}
		if len(v) == len(model.DateLayout) {
			t = t.AddDate(0, 0, 1)
		}
		until = &t
	}
	return from, until, nil
}

func queryPeriod(ctx *xhttp.RequestCtx) (*model.Period, error) {
	month, err := queryInt(ctx, "month")
	if err != nil {
		return nil, err
	}
	year, err := queryInt(ctx, "year")
	if err != nil {
		return nil, err
	}
	if month == nil && year == nil {
		return nil, nil
	}
	var p model.Period
	if month != nil {
		p.Month = *month
	}
	if year != nil {
		p.Year = *year
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
