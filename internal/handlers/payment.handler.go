package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/cable-billing/internal/model"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
)

type PaymentService interface {
	RecordPayment(ctx context.Context, scope model.Scope, req model.RecordPaymentRequest) (*model.Payment, error)
	UpdatePayment(ctx context.Context, scope model.Scope, id int64, req model.UpdatePaymentRequest) (*model.Payment, error)
	DeletePayment(ctx context.Context, scope model.Scope, id int64) error
	ListPayments(ctx context.Context, scope model.Scope, f model.PaymentFilter) ([]*model.Payment, int64, error)
	ReconcileStatuses(ctx context.Context, scope model.Scope) (*model.ReconcileResult, error)
}

type PaymentHandler struct {
	svc PaymentService
	loc *time.Location
}

func RegisterPaymentRoutes(e *router.Group, h *PaymentHandler, authn xhttp.MiddlewareFunc) {
	e.GET("/payments", authn(h.ListPayments))
	e.POST("/payments", authn(h.RecordPayment))
	e.PUT("/payments/{id}", authn(h.UpdatePayment))
	e.DELETE("/payments/{id}", authn(h.DeletePayment))
	e.POST("/admin/reconcile", authn(h.Reconcile))
}

func NewPaymentHandler(paymentService PaymentService, loc *time.Location) *PaymentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentHandler{
		svc: paymentService,
		loc: loc,
	}
}

func (h *PaymentHandler) RecordPayment(ctx *xhttp.RequestCtx) {
	var req model.RecordPaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p, err := h.svc.RecordPayment(ctx, scopeOf(ctx), req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, p)
}

func (h *PaymentHandler) UpdatePayment(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid payment id")
		return
	}
	var req model.UpdatePaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p, err := h.svc.UpdatePayment(ctx, scopeOf(ctx), id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, p)
}

func (h *PaymentHandler) DeletePayment(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid payment id")
		return
	}
	if err := h.svc.DeletePayment(ctx, scopeOf(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]string{"message": "payment deleted"})
}

func (h *PaymentHandler) ListPayments(ctx *xhttp.RequestCtx) {
	var (
		f   model.PaymentFilter
		err error
	)
	if f.AgentID, err = queryInt64(ctx, "agent_id"); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if f.CustomerID, err = queryInt64(ctx, "customer_id"); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if v := query(ctx, "status"); v != "" {
		status := model.PaymentStatus(v)
		if !status.Valid() {
			writeError(ctx, xhttp.StatusBadRequest, "unknown payment status "+v)
			return
		}
		f.Status = &status
	}
	if f.CollectedFrom, f.CollectedUntil, err = queryRange(ctx, h.loc); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if f.Period, err = queryPeriod(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if f.Limit, f.Offset, err = queryPage(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}

	items, total, err := h.svc.ListPayments(ctx, scopeOf(ctx), f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Payment]{Items: items, Total: total})
}

// Reconcile rebuilds every customer's cached payment status from the ledger.
func (h *PaymentHandler) Reconcile(ctx *xhttp.RequestCtx) {
	res, err := h.svc.ReconcileStatuses(ctx, scopeOf(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, res)
}
