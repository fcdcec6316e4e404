package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/cable-billing/internal/model"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
)

type ReminderService interface {
	Unpaid(ctx context.Context, scope model.Scope, period *model.Period) ([]model.UnpaidCustomer, error)
	Create(ctx context.Context, scope model.Scope, in model.ReminderInput) (*model.Reminder, error)
	Recent(ctx context.Context, scope model.Scope) ([]*model.Reminder, error)
}

type ReminderHandler struct {
	svc ReminderService
}

func RegisterReminderRoutes(e *router.Group, h *ReminderHandler, authn xhttp.MiddlewareFunc) {
	e.GET("/reminders", authn(h.ListReminders))
	e.GET("/reminders/unpaid", authn(h.ListUnpaid))
	e.POST("/reminders", authn(h.CreateReminder))
}

func NewReminderHandler(reminderService ReminderService) *ReminderHandler {
	return &ReminderHandler{
		svc: reminderService,
	}
}

func (h *ReminderHandler) ListReminders(ctx *xhttp.RequestCtx) {
	items, err := h.svc.Recent(ctx, scopeOf(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}

func (h *ReminderHandler) ListUnpaid(ctx *xhttp.RequestCtx) {
	period, err := queryPeriod(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	items, err := h.svc.Unpaid(ctx, scopeOf(ctx), period)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}

func (h *ReminderHandler) CreateReminder(ctx *xhttp.RequestCtx) {
	var in model.ReminderInput
	if err := readJSON(ctx, &in); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	r, err := h.svc.Create(ctx, scopeOf(ctx), in)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, r)
}
