package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/cable-billing/internal/model"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
)

type StatsService interface {
	Dashboard(ctx context.Context, scope model.Scope) (*model.DashboardStats, error)
	DailyReport(ctx context.Context, scope model.Scope, date string) (*model.PaymentReport, error)
	MonthlyReport(ctx context.Context, scope model.Scope, period model.Period) (*model.PaymentReport, error)
	Breakdown(ctx context.Context, scope model.Scope, q model.BreakdownQuery) ([]model.BreakdownRow, error)
	RecentPayments(ctx context.Context, scope model.Scope, limit int) ([]*model.Payment, error)
}

type ReportHandler struct {
	svc StatsService
	loc *time.Location
	now func() time.Time
}

func RegisterReportRoutes(e *router.Group, h *ReportHandler, authn xhttp.MiddlewareFunc) {
	e.GET("/dashboard", authn(h.Dashboard))
	e.GET("/reports/daily", authn(h.Daily))
	e.GET("/reports/monthly", authn(h.Monthly))
	e.GET("/reports/breakdown", authn(h.Breakdown))
	e.GET("/reports/recent", authn(h.Recent))
}

func NewReportHandler(statsService StatsService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		svc: statsService,
		loc: loc,
		now: time.Now,
	}
}

func (h *ReportHandler) Dashboard(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Dashboard(ctx, scopeOf(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, stats)
}

func (h *ReportHandler) Daily(ctx *xhttp.RequestCtx) {
	report, err := h.svc.DailyReport(ctx, scopeOf(ctx), query(ctx, "date"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, report)
}

// Monthly defaults to the current month when month and year are omitted.
func (h *ReportHandler) Monthly(ctx *xhttp.RequestCtx) {
	period, err := queryPeriod(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if period == nil {
		p := model.PeriodOf(h.now().In(h.loc))
		period = &p
	}
	report, err := h.svc.MonthlyReport(ctx, scopeOf(ctx), *period)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, report)
}

func (h *ReportHandler) Breakdown(ctx *xhttp.RequestCtx) {
	from, until, err := queryRange(ctx, h.loc)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	q := model.BreakdownQuery{
		By:    model.BreakdownKind(query(ctx, "by")),
		From:  from,
		Until: until,
	}
	rows, err := h.svc.Breakdown(ctx, scopeOf(ctx), q)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, rows)
}

func (h *ReportHandler) Recent(ctx *xhttp.RequestCtx) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}
	items, err := h.svc.RecentPayments(ctx, scopeOf(ctx), n)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}
