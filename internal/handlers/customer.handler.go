package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/cable-billing/internal/model"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
)

type CustomerService interface {
	List(ctx context.Context, scope model.Scope, f model.CustomerFilter) ([]*model.Customer, int64, error)
	Get(ctx context.Context, scope model.Scope, id int64) (*model.Customer, error)
	Create(ctx context.Context, scope model.Scope, in model.CustomerInput) (*model.Customer, error)
	Update(ctx context.Context, scope model.Scope, id int64, in model.CustomerInput) (*model.Customer, error)
	Delete(ctx context.Context, scope model.Scope, id int64) error
	Import(ctx context.Context, scope model.Scope, rows []model.CustomerInput) (*model.ImportResult, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler, authn xhttp.MiddlewareFunc) {
	e.GET("/customers", authn(h.ListCustomers))
	e.GET("/customers/{id}", authn(h.GetCustomer))
	e.POST("/customers", authn(h.CreateCustomer))
	e.POST("/customers/import", authn(h.ImportCustomers))
	e.PUT("/customers/{id}", authn(h.UpdateCustomer))
	e.DELETE("/customers/{id}", authn(h.DeleteCustomer))
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: customerService,
	}
}

type importRequest struct {
	Customers []model.CustomerInput `json:"customers"`
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	f := model.CustomerFilter{Search: query(ctx, "search")}
	var err error
	if f.PackageID, err = queryInt64(ctx, "package_id"); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if v := query(ctx, "payment_status"); v != "" {
		status := model.CustomerPaymentStatus(v)
		if status != model.CustomerPaid && status != model.CustomerUnpaid {
			writeError(ctx, xhttp.StatusBadRequest, "payment_status must be paid or unpaid")
			return
		}
		f.PaymentStatus = &status
	}
	if f.Limit, f.Offset, err = queryPage(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}

	items, total, err := h.svc.List(ctx, scopeOf(ctx), f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Customer]{Items: items, Total: total})
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid customer id")
		return
	}
	c, err := h.svc.Get(ctx, scopeOf(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var in model.CustomerInput
	if err := readJSON(ctx, &in); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c, err := h.svc.Create(ctx, scopeOf(ctx), in)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, c)
}

func (h *CustomerHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid customer id")
		return
	}
	var in model.CustomerInput
	if err := readJSON(ctx, &in); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c, err := h.svc.Update(ctx, scopeOf(ctx), id, in)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid customer id")
		return
	}
	if err := h.svc.Delete(ctx, scopeOf(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]string{"message": "customer deleted"})
}

func (h *CustomerHandler) ImportCustomers(ctx *xhttp.RequestCtx) {
	var req importRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Customers) == 0 {
		writeError(ctx, xhttp.StatusBadRequest, "no customers to import")
		return
	}
	res, err := h.svc.Import(ctx, scopeOf(ctx), req.Customers)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, res)
}
