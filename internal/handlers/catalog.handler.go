package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/cable-billing/internal/model"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
)

type CatalogService interface {
	ListPackages(ctx context.Context, scope model.Scope) ([]*model.Package, error)
	GetPackage(ctx context.Context, scope model.Scope, id int64) (*model.Package, error)
	CreatePackage(ctx context.Context, scope model.Scope, in model.PackageInput) (*model.Package, error)
	UpdatePackage(ctx context.Context, scope model.Scope, id int64, in model.PackageInput) (*model.Package, error)
	DeletePackage(ctx context.Context, scope model.Scope, id int64) error

	ListAgents(ctx context.Context, scope model.Scope) ([]*model.Agent, error)
	GetAgent(ctx context.Context, scope model.Scope, id int64) (*model.Agent, error)
	CreateAgent(ctx context.Context, scope model.Scope, in model.AgentInput) (*model.Agent, error)
	UpdateAgent(ctx context.Context, scope model.Scope, id int64, in model.AgentInput) (*model.Agent, error)
	DeleteAgent(ctx context.Context, scope model.Scope, id int64) error
}

// CatalogHandler serves packages and agents.
type CatalogHandler struct {
	svc CatalogService
}

func RegisterCatalogRoutes(e *router.Group, h *CatalogHandler, authn xhttp.MiddlewareFunc) {
	e.GET("/packages", authn(h.ListPackages))
	e.GET("/packages/{id}", authn(h.GetPackage))
	e.POST("/packages", authn(h.CreatePackage))
	e.PUT("/packages/{id}", authn(h.UpdatePackage))
	e.DELETE("/packages/{id}", authn(h.DeletePackage))

	e.GET("/agents", authn(h.ListAgents))
	e.GET("/agents/{id}", authn(h.GetAgent))
	e.POST("/agents", authn(h.CreateAgent))
	e.PUT("/agents/{id}", authn(h.UpdateAgent))
	e.DELETE("/agents/{id}", authn(h.DeleteAgent))
}

func NewCatalogHandler(catalogService CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: catalogService,
	}
}

func (h *CatalogHandler) ListPackages(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListPackages(ctx, scopeOf(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}

func (h *CatalogHandler) GetPackage(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid package id")
		return
	}
	p, err := h.svc.GetPackage(ctx, scopeOf(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, p)
}

func (h *CatalogHandler) CreatePackage(ctx *xhttp.RequestCtx) {
	var in model.PackageInput
	if err := readJSON(ctx, &in); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p, err := h.svc.CreatePackage(ctx, scopeOf(ctx), in)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, p)
}

func (h *CatalogHandler) UpdatePackage(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid package id")
		return
	}
	var in model.PackageInput
	if err := readJSON(ctx, &in); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p, err := h.svc.UpdatePackage(ctx, scopeOf(ctx), id, in)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, p)
}

func (h *CatalogHandler) DeletePackage(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid package id")
		return
	}
	if err := h.svc.DeletePackage(ctx, scopeOf(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]string{"message": "package deleted"})
}

func (h *CatalogHandler) ListAgents(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListAgents(ctx, scopeOf(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}

func (h *CatalogHandler) GetAgent(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid agent id")
		return
	}
	a, err := h.svc.GetAgent(ctx, scopeOf(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, a)
}

func (h *CatalogHandler) CreateAgent(ctx *xhttp.RequestCtx) {
	var in model.AgentInput
	if err := readJSON(ctx, &in); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	a, err := h.svc.CreateAgent(ctx, scopeOf(ctx), in)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, a)
}

func (h *CatalogHandler) UpdateAgent(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid agent id")
		return
	}
	var in model.AgentInput
	if err := readJSON(ctx, &in); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	a, err := h.svc.UpdateAgent(ctx, scopeOf(ctx), id, in)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, a)
}

func (h *CatalogHandler) DeleteAgent(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "invalid agent id")
		return
	}
	if err := h.svc.DeleteAgent(ctx, scopeOf(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]string{"message": "agent deleted"})
}
