package services

import (
	"context"
	"errors"
	"strings"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/pkg/logger"
)

type PackageRepository interface {
	Create(ctx context.Context, p *model.Package) (*model.Package, error)
	Update(ctx context.Context, p *model.Package) (*model.Package, error)
	Get(ctx context.Context, id int64) (*model.Package, error)
	List(ctx context.Context) ([]*model.Package, error)
	Delete(ctx context.Context, id int64) error
}

type AgentRepository interface {
	Create(ctx context.Context, a *model.Agent) (*model.Agent, error)
	Update(ctx context.Context, a *model.Agent) (*model.Agent, error)
	Get(ctx context.Context, id int64) (*model.Agent, error)
	List(ctx context.Context) ([]*model.Agent, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerReferences interface {
	CountByPackage(ctx context.Context, packageID int64) (int64, error)
	CountByAgent(ctx context.Context, agentID int64) (int64, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CatalogService manages packages and agents.
type CatalogService struct {
	packages  PackageRepository
	agents    AgentRepository
	customers CustomerReferences
}

func NewCatalogService(packages PackageRepository, agents AgentRepository, customers CustomerReferences) *CatalogService {
	return &CatalogService{
		packages:  packages,
		agents:    agents,
		customers: customers,
	}
}

func (s *CatalogService) ListPackages(ctx context.Context, scope model.Scope) ([]*model.Package, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	items, err := s.packages.List(ctx)
	if err != nil {
		return nil, storageErr("list packages", err)
	}
	return items, nil
}

func (s *CatalogService) GetPackage(ctx context.Context, scope model.Scope, id int64) (*model.Package, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	p, err := s.packages.Get(ctx, id)
	if err != nil {
		return nil, mapPackageErr("load package", err)
	}
	return p, nil
}

func (s *CatalogService) CreatePackage(ctx context.Context, scope model.Scope, in model.PackageInput) (*model.Package, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.packages.Create(ctx, &model.Package{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, storageErr("create package", err)
	}
	logger.Info("package created", "package_id", p.ID, "price", p.Price.String())
	return p, nil
}

func (s *CatalogService) UpdatePackage(ctx context.Context, scope model.Scope, id int64, in model.PackageInput) (*model.Package, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.packages.Update(ctx, &model.Package{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, mapPackageErr("update package", err)
	}
	return p, nil
}

// DeletePackage refuses while any customer is on the package.
func (s *CatalogService) DeletePackage(ctx context.Context, scope model.Scope, id int64) error {
	if err := requireAdmin(scope); err != nil {
		return err
	}
	return s.customers.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.packages.Get(ctx, id); err != nil {
			return mapPackageErr("load package", err)
		}
		n, err := s.customers.CountByPackage(ctx, id)
		if err != nil {
			return storageErr("count package customers", err)
		}
		if n > 0 {
			return &ReferentialConflictError{Entity: "package", Count: n}
		}
		if err := s.packages.Delete(ctx, id); err != nil {
			return mapPackageErr("delete package", err)
		}
		logger.Info("package deleted", "package_id", id)
		return nil
	})
}

func (s *CatalogService) ListAgents(ctx context.Context, scope model.Scope) ([]*model.Agent, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	items, err := s.agents.List(ctx)
	if err != nil {
		return nil, storageErr("list agents", err)
	}
	return items, nil
}

// GetAgent is open to agents for their own record.
func (s *CatalogService) GetAgent(ctx context.Context, scope model.Scope, id int64) (*model.Agent, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	if own, ok := scope.AgentID(); ok && own != id {
		return nil, ErrForbidden
	}
	a, err := s.agents.Get(ctx, id)
	if err != nil {
		return nil, mapAgentErr("load agent", err)
	}
	return a, nil
}

func (s *CatalogService) CreateAgent(ctx context.Context, scope model.Scope, in model.AgentInput) (*model.Agent, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a, err := s.agents.Create(ctx, agentFromInput(0, in))
	if err != nil {
		return nil, mapAgentErr("create agent", err)
	}
	logger.Info("agent created", "agent_id", a.ID, "code", a.Code)
	return a, nil
}

func (s *CatalogService) UpdateAgent(ctx context.Context, scope model.Scope, id int64, in model.AgentInput) (*model.Agent, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a, err := s.agents.Update(ctx, agentFromInput(id, in))
	if err != nil {
		return nil, mapAgentErr("update agent", err)
	}
	return a, nil
}

// DeleteAgent refuses while the agent is assigned to any customer. Payments the
// agent collected keep their collected_by snapshot.
func (s *CatalogService) DeleteAgent(ctx context.Context, scope model.Scope, id int64) error {
	if err := requireAdmin(scope); err != nil {
		return err
	}
	return s.customers.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.agents.Get(ctx, id); err != nil {
			return mapAgentErr("load agent", err)
		}
		n, err := s.customers.CountByAgent(ctx, id)
		if err != nil {
			return storageErr("count agent customers", err)
		}
		if n > 0 {
			return &ReferentialConflictError{Entity: "agent", Count: n}
		}
		if err := s.agents.Delete(ctx, id); err != nil {
			return mapAgentErr("delete agent", err)
		}
		logger.Info("agent deleted", "agent_id", id)
		return nil
	})
}

func agentFromInput(id int64, in model.AgentInput) *model.Agent {
	return &model.Agent{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Code:  strings.TrimSpace(in.Code),
		Phone: strings.TrimSpace(in.Phone),
		Email: strings.TrimSpace(in.Email),
	}
}

func mapPackageErr(op string, err error) error {
	if errors.Is(err, repository.ErrPackageNotFound) {
		return ErrPackageNotFound
	}
	return storageErr(op, err)
}

func mapAgentErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrAgentNotFound):
		return ErrAgentNotFound
	case errors.Is(err, repository.ErrDuplicateAgentCode):
		return ErrDuplicateAgentCode
	}
	return storageErr(op, err)
}
