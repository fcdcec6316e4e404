package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/pkg/logger"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	FindByBoxNumber(ctx context.Context, boxNumber string) (*model.Customer, error)
	List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error)
	Delete(ctx context.Context, id int64) error
}

// CustomerService manages customer records. Customers are visible to every
// caller; only admins change them.
type CustomerService struct {
	customers CustomerRepository
	packages  PackageReader
	agents    AgentReader
}

func NewCustomerService(customers CustomerRepository, packages PackageReader, agents AgentReader) *CustomerService {
	return &CustomerService{
		customers: customers,
		packages:  packages,
		agents:    agents,
	}
}

func (s *CustomerService) List(ctx context.Context, scope model.Scope, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	if err := requireScope(scope); err != nil {
		return nil, 0, err
	}
	items, total, err := s.customers.List(ctx, f)
	if err != nil {
		return nil, 0, storageErr("list customers", err)
	}
	return items, total, nil
}

func (s *CustomerService) Get(ctx context.Context, scope model.Scope, id int64) (*model.Customer, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.PackageID != nil {
		pkg, err := s.packages.Get(ctx, *c.PackageID)
		switch {
		case err == nil:
			c.Package = pkg
		case !errors.Is(err, repository.ErrPackageNotFound):
			return nil, storageErr("load package", err)
		}
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, scope model.Scope, in model.CustomerInput) (*model.Customer, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

func (s *CustomerService) Update(ctx context.Context, scope model.Scope, id int64, in model.CustomerInput) (*model.Customer, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in, c.ID); err != nil {
		return nil, err
	}
	in.Apply(c)

	updated, err := s.customers.Update(ctx, c)
	if err != nil {
		return nil, mapCustomerErr("update customer", err)
	}
	logger.Info("customer updated", "customer_id", id)
	return updated, nil
}

// Delete removes the customer. Its payments stay in the ledger with their snapshots.
func (s *CustomerService) Delete(ctx context.Context, scope model.Scope, id int64) error {
	if err := requireAdmin(scope); err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return mapCustomerErr("delete customer", err)
	}
	logger.Info("customer deleted", "customer_id", id)
	return nil
}

// Import creates customers row by row. A failing row is reported and skipped.
func (s *CustomerService) Import(ctx context.Context, scope model.Scope, rows []model.CustomerInput) (*model.ImportResult, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	res := &model.ImportResult{
		Success: make([]*model.Customer, 0, len(rows)),
		Errors:  []model.ImportRowError{},
	}
	for i, row := range rows {
		c, err := s.create(ctx, row)
		if err != nil {
			res.Errors = append(res.Errors, model.ImportRowError{Row: i + 1, Data: row, Error: err.Error()})
			continue
		}
		res.Success = append(res.Success, c)
	}
	logger.Info("customer import finished", "rows", len(rows), "created", len(res.Success), "failed", len(res.Errors))
	return res, nil
}

func (s *CustomerService) create(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in, 0); err != nil {
		return nil, err
	}
	c := &model.Customer{}
	in.Apply(c)

	created, err := s.customers.Create(ctx, c)
	if err != nil {
		return nil, mapCustomerErr("create customer", err)
	}
	return created, nil
}

func (s *CustomerService) get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, mapCustomerErr("load customer", err)
	}
	return c, nil
}

// checkReferences verifies the package and agent exist and the box number is
// free for customer self (0 for a new customer).
func (s *CustomerService) checkReferences(ctx context.Context, in model.CustomerInput, self int64) error {
	if in.BoxNumber != "" {
		other, err := s.customers.FindByBoxNumber(ctx, in.BoxNumber)
		switch {
		case err == nil && other.ID != self:
			return fmt.Errorf("%w: %s", ErrDuplicateBoxNumber, in.BoxNumber)
		case err != nil && !errors.Is(err, repository.ErrCustomerNotFound):
			return storageErr("check box number", err)
		}
	}
	if in.PackageID != nil {
		if _, err := s.packages.Get(ctx, *in.PackageID); err != nil {
			if errors.Is(err, repository.ErrPackageNotFound) {
				return ErrPackageNotFound
			}
			return storageErr("load package", err)
		}
	}
	if in.AgentID != nil {
		if _, err := s.agents.Get(ctx, *in.AgentID); err != nil {
			if errors.Is(err, repository.ErrAgentNotFound) {
				return ErrAgentNotFound
			}
			return storageErr("load agent", err)
		}
	}
	return nil
}

func mapCustomerErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, repository.ErrDuplicateBoxNumber):
		return ErrDuplicateBoxNumber
	}
	return storageErr(op, err)
}
