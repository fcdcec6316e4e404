package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nimasrn/cable-billing/internal/lock"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/pkg/logger"
	"github.com/nimasrn/cable-billing/pkg/prom"
	"github.com/shopspring/decimal"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)
	Update(ctx context.Context, p *model.Payment) (*model.Payment, error)
	Get(ctx context.Context, id int64) (*model.Payment, error)
	Delete(ctx context.Context, id int64) error
	FindCompletedForPeriod(ctx context.Context, customerID int64, period model.Period, excludeID int64) (*model.Payment, error)
	CountCompletedByCustomer(ctx context.Context, customerID int64) (int64, error)
	LatestCompletedCollection(ctx context.Context, customerID int64) (*time.Time, error)
	List(ctx context.Context, f model.PaymentFilter) ([]*model.Payment, int64, error)
	PaidCustomerIDs(ctx context.Context, period model.Period, agentID *int64) ([]int64, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerLedger interface {
	Get(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error)
	SetPaymentStatus(ctx context.Context, id int64, status model.CustomerPaymentStatus, lastPaymentDate *time.Time) error
}

type AgentReader interface {
	Get(ctx context.Context, id int64) (*model.Agent, error)
}

type PackageReader interface {
	Get(ctx context.Context, id int64) (*model.Package, error)
}

type PeriodLocker interface {
	Acquire(ctx context.Context, customerID int64, period model.Period) (*lock.Handle, error)
}

const lockRetryInterval = 20 * time.Millisecond

type PaymentService struct {
	payments  PaymentRepository
	customers CustomerLedger
	agents    AgentReader
	packages  PackageReader
	locker    PeriodLocker
	lockWait  time.Duration
	loc       *time.Location
	now       func() time.Time
}

func NewPaymentService(payments PaymentRepository, customers CustomerLedger, agents AgentReader, packages PackageReader, loc *time.Location) *PaymentService {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentService{
		payments:  payments,
		customers: customers,
		agents:    agents,
		packages:  packages,
		loc:       loc,
		now:       time.Now,
	}
}

// UseLocker enables the redis lock around RecordPayment. A collector finding
// the period locked waits up to wait for it, then continues unlocked.
func (s *PaymentService) UseLocker(l PeriodLocker, wait time.Duration) {
	s.locker = l
	s.lockWait = wait
}

// acquireCollection returns nil when no lock is held on return. The lock only
// orders collectors; the pre-check and the unique index decide duplicates.
func (s *PaymentService) acquireCollection(ctx context.Context, customerID int64, period model.Period) *lock.Handle {
	if s.locker == nil {
		return nil
	}
	deadline := time.Now().Add(s.lockWait)
	for {
		h, err := s.locker.Acquire(ctx, customerID, period)
		switch {
		case err == nil:
			return h
		case !errors.Is(err, lock.ErrLockHeld):
			logger.Warn("collection lock unavailable, relying on ledger constraint",
				"customer_id", customerID, "error", err)
			return nil
		case !time.Now().Before(deadline):
			logger.Warn("collection lock still held, continuing unlocked",
				"customer_id", customerID, "period", period.Label())
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(lockRetryInterval):
		}
	}
}

// RecordPayment writes a completed payment for the customer's period and marks
// the customer paid. At most one completed payment may exist per period.
func (s *PaymentService) RecordPayment(ctx context.Context, scope model.Scope, req model.RecordPaymentRequest) (*model.Payment, error) {
	start := time.Now()
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	collectedOn, err := model.ParseDate(req.CollectionDate, s.loc)
	if err != nil {
		return nil, err
	}
	agentID, err := collectingAgent(scope, req.AgentID)
	if err != nil {
		return nil, err
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = model.DefaultPaymentMethod
	}
	period := req.Period()

	if h := s.acquireCollection(ctx, req.CustomerID, period); h != nil {
		defer h.Release()
	}

	var created *model.Payment
	err = s.payments.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customers.Get(ctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return ErrCustomerNotFound
			}
			return storageErr("load customer", err)
		}

		if err := s.ensurePeriodFree(ctx, customer.ID, period, 0); err != nil {
			return err
		}

		amount, err := s.resolveAmount(ctx, customer, req.Amount)
		if err != nil {
			return err
		}
		agent, err := s.resolveAgent(ctx, agentID)
		if err != nil {
			return err
		}

		p := &model.Payment{
			CustomerID:            customer.ID,
			CustomerName:          customer.Name,
			Amount:                amount,
			Date:                  s.now(),
			CollectionDate:        collectedOn,
			SubscriptionMonth:     period.Month,
			SubscriptionYear:      period.Year,
			SubscriptionMonthName: period.MonthName(),
			AgentID:               agentID,
			CollectedBy:           collectorName(agent),
			Status:                model.PaymentCompleted,
			Method:                method,
		}
		created, err = s.payments.Create(ctx, p)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicatePeriod) {
				return err
			}
			return storageErr("insert payment", err)
		}

		if err := s.customers.SetPaymentStatus(ctx, customer.ID, model.CustomerPaid, &collectedOn); err != nil {
			return storageErr("mark customer paid", err)
		}
		created.Customer = customer
		created.Agent = agent
		return nil
	})
	if errors.Is(err, repository.ErrDuplicatePeriod) {
		// a concurrent writer won the race after our pre-check
		err = s.conflictFor(ctx, req.CustomerID, period, 0)
	}
	if err != nil {
		s.reject(err, start)
		return nil, err
	}

	prom.PaymentRecorded(string(scope.Role()), time.Since(start).Seconds())
	logger.Info("payment recorded",
		"payment_id", created.ID,
		"customer_id", created.CustomerID,
		"period", period.Label(),
		"collected_by", created.CollectedBy)
	return created, nil
}

// DeletePayment removes a payment. When no completed payment remains for the
// customer the cached status falls back to unpaid.
func (s *PaymentService) DeletePayment(ctx context.Context, scope model.Scope, id int64) error {
	if err := requireScope(scope); err != nil {
		return err
	}

	err := s.payments.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payments.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			return storageErr("load payment", err)
		}
		if err := canDeletePayment(scope, p); err != nil {
			return err
		}
		if err := s.payments.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			return storageErr("delete payment", err)
		}
		return s.revertIfNoneCompleted(ctx, p.CustomerID)
	})
	if err != nil {
		return err
	}

	prom.PaymentDeleted()
	logger.Info("payment deleted", "payment_id", id, "role", scope.Role())
	return nil
}

// UpdatePayment edits a payment. Moving it to another period or back to
// completed re-checks the period against every other completed payment.
func (s *PaymentService) UpdatePayment(ctx context.Context, scope model.Scope, id int64, req model.UpdatePaymentRequest) (*model.Payment, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		updated *model.Payment
		target  model.Period
		owner   int64
	)
	err := s.payments.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payments.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			return storageErr("load payment", err)
		}
		wasCompleted := p.Completed()

		if err := s.applyUpdate(ctx, p, req); err != nil {
			return err
		}
		target, owner = p.Period(), p.CustomerID

		if p.Completed() {
			if err := s.ensurePeriodFree(ctx, p.CustomerID, target, p.ID); err != nil {
				return err
			}
		}

		updated, err = s.payments.Update(ctx, p)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicatePeriod):
				return err
			case errors.Is(err, repository.ErrPaymentNotFound):
				return ErrPaymentNotFound
			}
			return storageErr("update payment", err)
		}

		if wasCompleted || updated.Completed() {
			return s.refreshFromLedger(ctx, updated.CustomerID)
		}
		return nil
	})
	if errors.Is(err, repository.ErrDuplicatePeriod) {
		err = s.conflictFor(ctx, owner, target, id)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("payment updated", "payment_id", id, "period", target.Label(), "status", updated.Status)
	return updated, nil
}

// ListPayments returns the caller's visible payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, scope model.Scope, f model.PaymentFilter) ([]*model.Payment, int64, error) {
	f, err := scopePaymentFilter(scope, f)
	if err != nil {
		return nil, 0, err
	}
	f.Order = model.OrderByCreated

	items, total, err := s.payments.List(ctx, f)
	if err != nil {
		return nil, 0, storageErr("list payments", err)
	}
	return items, total, nil
}

// ReconcileStatuses recomputes every customer's cached status from the ledger.
// It is the recovery path for a status that drifted from the payments.
func (s *PaymentService) ReconcileStatuses(ctx context.Context, scope model.Scope) (*model.ReconcileResult, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}

	customers, _, err := s.customers.List(ctx, model.CustomerFilter{})
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	completed := model.PaymentCompleted
	payments, _, err := s.payments.List(ctx, model.PaymentFilter{Status: &completed})
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	latest := LatestCollections(payments)

	res := &model.ReconcileResult{}
	for _, c := range customers {
		res.Examined++

		status, last := model.CustomerUnpaid, (*time.Time)(nil)
		if when, ok := latest[c.ID]; ok {
			status, last = model.CustomerPaid, &when
		}
		if c.PaymentStatus == status && sameDate(c.LastPaymentDate, last) {
			continue
		}

		if err := s.customers.SetPaymentStatus(ctx, c.ID, status, last); err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				continue
			}
			return res, storageErr("repair customer status", err)
		}
		res.Corrected++
		logger.Info("customer status repaired", "customer_id", c.ID, "from", c.PaymentStatus, "to", status)
	}

	prom.CustomerStatusRepaired(int(res.Corrected))
	logger.Info("status reconciliation finished", "examined", res.Examined, "corrected", res.Corrected)
	return res, nil
}

func (s *PaymentService) ensurePeriodFree(ctx context.Context, customerID int64, period model.Period, excludeID int64) error {
	existing, err := s.payments.FindCompletedForPeriod(ctx, customerID, period, excludeID)
	switch {
	case err == nil:
		return newDuplicatePaymentError(existing)
	case errors.Is(err, repository.ErrPaymentNotFound):
		return nil
	}
	return storageErr("check period", err)
}

// conflictFor builds the duplicate error after the index rejected a write.
func (s *PaymentService) conflictFor(ctx context.Context, customerID int64, period model.Period, excludeID int64) error {
	existing, err := s.payments.FindCompletedForPeriod(ctx, customerID, period, excludeID)
	if err != nil {
		logger.Warn("conflicting payment not found after constraint violation",
			"customer_id", customerID, "period", period.Label(), "error", err)
		return ErrDuplicatePayment
	}
	return newDuplicatePaymentError(existing)
}

func (s *PaymentService) revertIfNoneCompleted(ctx context.Context, customerID int64) error {
	remaining, err := s.payments.CountCompletedByCustomer(ctx, customerID)
	if err != nil {
		return storageErr("count payments", err)
	}
	if remaining > 0 {
		return nil
	}
	err = s.customers.SetPaymentStatus(ctx, customerID, model.CustomerUnpaid, nil)
	if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return storageErr("revert customer status", err)
	}
	return nil
}

// refreshFromLedger sets the cached status from the customer's newest completed
// collection, the same rule ReconcileStatuses applies.
func (s *PaymentService) refreshFromLedger(ctx context.Context, customerID int64) error {
	latest, err := s.payments.LatestCompletedCollection(ctx, customerID)
	if err != nil {
		return storageErr("load latest collection", err)
	}
	status := model.CustomerUnpaid
	if latest != nil {
		status = model.CustomerPaid
	}
	err = s.customers.SetPaymentStatus(ctx, customerID, status, latest)
	if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return storageErr("refresh customer status", err)
	}
	return nil
}

// resolveAmount falls back to the customer's current package price.
func (s *PaymentService) resolveAmount(ctx context.Context, customer *model.Customer, amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount != nil {
		return *amount, nil
	}
	if customer.PackageID == nil {
		return decimal.Zero, validationError("amount is required for a customer without a package")
	}
	pkg, err := s.packages.Get(ctx, *customer.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return decimal.Zero, ErrPackageNotFound
		}
		return decimal.Zero, storageErr("load package", err)
	}
	return pkg.Price, nil
}

func (s *PaymentService) resolveAgent(ctx context.Context, agentID *int64) (*model.Agent, error) {
	if agentID == nil {
		return nil, nil
	}
	agent, err := s.agents.Get(ctx, *agentID)
	if err != nil {
		if errors.Is(err, repository.ErrAgentNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, storageErr("load agent", err)
	}
	return agent, nil
}

func (s *PaymentService) applyUpdate(ctx context.Context, p *model.Payment, req model.UpdatePaymentRequest) error {
	if req.Amount != nil {
		p.Amount = *req.Amount
	}
	if req.SubscriptionMonth != nil {
		p.SubscriptionMonth = *req.SubscriptionMonth
	}
	if req.SubscriptionYear != nil {
		p.SubscriptionYear = *req.SubscriptionYear
	}
	if err := p.Period().Validate(); err != nil {
		return err
	}
	p.SubscriptionMonthName = p.Period().MonthName()

	if req.CollectionDate != nil {
		collectedOn, err := model.ParseDate(*req.CollectionDate, s.loc)
		if err != nil {
			return err
		}
		p.CollectionDate = collectedOn
	}
	if req.AgentID != nil {
		var agentID *int64
		if *req.AgentID != 0 {
			agentID = req.AgentID
		}
		agent, err := s.resolveAgent(ctx, agentID)
		if err != nil {
			return err
		}
		p.AgentID = agentID
		p.CollectedBy = collectorName(agent)
	}
	if req.Method != nil {
		p.Method = strings.TrimSpace(*req.Method)
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	return nil
}

func (s *PaymentService) reject(err error, start time.Time) {
	reason := "error"
	switch {
	case errors.Is(err, ErrDuplicatePayment):
		reason = "duplicate"
	case errors.Is(err, ErrValidation):
		reason = "validation"
	case errors.Is(err, ErrNotFound):
		reason = "not_found"
	case errors.Is(err, ErrStorage):
		logger.Error("record payment failed", "error", err)
	}
	prom.PaymentRejected(reason, time.Since(start).Seconds())
}

func collectorName(agent *model.Agent) string {
	if agent == nil {
		return model.AdminCollector
	}
	return agent.Name
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
