package services

import (
	"context"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/logger"
	"github.com/shopspring/decimal"
)

const recentReminders = 100

type ReminderRepository interface {
	Create(ctx context.Context, r *model.Reminder) (*model.Reminder, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Reminder, error)
}

type ReminderCustomers interface {
	Get(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error)
}

type PaidLookup interface {
	PaidCustomerIDs(ctx context.Context, period model.Period, agentID *int64) ([]int64, error)
}

// ReminderService picks who to nudge and keeps the audit trail of nudges sent.
// Delivery itself happens outside the service.
type ReminderService struct {
	reminders ReminderRepository
	customers ReminderCustomers
	payments  PaidLookup
	packages  PackageLister
	loc       *time.Location
	now       func() time.Time
}

func NewReminderService(reminders ReminderRepository, customers ReminderCustomers, payments PaidLookup, packages PackageLister, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		reminders: reminders,
		customers: customers,
		payments:  payments,
		packages:  packages,
		loc:       loc,
		now:       time.Now,
	}
}

// Unpaid lists customers with a phone number and no completed payment for
// period (nil for the current month), with their package price as the amount due.
func (s *ReminderService) Unpaid(ctx context.Context, scope model.Scope, period *model.Period) ([]model.UnpaidCustomer, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	p := model.PeriodOf(s.now().In(s.loc))
	if period != nil {
		if err := period.Validate(); err != nil {
			return nil, err
		}
		p = *period
	}

	paidIDs, err := s.payments.PaidCustomerIDs(ctx, p, nil)
	if err != nil {
		return nil, storageErr("paid customers", err)
	}
	paid := make(map[int64]struct{}, len(paidIDs))
	for _, id := range paidIDs {
		paid[id] = struct{}{}
	}

	customers, _, err := s.customers.List(ctx, model.CustomerFilter{WithPhone: true})
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	packages, err := s.packages.List(ctx)
	if err != nil {
		return nil, storageErr("list packages", err)
	}
	prices := make(map[int64]decimal.Decimal, len(packages))
	for _, pkg := range packages {
		prices[pkg.ID] = pkg.Price
	}

	out := make([]model.UnpaidCustomer, 0, len(customers))
	for _, c := range customers {
		if _, ok := paid[c.ID]; ok {
			continue
		}
		amount := decimal.Zero
		if c.PackageID != nil {
			amount = prices[*c.PackageID]
		}
		out = append(out, model.UnpaidCustomer{
			ID:        c.ID,
			Name:      c.Name,
			BoxNumber: c.BoxNumber,
			Phone:     c.Phone,
			Amount:    amount,
		})
	}
	return out, nil
}

// Create records that a reminder was sent, snapshotting the customer contact.
func (s *ReminderService) Create(ctx context.Context, scope model.Scope, in model.ReminderInput) (*model.Reminder, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.customers.Get(ctx, in.CustomerID)
	if err != nil {
		return nil, mapCustomerErr("load customer", err)
	}
	status := in.Status
	if status == "" {
		status = model.ReminderSent
	}
	period := model.Period{Month: in.SubscriptionMonth, Year: in.SubscriptionYear}

	r, err := s.reminders.Create(ctx, &model.Reminder{
		CustomerID:        c.ID,
		CustomerName:      c.Name,
		Phone:             c.Phone,
		BoxNumber:         c.BoxNumber,
		Date:              s.now(),
		Method:            in.Method,
		Status:            status,
		SubscriptionMonth: period.Month,
		SubscriptionYear:  period.Year,
		MonthYear:         period.Label(),
	})
	if err != nil {
		return nil, storageErr("create reminder", err)
	}
	logger.Info("reminder recorded", "customer_id", c.ID, "method", r.Method, "period", r.MonthYear)
	return r, nil
}

func (s *ReminderService) Recent(ctx context.Context, scope model.Scope) ([]*model.Reminder, error) {
	if err := requireAdmin(scope); err != nil {
		return nil, err
	}
	items, err := s.reminders.ListRecent(ctx, recentReminders)
	if err != nil {
		return nil, storageErr("list reminders", err)
	}
	return items, nil
}
