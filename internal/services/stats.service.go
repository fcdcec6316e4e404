package services

import (
	"context"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
)

const (
	DefaultRecentPayments = 5
	MaxRecentPayments     = 100
)

type LedgerReader interface {
	List(ctx context.Context, f model.PaymentFilter) ([]*model.Payment, int64, error)
	PaidCustomerIDs(ctx context.Context, period model.Period, agentID *int64) ([]int64, error)
}

type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByPaymentStatus(ctx context.Context, status model.CustomerPaymentStatus) (int64, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Customer, error)
}

type AgentLister interface {
	List(ctx context.Context) ([]*model.Agent, error)
}

type PackageLister interface {
	List(ctx context.Context) ([]*model.Package, error)
}

// StatsService answers the read side: dashboard figures, reports and breakdowns.
// Every ledger read goes through the caller's scope first.
type StatsService struct {
	payments    LedgerReader
	customers   CustomerCounter
	agents      AgentLister
	packages    PackageLister
	loc         *time.Location
	now         func() time.Time
	recentLimit int
}

func NewStatsService(payments LedgerReader, customers CustomerCounter, agents AgentLister, packages PackageLister, loc *time.Location, recentLimit int) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	if recentLimit <= 0 || recentLimit > MaxRecentPayments {
		recentLimit = DefaultRecentPayments
	}
	return &StatsService{
		payments:    payments,
		customers:   customers,
		agents:      agents,
		packages:    packages,
		loc:         loc,
		now:         time.Now,
		recentLimit: recentLimit,
	}
}

func (s *StatsService) Dashboard(ctx context.Context, scope model.Scope) (*model.DashboardStats, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	period := model.PeriodOf(now)
	monthStart, monthEnd := period.Range(s.loc)
	dayStart, dayEnd := model.DayRange(now, s.loc)

	total, err := s.customers.Count(ctx)
	if err != nil {
		return nil, storageErr("count customers", err)
	}
	flaggedUnpaid, err := s.customers.CountByPaymentStatus(ctx, model.CustomerUnpaid)
	if err != nil {
		return nil, storageErr("count unpaid customers", err)
	}

	monthPayments, err := s.completedBetween(ctx, scope, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	today := SummarizeBetween(monthPayments, dayStart, dayEnd)
	month := Summarize(monthPayments)

	paidIDs, err := s.payments.PaidCustomerIDs(ctx, period, scope.PaymentAgentFilter())
	if err != nil {
		return nil, storageErr("paid customers", err)
	}
	// payments of deleted customers stay in the ledger but are not customers
	existing, err := s.customers.GetByIDs(ctx, paidIDs)
	if err != nil {
		return nil, storageErr("load paid customers", err)
	}
	paid := int64(len(existing))
	unpaid := total - paid
	if unpaid < 0 {
		unpaid = 0
	}

	return &model.DashboardStats{
		TotalCustomers:          total,
		UnpaidCustomers:         flaggedUnpaid,
		TodayTotal:              today.Total,
		TodayPaidCount:          today.CustomerCount,
		MonthlyTotal:            month.Total,
		CurrentMonthPaidCount:   paid,
		CurrentMonthUnpaidCount: unpaid,
	}, nil
}

// DailyReport lists the completed payments collected on date (YYYY-MM-DD,
// empty for today).
func (s *StatsService) DailyReport(ctx context.Context, scope model.Scope, date string) (*model.PaymentReport, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	day := s.now()
	if date != "" {
		var err error
		if day, err = model.ParseDate(date, s.loc); err != nil {
			return nil, err
		}
	}
	from, until := model.DayRange(day, s.loc)
	return s.report(ctx, scope, from, until)
}

// MonthlyReport lists the completed payments collected within the calendar month.
func (s *StatsService) MonthlyReport(ctx context.Context, scope model.Scope, period model.Period) (*model.PaymentReport, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	from, until := period.Range(s.loc)
	return s.report(ctx, scope, from, until)
}

func (s *StatsService) Breakdown(ctx context.Context, scope model.Scope, q model.BreakdownQuery) ([]model.BreakdownRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	completed := model.PaymentCompleted
	f, err := scopePaymentFilter(scope, model.PaymentFilter{
		Status:         &completed,
		CollectedFrom:  q.From,
		CollectedUntil: q.Until,
	})
	if err != nil {
		return nil, err
	}
	payments, _, err := s.payments.List(ctx, f)
	if err != nil {
		return nil, storageErr("list payments", err)
	}

	switch q.By {
	case model.BreakdownByAgent:
		agents, err := s.agents.List(ctx)
		if err != nil {
			return nil, storageErr("list agents", err)
		}
		names := make(map[int64]string, len(agents))
		for _, a := range agents {
			names[a.ID] = a.Name
		}
		return Breakdown(payments, func(p *model.Payment) string {
			return AgentLabel(p, names)
		}), nil

	default:
		customers, err := s.customers.GetByIDs(ctx, customerIDs(payments))
		if err != nil {
			return nil, storageErr("load customers", err)
		}
		customerPackages := make(map[int64]*int64, len(customers))
		for id, c := range customers {
			customerPackages[id] = c.PackageID
		}
		packages, err := s.packages.List(ctx)
		if err != nil {
			return nil, storageErr("list packages", err)
		}
		names := make(map[int64]string, len(packages))
		for _, p := range packages {
			names[p.ID] = p.Name
		}
		return Breakdown(payments, func(p *model.Payment) string {
			return PackageLabel(p, customerPackages, names)
		}), nil
	}
}

// RecentPayments returns the latest collections. limit <= 0 uses the configured
// default; anything above MaxRecentPayments is capped.
func (s *StatsService) RecentPayments(ctx context.Context, scope model.Scope, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	if limit > MaxRecentPayments {
		limit = MaxRecentPayments
	}
	completed := model.PaymentCompleted
	f, err := scopePaymentFilter(scope, model.PaymentFilter{
		Status: &completed,
		Order:  model.OrderByCollection,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	items, _, err := s.payments.List(ctx, f)
	if err != nil {
		return nil, storageErr("recent payments", err)
	}
	return items, nil
}

func (s *StatsService) report(ctx context.Context, scope model.Scope, from, until time.Time) (*model.PaymentReport, error) {
	payments, err := s.completedBetween(ctx, scope, from, until)
	if err != nil {
		return nil, err
	}
	return &model.PaymentReport{
		From:       from,
		Until:      until,
		Collection: Summarize(payments),
		Payments:   payments,
	}, nil
}

func (s *StatsService) completedBetween(ctx context.Context, scope model.Scope, from, until time.Time) ([]*model.Payment, error) {
	completed := model.PaymentCompleted
	f, err := scopePaymentFilter(scope, model.PaymentFilter{
		Status:         &completed,
		CollectedFrom:  &from,
		CollectedUntil: &until,
		Order:          model.OrderByCollection,
	})
	if err != nil {
		return nil, err
	}
	payments, _, err := s.payments.List(ctx, f)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	return payments, nil
}

func customerIDs(payments []*model.Payment) []int64 {
	seen := make(map[int64]struct{}, len(payments))
	ids := make([]int64, 0, len(payments))
	for _, p := range payments {
		if _, ok := seen[p.CustomerID]; ok {
			continue
		}
		seen[p.CustomerID] = struct{}{}
		ids = append(ids, p.CustomerID)
	}
	return ids
}
