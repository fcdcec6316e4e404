package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats mixes two notions of "unpaid". UnpaidCustomers counts the cached
// customer flag. CurrentMonthUnpaidCount is derived from the ledger for the
// current subscription period and is the authoritative figure.
type DashboardStats struct {
	TotalCustomers          int64           `json:"total_customers"`
	UnpaidCustomers         int64           `json:"unpaid_customers"`
	TodayTotal              decimal.Decimal `json:"today_total"`
	TodayPaidCount          int64           `json:"today_paid_count"`
	MonthlyTotal            decimal.Decimal `json:"monthly_total"`
	CurrentMonthPaidCount   int64           `json:"current_month_paid_count"`
	CurrentMonthUnpaidCount int64           `json:"current_month_unpaid_count"`
}

// Collection is a sum over completed payments.
type Collection struct {
	Total         decimal.Decimal `json:"total"`
	PaymentCount  int64           `json:"payment_count"`
	CustomerCount int64           `json:"customer_count"`
}

type PaymentReport struct {
	From       time.Time  `json:"from"`
	Until      time.Time  `json:"until"`
	Collection Collection `json:"collection"`
	Payments   []*Payment `json:"payments"`
}

type BreakdownKind string

const (
	BreakdownByAgent   BreakdownKind = "agent"
	BreakdownByPackage BreakdownKind = "package"
)

const NoPackageLabel = "No Package"

type BreakdownRow struct {
	Key           string          `json:"key"`
	Total         decimal.Decimal `json:"total"`
	PaymentCount  int64           `json:"payment_count"`
	CustomerCount int64           `json:"customer_count"`
}

type BreakdownQuery struct {
	By    BreakdownKind
	From  *time.Time
	Until *time.Time
}

func (q BreakdownQuery) Validate() error {
	if q.By != BreakdownByAgent && q.By != BreakdownByPackage {
		return validationf("breakdown must be by agent or package")
	}
	if q.From != nil && q.Until != nil && q.Until.Before(*q.From) {
		return validationf("breakdown range ends before it starts")
	}
	return nil
}

type ReconcileResult struct {
	Examined  int64 `json:"examined"`
	Corrected int64 `json:"corrected"`
}
