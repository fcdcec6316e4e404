package fixtures

import (
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/shopspring/decimal"
)

// Now is the fixed "current" instant used across tests: mid-March 2025, noon UTC.
var Now = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func Amount(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func NewRecordPaymentRequest(customerID int64, amount string, month, year int, date string) model.RecordPaymentRequest {
	req := model.RecordPaymentRequest{
		CustomerID:        customerID,
		SubscriptionMonth: month,
		SubscriptionYear:  year,
		CollectionDate:    date,
	}
	if amount != "" {
		req.Amount = Amount(amount)
	}
	return req
}

var (
	InvalidPeriods = []model.Period{
		{Month: 0, Year: 2025},
		{Month: 13, Year: 2025},
		{Month: 3, Year: 1999},
		{Month: 3, Year: 2101},
	}

	InvalidCollectionDates = []string{
		"",
		"yesterday",
		"2025-13-01",
		"05/03/2025",
	}
)
