package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted
}

const (
	DefaultPaymentMethod = "Cash"
	AdminCollector       = "Admin"
)

// Payment is a ledger entry. CustomerName, SubscriptionMonthName and CollectedBy
// are snapshots taken when the payment is written.
type Payment struct {
	ID                    int64           `json:"id"`
	CustomerID            int64           `json:"customer_id"`
	CustomerName          string          `json:"customer_name"`
	Amount                decimal.Decimal `json:"amount"`
	Date                  time.Time       `json:"date"`
	CollectionDate        time.Time       `json:"collection_date"`
	SubscriptionMonth     int             `json:"subscription_month"`
	SubscriptionYear      int             `json:"subscription_year"`
	SubscriptionMonthName string          `json:"subscription_month_name"`
	AgentID               *int64          `json:"agent_id"`
	CollectedBy           string          `json:"collected_by"`
	Status                PaymentStatus   `json:"status"`
	Method                string          `json:"method"`

	Customer *Customer `json:"customer,omitempty"`
	Agent    *Agent    `json:"agent,omitempty"`
}

func (p *Payment) Period() Period {
	return Period{Month: p.SubscriptionMonth, Year: p.SubscriptionYear}
}

func (p *Payment) Completed() bool {
	return p.Status == PaymentCompleted
}

type RecordPaymentRequest struct {
	CustomerID        int64            `json:"customer_id"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	SubscriptionMonth int              `json:"subscription_month"`
	SubscriptionYear  int              `json:"subscription_year"`
	CollectionDate    string           `json:"collection_date"`
	AgentID           *int64           `json:"agent_id,omitempty"`
	Method            string           `json:"method,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.CustomerID <= 0 {
		return validationf("customer_id is required")
	}
	if err := r.Period().Validate(); err != nil {
		return err
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return validationf("amount must not be negative")
	}
	if strings.TrimSpace(r.CollectionDate) == "" {
		return validationf("collection_date is required")
	}
	return nil
}

func (r *RecordPaymentRequest) Period() Period {
	return Period{Month: r.SubscriptionMonth, Year: r.SubscriptionYear}
}

// UpdatePaymentRequest carries a partial edit. Nil fields are left unchanged.
// An AgentID of 0 clears the collector back to Admin.
type UpdatePaymentRequest struct {
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	SubscriptionMonth *int             `json:"subscription_month,omitempty"`
	SubscriptionYear  *int             `json:"subscription_year,omitempty"`
	CollectionDate    *string          `json:"collection_date,omitempty"`
	AgentID           *int64           `json:"agent_id,omitempty"`
	Method            *string          `json:"method,omitempty"`
	Status            *PaymentStatus   `json:"status,omitempty"`
}

func (r *UpdatePaymentRequest) Validate() error {
	if r.Amount != nil && r.Amount.IsNegative() {
		return validationf("amount must not be negative")
	}
	if r.SubscriptionMonth != nil && (*r.SubscriptionMonth < 1 || *r.SubscriptionMonth > 12) {
		return Period{Month: *r.SubscriptionMonth, Year: MinSubscriptionYear}.Validate()
	}
	if r.SubscriptionYear != nil && (*r.SubscriptionYear < MinSubscriptionYear || *r.SubscriptionYear > MaxSubscriptionYear) {
		return Period{Month: 1, Year: *r.SubscriptionYear}.Validate()
	}
	if r.Method != nil && strings.TrimSpace(*r.Method) == "" {
		return validationf("method must not be empty")
	}
	if r.Status != nil && !r.Status.Valid() {
		return validationf("unknown payment status %q", *r.Status)
	}
	return nil
}

type PaymentOrder int

const (
	// OrderByCreated lists the newest records first.
	OrderByCreated PaymentOrder = iota
	// OrderByCollection lists by collection date, newest first, ties by creation.
	OrderByCollection
)

// PaymentFilter narrows ledger queries. A nil AgentID means every agent.
type PaymentFilter struct {
	AgentID        *int64
	CustomerID     *int64
	Status         *PaymentStatus
	CollectedFrom  *time.Time
	CollectedUntil *time.Time
	Period         *Period
	Order          PaymentOrder
	Limit          int
	Offset         int
}
