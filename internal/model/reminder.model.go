package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReminderMethod string

const (
	ReminderSMS      ReminderMethod = "sms"
	ReminderWhatsApp ReminderMethod = "whatsapp"
)

type ReminderStatus string

const (
	ReminderSent   ReminderStatus = "sent"
	ReminderFailed ReminderStatus = "failed"
)

type Reminder struct {
	ID                int64          `json:"id"`
	CustomerID        int64          `json:"customer_id"`
	CustomerName      string         `json:"customer_name"`
	Phone             string         `json:"phone"`
	BoxNumber         string         `json:"box_number"`
	Date              time.Time      `json:"date"`
	Method            ReminderMethod `json:"method"`
	Status            ReminderStatus `json:"status"`
	SubscriptionMonth int            `json:"subscription_month"`
	SubscriptionYear  int            `json:"subscription_year"`
	MonthYear         string         `json:"month_year"`
}

type ReminderInput struct {
	CustomerID        int64          `json:"customer_id"`
	Method            ReminderMethod `json:"method"`
	Status            ReminderStatus `json:"status,omitempty"`
	SubscriptionMonth int            `json:"subscription_month"`
	SubscriptionYear  int            `json:"subscription_year"`
}

func (in *ReminderInput) Validate() error {
	if in.CustomerID <= 0 {
		return validationf("customer_id is required")
	}
	if in.Method != ReminderSMS && in.Method != ReminderWhatsApp {
		return validationf("reminder method must be sms or whatsapp")
	}
	if in.Status != "" && in.Status != ReminderSent && in.Status != ReminderFailed {
		return validationf("reminder status must be sent or failed")
	}
	return Period{Month: in.SubscriptionMonth, Year: in.SubscriptionYear}.Validate()
}

// UnpaidCustomer is a reminder candidate: a customer with a phone number and no
// completed payment for the period.
type UnpaidCustomer struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	BoxNumber string          `json:"box_number"`
	Phone     string          `json:"phone"`
	Amount    decimal.Decimal `json:"amount"`
}
