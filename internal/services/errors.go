package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
)

var (
	ErrValidation          = model.ErrValidation
	ErrInvalidPeriod       = model.ErrInvalidPeriod
	ErrNotFound            = errors.New("not found")
	ErrDuplicatePayment    = errors.New("payment already recorded for period")
	ErrReferentialConflict = errors.New("record is still referenced")
	ErrForbidden           = errors.New("forbidden")
	ErrStorage             = errors.New("storage failure")
	ErrDuplicateBoxNumber  = fmt.Errorf("%w: box number already assigned", ErrValidation)
	ErrDuplicateAgentCode  = fmt.Errorf("%w: agent code already exists", ErrValidation)

	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrPaymentNotFound  = fmt.Errorf("payment %w", ErrNotFound)
	ErrAgentNotFound    = fmt.Errorf("agent %w", ErrNotFound)
	ErrPackageNotFound  = fmt.Errorf("package %w", ErrNotFound)
)

// DuplicatePaymentError names the payment already holding the period.
type DuplicatePaymentError struct {
	PaymentID             int64
	CollectionDate        time.Time
	SubscriptionMonthName string
	SubscriptionYear      int
}

func (e *DuplicatePaymentError) Error() string {
	return fmt.Sprintf("payment for %s %d already collected on %s",
		e.SubscriptionMonthName, e.SubscriptionYear, e.CollectionDate.Format(model.DateLayout))
}

func (e *DuplicatePaymentError) Is(target error) bool {
	return target == ErrDuplicatePayment
}

func newDuplicatePaymentError(existing *model.Payment) *DuplicatePaymentError {
	return &DuplicatePaymentError{
		PaymentID:             existing.ID,
		CollectionDate:        existing.CollectionDate,
		SubscriptionMonthName: existing.SubscriptionMonthName,
		SubscriptionYear:      existing.SubscriptionYear,
	}
}

// ReferentialConflictError blocks a delete while Count records still point at it.
type ReferentialConflictError struct {
	Entity string
	Count  int64
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d customer(s) still reference it", e.Entity, e.Count)
}

func (e *ReferentialConflictError) Is(target error) bool {
	return target == ErrReferentialConflict
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
