package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// The pre-check passes but a racing writer commits first: the unique index
// rejects the insert and the caller still gets a duplicate with details.
func TestPaymentService_RecordPayment_ConstraintViolationTranslated(t *testing.T) {
	payments := new(MockPaymentRepository)
	customers := new(MockCustomerLedger)
	ctx := context.Background()
	service := NewPaymentService(payments, customers, nil, nil, time.UTC)

	period := model.Period{Month: 3, Year: 2025}
	winner := &model.Payment{
		ID:                    77,
		CustomerID:            1,
		CollectionDate:        time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		SubscriptionMonth:     3,
		SubscriptionYear:      2025,
		SubscriptionMonthName: "March",
		Status:                model.PaymentCompleted,
	}

	payments.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	customers.On("Get", ctx, int64(1)).Return(&model.Customer{ID: 1, Name: "Jane"}, nil)
	payments.On("FindCompletedForPeriod", ctx, int64(1), period, int64(0)).Return(nil, repository.ErrPaymentNotFound).Once()
	payments.On("Create", ctx, mock.AnythingOfType("*model.Payment")).Return(nil, repository.ErrDuplicatePeriod)
	payments.On("FindCompletedForPeriod", ctx, int64(1), period, int64(0)).Return(winner, nil).Once()

	_, err := service.RecordPayment(ctx, model.AdminScope(), fixtures.NewRecordPaymentRequest(1, "400", 3, 2025, "2025-03-05"))
	require.ErrorIs(t, err, ErrDuplicatePayment)

	var dup *DuplicatePaymentError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, int64(77), dup.PaymentID)
	assert.Equal(t, "March", dup.SubscriptionMonthName)

	customers.AssertNotCalled(t, "SetPaymentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	payments.AssertExpectations(t)
}

func TestPaymentService_RecordPayment_StorageFailure(t *testing.T) {
	payments := new(MockPaymentRepository)
	customers := new(MockCustomerLedger)
	ctx := context.Background()
	service := NewPaymentService(payments, customers, nil, nil, time.UTC)

	payments.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	customers.On("Get", ctx, int64(1)).Return(nil, errors.New("connection reset"))

	_, err := service.RecordPayment(ctx, model.AdminScope(), fixtures.NewRecordPaymentRequest(1, "400", 3, 2025, "2025-03-05"))
	assert.ErrorIs(t, err, ErrStorage)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_DeletePayment_OrphanedCustomer(t *testing.T) {
	payments := new(MockPaymentRepository)
	customers := new(MockCustomerLedger)
	ctx := context.Background()
	service := NewPaymentService(payments, customers, nil, nil, time.UTC)

	payments.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	payments.On("Get", ctx, int64(5)).Return(&model.Payment{ID: 5, CustomerID: 9, Status: model.PaymentCompleted}, nil)
	payments.On("Delete", ctx, int64(5)).Return(nil)
	payments.On("CountCompletedByCustomer", ctx, int64(9)).Return(int64(0), nil)
	customers.On("SetPaymentStatus", ctx, int64(9), model.CustomerUnpaid, (*time.Time)(nil)).Return(repository.ErrCustomerNotFound)

	assert.NoError(t, service.DeletePayment(ctx, model.AdminScope(), 5))
	customers.AssertExpectations(t)
}
