package services

import (
	"context"
	"testing"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/test/fixtures"
	"github.com/nimasrn/cable-billing/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_Unpaid(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	gold := helpers.CreateTestPackage(t, l.db, "Gold", "500")
	a := helpers.CreateTestCustomer(t, l.db, "A", "BX-1", &gold.ID)
	b := helpers.CreateTestCustomer(t, l.db, "B", "BX-2", nil)
	_, err := l.customers.Create(ctx, model.AdminScope(), model.CustomerInput{Name: "No phone", BoxNumber: "BX-3"})
	require.NoError(t, err)

	_, err = l.payments.RecordPayment(ctx, model.AdminScope(), fixtures.NewRecordPaymentRequest(b.ID, "300", 3, 2025, "2025-03-10"))
	require.NoError(t, err)

	unpaid, err := l.reminders.Unpaid(ctx, model.AdminScope(), nil)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, a.ID, unpaid[0].ID)
	assertAmount(t, "500", unpaid[0].Amount)

	unpaid, err = l.reminders.Unpaid(ctx, model.AdminScope(), &model.Period{Month: 2, Year: 2025})
	require.NoError(t, err)
	assert.Len(t, unpaid, 2)

	_, err = l.reminders.Unpaid(ctx, model.AdminScope(), &model.Period{Month: 13, Year: 2025})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = l.reminders.Unpaid(ctx, model.AgentScope(1), nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReminderService_Create(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	c := helpers.CreateTestCustomer(t, l.db, "Jane", "BX-1", nil)

	r, err := l.reminders.Create(ctx, model.AdminScope(), model.ReminderInput{
		CustomerID:        c.ID,
		Method:            model.ReminderWhatsApp,
		SubscriptionMonth: 3,
		SubscriptionYear:  2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "March 2025", r.MonthYear)
	assert.Equal(t, model.ReminderSent, r.Status)
	assert.Equal(t, "Jane", r.CustomerName)
	assert.Equal(t, "BX-1", r.BoxNumber)

	_, err = l.reminders.Create(ctx, model.AdminScope(), model.ReminderInput{CustomerID: 999, Method: model.ReminderSMS, SubscriptionMonth: 3, SubscriptionYear: 2025})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = l.reminders.Create(ctx, model.AdminScope(), model.ReminderInput{CustomerID: c.ID, Method: "fax", SubscriptionMonth: 3, SubscriptionYear: 2025})
	assert.ErrorIs(t, err, ErrValidation)

	recent, err := l.reminders.Recent(ctx, model.AdminScope())
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, r.ID, recent[0].ID)
}
