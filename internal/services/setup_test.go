package services

import (
	"testing"
	"time"

	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"github.com/nimasrn/cable-billing/test/fixtures"
	"github.com/nimasrn/cable-billing/test/helpers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type testLedger struct {
	db        *pg.DB
	payments  *PaymentService
	stats     *StatsService
	customers *CustomerService
	catalog   *CatalogService
	reminders *ReminderService
}

func newTestLedger(t *testing.T) *testLedger {
	db := helpers.SetupTestDB(t)

	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	clock := helpers.FixedClock(fixtures.Now)

	payments := NewPaymentService(paymentRepo, customerRepo, agentRepo, packageRepo, time.UTC)
	payments.now = clock
	stats := NewStatsService(paymentRepo, customerRepo, agentRepo, packageRepo, time.UTC, DefaultRecentPayments)
	stats.now = clock
	reminders := NewReminderService(reminderRepo, customerRepo, paymentRepo, packageRepo, time.UTC)
	reminders.now = clock

	return &testLedger{
		db:        db,
		payments:  payments,
		stats:     stats,
		customers: NewCustomerService(customerRepo, packageRepo, agentRepo),
		catalog:   NewCatalogService(packageRepo, agentRepo, customerRepo),
		reminders: reminders,
	}
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
