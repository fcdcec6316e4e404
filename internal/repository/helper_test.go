package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         pg.NewLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return pg.New(db, db)
}

func seedCustomer(t *testing.T, db *pg.DB, name, box string) *model.Customer {
	c, err := NewCustomerRepository(db).Create(context.Background(), &model.Customer{Name: name, BoxNumber: box, Phone: "0700"})
	require.NoError(t, err)
	return c
}

func newPayment(customerID int64, month, year int, amount string, collected time.Time) *model.Payment {
	name, _ := model.MonthName(month)
	return &model.Payment{
		CustomerID:            customerID,
		CustomerName:          "customer",
		Amount:                decimal.RequireFromString(amount),
		Date:                  time.Now(),
		CollectionDate:        collected,
		SubscriptionMonth:     month,
		SubscriptionYear:      year,
		SubscriptionMonthName: name,
		CollectedBy:           model.AdminCollector,
		Status:                model.PaymentCompleted,
		Method:                model.DefaultPaymentMethod,
	}
}
