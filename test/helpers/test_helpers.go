package helpers

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"github.com/nimasrn/cable-billing/pkg/redis"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB opens an in-memory sqlite ledger with the production schema.
// A single connection keeps every goroutine on the same database; calls made
// inside a transaction must use the transaction's context.
func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         pg.NewLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return pg.New(db, db)
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(t.Name(), "test:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestPackage(t *testing.T, db *pg.DB, name, price string) *model.Package {
	p, err := repository.NewPackageRepository(db).Create(context.Background(), &model.Package{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func CreateTestAgent(t *testing.T, db *pg.DB, name, code string) *model.Agent {
	a, err := repository.NewAgentRepository(db).Create(context.Background(), &model.Agent{
		Name:  name,
		Code:  code,
		Phone: "0700000000",
	})
	require.NoError(t, err)
	return a
}

func CreateTestCustomer(t *testing.T, db *pg.DB, name, box string, packageID *int64) *model.Customer {
	c, err := repository.NewCustomerRepository(db).Create(context.Background(), &model.Customer{
		Name:      name,
		BoxNumber: box,
		Phone:     "0711111111",
		PackageID: packageID,
	})
	require.NoError(t, err)
	return c
}

func GetTestCustomer(t *testing.T, db *pg.DB, id int64) *model.Customer {
	c, err := repository.NewCustomerRepository(db).Get(context.Background(), id)
	require.NoError(t, err)
	return c
}

// CountCompleted counts completed ledger rows for the customer's period.
func CountCompleted(t *testing.T, db *pg.DB, customerID int64, month, year int) int64 {
	var n int64
	err := db.Read(context.Background()).Model(&repository.PaymentEntity{}).
		Where("customer_id = ? AND subscription_month = ? AND subscription_year = ? AND status = ?",
			customerID, month, year, string(model.PaymentCompleted)).
		Count(&n).Error
	require.NoError(t, err)
	return n
}

func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func Ptr[T any](v T) *T {
	return &v
}
