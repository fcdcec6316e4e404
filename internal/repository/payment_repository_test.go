package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_PeriodUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Jane", "B-1")
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("second completed payment for period is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, newPayment(c.ID, 3, 2025, "400", day))
		require.NoError(t, err)

		_, err = repo.Create(ctx, newPayment(c.ID, 3, 2025, "999", day))
		assert.ErrorIs(t, err, ErrDuplicatePeriod)
	})

	t.Run("pending payments do not hold the period", func(t *testing.T) {
		p := newPayment(c.ID, 3, 2025, "400", day)
		p.Status = model.PaymentPending
		_, err := repo.Create(ctx, p)
		assert.NoError(t, err)
	})

	t.Run("other periods are free", func(t *testing.T) {
		_, err := repo.Create(ctx, newPayment(c.ID, 4, 2025, "400", day))
		assert.NoError(t, err)
		_, err = repo.Create(ctx, newPayment(c.ID, 3, 2024, "400", day))
		assert.NoError(t, err)
	})

	t.Run("update into a taken period is rejected", func(t *testing.T) {
		p, err := repo.Create(ctx, newPayment(c.ID, 5, 2025, "400", day))
		require.NoError(t, err)

		p.SubscriptionMonth = 4
		_, err = repo.Update(ctx, p)
		assert.ErrorIs(t, err, ErrDuplicatePeriod)
	})
}

func TestPaymentRepository_FindCompletedForPeriod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Jane", "B-1")
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, newPayment(c.ID, 3, 2025, "400", day))
	require.NoError(t, err)

	found, err := repo.FindCompletedForPeriod(ctx, c.ID, model.Period{Month: 3, Year: 2025}, 0)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.CollectionDate.Equal(day))
	assert.Equal(t, "March", found.SubscriptionMonthName)

	_, err = repo.FindCompletedForPeriod(ctx, c.ID, model.Period{Month: 3, Year: 2025}, created.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = repo.FindCompletedForPeriod(ctx, c.ID, model.Period{Month: 4, Year: 2025}, 0)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentRepository_LatestCompletedCollection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Jane", "B-1")

	latest, err := repo.LatestCompletedCollection(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	march := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err = repo.Create(ctx, newPayment(c.ID, 3, 2025, "400", march))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newPayment(c.ID, 1, 2025, "400", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	pending := newPayment(c.ID, 4, 2025, "400", time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC))
	pending.Status = model.PaymentPending
	_, err = repo.Create(ctx, pending)
	require.NoError(t, err)

	latest, err = repo.LatestCompletedCollection(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.Equal(march))
}

func TestPaymentRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()
	a := seedCustomer(t, db, "A", "B-1")
	b := seedCustomer(t, db, "B", "B-2")
	agent := int64(7)

	first := newPayment(a.ID, 3, 2025, "100", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	first.AgentID = &agent
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newPayment(b.ID, 3, 2025, "200", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	pending := newPayment(b.ID, 4, 2025, "300", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	pending.Status = model.PaymentPending
	_, err = repo.Create(ctx, pending)
	require.NoError(t, err)

	t.Run("agent filter", func(t *testing.T) {
		out, total, err := repo.List(ctx, model.PaymentFilter{AgentID: &agent})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, out, 1)
		assert.Equal(t, a.ID, out[0].CustomerID)
	})

	t.Run("completed within range ordered by collection date", func(t *testing.T) {
		status := model.PaymentCompleted
		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		until := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		out, total, err := repo.List(ctx, model.PaymentFilter{
			Status:         &status,
			CollectedFrom:  &from,
			CollectedUntil: &until,
			Order:          model.OrderByCollection,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, out, 2)
		assert.Equal(t, b.ID, out[0].CustomerID)
		assert.Equal(t, a.ID, out[1].CustomerID)
	})

	t.Run("paid customer ids for period", func(t *testing.T) {
		ids, err := repo.PaidCustomerIDs(ctx, model.Period{Month: 3, Year: 2025}, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{a.ID, b.ID}, ids)

		ids, err = repo.PaidCustomerIDs(ctx, model.Period{Month: 3, Year: 2025}, &agent)
		require.NoError(t, err)
		assert.Equal(t, []int64{a.ID}, ids)

		ids, err = repo.PaidCustomerIDs(ctx, model.Period{Month: 4, Year: 2025}, nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("count completed by customer", func(t *testing.T) {
		n, err := repo.CountCompletedByCustomer(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestPaymentRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Jane", "")

	p, err := repo.Create(ctx, newPayment(c.ID, 3, 2025, "400", time.Now()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrPaymentNotFound)

	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
