package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrDuplicatePeriod = errors.New("completed payment already exists for period")
)

type PaymentRepository struct {
	*pg.DB
}

func NewPaymentRepository(db *pg.DB) *PaymentRepository {
	return &PaymentRepository{
		db,
	}
}

// Create inserts p. A second completed payment for the same customer and period
// is rejected by the uniqueness index and reported as ErrDuplicatePeriod.
func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	entity := toPaymentEntity(p)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, ErrDuplicatePeriod
		}
		return nil, err
	}
	return toPaymentModel(entity), nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&PaymentEntity{ID: p.ID}).
		Select("amount", "collection_date", "subscription_month", "subscription_year",
			"subscription_month_name", "agent_id", "collected_by", "status", "method").
		Updates(toPaymentEntity(p))
	if result.Error != nil {
		if pg.IsUniqueViolation(result.Error) {
			return nil, ErrDuplicatePeriod
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPaymentNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*model.Payment, error) {
	var entity PaymentEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return toPaymentModel(&entity), nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).Delete(&PaymentEntity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// FindCompletedForPeriod returns the completed payment holding the customer's
// period, ignoring excludeID (0 ignores nothing).
func (r *PaymentRepository) FindCompletedForPeriod(ctx context.Context, customerID int64, period model.Period, excludeID int64) (*model.Payment, error) {
	q := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ? AND subscription_month = ? AND subscription_year = ? AND status = ?",
			customerID, period.Month, period.Year, string(model.PaymentCompleted))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var entity PaymentEntity
	if err := q.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return toPaymentModel(&entity), nil
}

func (r *PaymentRepository) CountCompletedByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).Model(&PaymentEntity{}).
		Where("customer_id = ? AND status = ?", customerID, string(model.PaymentCompleted)).
		Count(&n).Error
	return n, err
}

// LatestCompletedCollection returns the newest collection date among the
// customer's completed payments, or nil when there is none.
func (r *PaymentRepository) LatestCompletedCollection(ctx context.Context, customerID int64) (*time.Time, error) {
	var entities []PaymentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, string(model.PaymentCompleted)).
		Order("collection_date DESC").
		Limit(1).
		Find(&entities).Error
	if err != nil || len(entities) == 0 {
		return nil, err
	}
	latest := entities[0].CollectionDate
	return &latest, nil
}

func (r *PaymentRepository) List(ctx context.Context, f model.PaymentFilter) ([]*model.Payment, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&PaymentEntity{})

	if f.AgentID != nil {
		q = q.Where("agent_id = ?", *f.AgentID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.CollectedFrom != nil {
		q = q.Where("collection_date >= ?", f.CollectedFrom.UTC())
	}
	if f.CollectedUntil != nil {
		q = q.Where("collection_date < ?", f.CollectedUntil.UTC())
	}
	if f.Period != nil {
		q = q.Where("subscription_month = ? AND subscription_year = ?", f.Period.Month, f.Period.Year)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Order {
	case model.OrderByCollection:
		q = q.Order("collection_date DESC").Order("id DESC")
	default:
		q = q.Order("date DESC").Order("id DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var entities []*PaymentEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return toPaymentModels(entities), total, nil
}

// PaidCustomerIDs returns the distinct customers holding a completed payment for
// period, optionally restricted to one collecting agent.
func (r *PaymentRepository) PaidCustomerIDs(ctx context.Context, period model.Period, agentID *int64) ([]int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&PaymentEntity{}).
		Where("status = ? AND subscription_month = ? AND subscription_year = ?",
			string(model.PaymentCompleted), period.Month, period.Year)
	if agentID != nil {
		q = q.Where("agent_id = ?", *agentID)
	}

	var ids []int64
	if err := q.Distinct().Pluck("customer_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
