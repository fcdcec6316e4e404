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
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrDuplicateBoxNumber = errors.New("box number already assigned")
)

// columns a customer edit may touch; payment status is owned by the ledger
var customerEditableColumns = []string{
	"office", "serial_no", "name", "phone", "area", "id_number",
	"box_number", "package_id", "agent_id", "updated_at",
}

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)
	entity.PaymentStatus = string(model.CustomerUnpaid)
	entity.LastPaymentDate = nil

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, ErrDuplicateBoxNumber
		}
		return nil, err
	}
	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)
	entity.UpdatedAt = time.Now().UTC()

	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{ID: c.ID}).
		Select(customerEditableColumns).
		Updates(entity)
	if result.Error != nil {
		if pg.IsUniqueViolation(result.Error) {
			return nil, ErrDuplicateBoxNumber
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCustomerNotFound
	}
	return r.Get(ctx, c.ID)
}

func (r *CustomerRepository) Get(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// GetByIDs returns the customers that exist among ids, keyed by id.
func (r *CustomerRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Customer, error) {
	out := make(map[int64]*model.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var entities []*CustomerEntity
	if err := r.Read(ctx).WithContext(ctx).Where("id IN ?", ids).Find(&entities).Error; err != nil {
		return nil, err
	}
	for _, e := range entities {
		out[e.ID] = toCustomerModel(e)
	}
	return out, nil
}

func (r *CustomerRepository) FindByBoxNumber(ctx context.Context, boxNumber string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("box_number = ?", boxNumber).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&CustomerEntity{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR box_number LIKE ? OR phone LIKE ? OR serial_no LIKE ?", like, like, like, like)
	}
	if f.PaymentStatus != nil {
		q = q.Where("payment_status = ?", string(*f.PaymentStatus))
	}
	if f.PackageID != nil {
		q = q.Where("package_id = ?", *f.PackageID)
	}
	if f.WithPhone {
		q = q.Where("phone <> ''")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("name ASC").Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var entities []*CustomerEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return toCustomerModels(entities), total, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).Delete(&CustomerEntity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).Model(&CustomerEntity{}).Count(&n).Error
	return n, err
}

func (r *CustomerRepository) CountByPaymentStatus(ctx context.Context, status model.CustomerPaymentStatus) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).Model(&CustomerEntity{}).
		Where("payment_status = ?", string(status)).
		Count(&n).Error
	return n, err
}

func (r *CustomerRepository) CountByPackage(ctx context.Context, packageID int64) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).Model(&CustomerEntity{}).
		Where("package_id = ?", packageID).
		Count(&n).Error
	return n, err
}

func (r *CustomerRepository) CountByAgent(ctx context.Context, agentID int64) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).Model(&CustomerEntity{}).
		Where("agent_id = ?", agentID).
		Count(&n).Error
	return n, err
}

// SetPaymentStatus writes the cached status. A nil lastPaymentDate clears it.
func (r *CustomerRepository) SetPaymentStatus(ctx context.Context, id int64, status model.CustomerPaymentStatus, lastPaymentDate *time.Time) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status":    string(status),
			"last_payment_date": utcPtr(lastPaymentDate),
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
