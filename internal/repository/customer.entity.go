package repository

import (
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
)

type CustomerEntity struct {
	ID              int64      `db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	Office          string     `db:"office"            gorm:"column:office;not null;default:''"`
	SerialNo        string     `db:"serial_no"         gorm:"column:serial_no;not null;default:''"`
	Name            string     `db:"name"              gorm:"column:name;not null"`
	Phone           string     `db:"phone"             gorm:"column:phone;not null;default:''"`
	Area            string     `db:"area"              gorm:"column:area;not null;default:''"`
	IDNumber        string     `db:"id_number"         gorm:"column:id_number;not null;default:''"`
	BoxNumber       *string    `db:"box_number"        gorm:"column:box_number;uniqueIndex:uniq_customer_box_number"` // NULL when empty
	PackageID       *int64     `db:"package_id"        gorm:"column:package_id;index"`
	AgentID         *int64     `db:"agent_id"          gorm:"column:agent_id;index"`
	PaymentStatus   string     `db:"payment_status"    gorm:"column:payment_status;not null;default:unpaid;index"`
	LastPaymentDate *time.Time `db:"last_payment_date" gorm:"column:last_payment_date"`
	CreatedAt       time.Time  `db:"created_at"        gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `db:"updated_at"        gorm:"column:updated_at;autoUpdateTime"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	status := string(m.PaymentStatus)
	if status == "" {
		status = string(model.CustomerUnpaid)
	}
	return &CustomerEntity{
		ID:              m.ID,
		Office:          m.Office,
		SerialNo:        m.SerialNo,
		Name:            m.Name,
		Phone:           m.Phone,
		Area:            m.Area,
		IDNumber:        m.IDNumber,
		BoxNumber:       nullableString(m.BoxNumber),
		PackageID:       m.PackageID,
		AgentID:         m.AgentID,
		PaymentStatus:   status,
		LastPaymentDate: utcPtr(m.LastPaymentDate),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	c := &model.Customer{
		ID:              e.ID,
		Office:          e.Office,
		SerialNo:        e.SerialNo,
		Name:            e.Name,
		Phone:           e.Phone,
		Area:            e.Area,
		IDNumber:        e.IDNumber,
		PackageID:       e.PackageID,
		AgentID:         e.AgentID,
		PaymentStatus:   model.CustomerPaymentStatus(e.PaymentStatus),
		LastPaymentDate: e.LastPaymentDate,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.BoxNumber != nil {
		c.BoxNumber = *e.BoxNumber
	}
	return c
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// sqlite compares timestamps as text, so everything is stored in UTC.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
