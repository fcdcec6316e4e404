package repository

import (
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/shopspring/decimal"
)

// PaymentEntity carries the period uniqueness rule as a partial unique index:
// one completed row per customer and subscription month.
type PaymentEntity struct {
	ID                    int64           `db:"id"                      gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID            int64           `db:"customer_id"             gorm:"column:customer_id;not null;index;uniqueIndex:uniq_payment_period,priority:1,where:status = 'completed'"`
	CustomerName          string          `db:"customer_name"           gorm:"column:customer_name;not null"`
	Amount                decimal.Decimal `db:"amount"                  gorm:"column:amount;type:numeric(12,2);not null"`
	Date                  time.Time       `db:"date"                    gorm:"column:date;not null"`
	CollectionDate        time.Time       `db:"collection_date"         gorm:"column:collection_date;not null;index"`
	SubscriptionMonth     int             `db:"subscription_month"      gorm:"column:subscription_month;not null;uniqueIndex:uniq_payment_period,priority:2,where:status = 'completed'"`
	SubscriptionYear      int             `db:"subscription_year"       gorm:"column:subscription_year;not null;uniqueIndex:uniq_payment_period,priority:3,where:status = 'completed'"`
	SubscriptionMonthName string          `db:"subscription_month_name" gorm:"column:subscription_month_name;not null"`
	AgentID               *int64          `db:"agent_id"                gorm:"column:agent_id;index"`
	CollectedBy           string          `db:"collected_by"            gorm:"column:collected_by;not null"`
	Status                string          `db:"status"                  gorm:"column:status;not null;default:completed"`
	Method                string          `db:"method"                  gorm:"column:method;not null;default:Cash"`
}

func (PaymentEntity) TableName() string {
	return "payments"
}

func toPaymentEntity(m *model.Payment) *PaymentEntity {
	if m == nil {
		return nil
	}
	return &PaymentEntity{
		ID:                    m.ID,
		CustomerID:            m.CustomerID,
		CustomerName:          m.CustomerName,
		Amount:                m.Amount,
		Date:                  m.Date.UTC(),
		CollectionDate:        m.CollectionDate.UTC(),
		SubscriptionMonth:     m.SubscriptionMonth,
		SubscriptionYear:      m.SubscriptionYear,
		SubscriptionMonthName: m.SubscriptionMonthName,
		AgentID:               m.AgentID,
		CollectedBy:           m.CollectedBy,
		Status:                string(m.Status),
		Method:                m.Method,
	}
}

func toPaymentModel(e *PaymentEntity) *model.Payment {
	if e == nil {
		return nil
	}
	return &model.Payment{
		ID:                    e.ID,
		CustomerID:            e.CustomerID,
		CustomerName:          e.CustomerName,
		Amount:                e.Amount,
		Date:                  e.Date,
		CollectionDate:        e.CollectionDate,
		SubscriptionMonth:     e.SubscriptionMonth,
		SubscriptionYear:      e.SubscriptionYear,
		SubscriptionMonthName: e.SubscriptionMonthName,
		AgentID:               e.AgentID,
		CollectedBy:           e.CollectedBy,
		Status:                model.PaymentStatus(e.Status),
		Method:                e.Method,
	}
}

func toPaymentModels(entities []*PaymentEntity) []*model.Payment {
	if entities == nil {
		return nil
	}
	models := make([]*model.Payment, len(entities))
	for i, e := range entities {
		models[i] = toPaymentModel(e)
	}
	return models
}
