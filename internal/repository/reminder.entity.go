package repository

import (
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
)

type ReminderEntity struct {
	ID                int64     `db:"id"                 gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID        int64     `db:"customer_id"        gorm:"column:customer_id;not null;index"`
	CustomerName      string    `db:"customer_name"      gorm:"column:customer_name;not null"`
	Phone             string    `db:"phone"              gorm:"column:phone;not null"`
	BoxNumber         string    `db:"box_number"         gorm:"column:box_number;not null;default:''"`
	Date              time.Time `db:"date"               gorm:"column:date;not null;index"`
	Method            string    `db:"method"             gorm:"column:method;not null"`
	Status            string    `db:"status"             gorm:"column:status;not null;default:sent"`
	SubscriptionMonth int       `db:"subscription_month" gorm:"column:subscription_month;not null"`
	SubscriptionYear  int       `db:"subscription_year"  gorm:"column:subscription_year;not null"`
	MonthYear         string    `db:"month_year"         gorm:"column:month_year;not null"`
}

func (ReminderEntity) TableName() string {
	return "reminders"
}

func toReminderEntity(m *model.Reminder) *ReminderEntity {
	if m == nil {
		return nil
	}
	return &ReminderEntity{
		ID:                m.ID,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		Phone:             m.Phone,
		BoxNumber:         m.BoxNumber,
		Date:              m.Date.UTC(),
		Method:            string(m.Method),
		Status:            string(m.Status),
		SubscriptionMonth: m.SubscriptionMonth,
		SubscriptionYear:  m.SubscriptionYear,
		MonthYear:         m.MonthYear,
	}
}

func toReminderModel(e *ReminderEntity) *model.Reminder {
	if e == nil {
		return nil
	}
	return &model.Reminder{
		ID:                e.ID,
		CustomerID:        e.CustomerID,
		CustomerName:      e.CustomerName,
		Phone:             e.Phone,
		BoxNumber:         e.BoxNumber,
		Date:              e.Date,
		Method:            model.ReminderMethod(e.Method),
		Status:            model.ReminderStatus(e.Status),
		SubscriptionMonth: e.SubscriptionMonth,
		SubscriptionYear:  e.SubscriptionYear,
		MonthYear:         e.MonthYear,
	}
}
