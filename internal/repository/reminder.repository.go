package repository

import (
	"context"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/pg"
)

type ReminderRepository struct {
	*pg.DB
}

func NewReminderRepository(db *pg.DB) *ReminderRepository {
	return &ReminderRepository{
		db,
	}
}

func (r *ReminderRepository) Create(ctx context.Context, m *model.Reminder) (*model.Reminder, error) {
	entity := toReminderEntity(m)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toReminderModel(entity), nil
}

// ListRecent returns the newest reminders first.
func (r *ReminderRepository) ListRecent(ctx context.Context, limit int) ([]*model.Reminder, error) {
	var entities []*ReminderEntity
	q := r.Read(ctx).WithContext(ctx).Order("date DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Reminder, len(entities))
	for i, e := range entities {
		out[i] = toReminderModel(e)
	}
	return out, nil
}
