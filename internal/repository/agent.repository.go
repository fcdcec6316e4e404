package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrDuplicateAgentCode = errors.New("agent code already exists")
)

type AgentRepository struct {
	*pg.DB
}

func NewAgentRepository(db *pg.DB) *AgentRepository {
	return &AgentRepository{
		db,
	}
}

func (r *AgentRepository) Create(ctx context.Context, a *model.Agent) (*model.Agent, error) {
	entity := toAgentEntity(a)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, ErrDuplicateAgentCode
		}
		return nil, err
	}
	return toAgentModel(entity), nil
}

func (r *AgentRepository) Update(ctx context.Context, a *model.Agent) (*model.Agent, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&AgentEntity{ID: a.ID}).
		Select("name", "code", "phone", "email").
		Updates(toAgentEntity(a))
	if result.Error != nil {
		if pg.IsUniqueViolation(result.Error) {
			return nil, ErrDuplicateAgentCode
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAgentNotFound
	}
	return r.Get(ctx, a.ID)
}

func (r *AgentRepository) Get(ctx context.Context, id int64) (*model.Agent, error) {
	var entity AgentEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return toAgentModel(&entity), nil
}

func (r *AgentRepository) List(ctx context.Context) ([]*model.Agent, error) {
	var entities []*AgentEntity
	if err := r.Read(ctx).WithContext(ctx).Order("name ASC").Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Agent, len(entities))
	for i, e := range entities {
		out[i] = toAgentModel(e)
	}
	return out, nil
}

func (r *AgentRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).Delete(&AgentEntity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}
