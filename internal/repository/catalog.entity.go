package repository

import (
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/shopspring/decimal"
)

type PackageEntity struct {
	ID          int64           `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	Name        string          `db:"name"        gorm:"column:name;not null"`
	Price       decimal.Decimal `db:"price"       gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Description string          `db:"description" gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time       `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (PackageEntity) TableName() string {
	return "packages"
}

func toPackageEntity(m *model.Package) *PackageEntity {
	if m == nil {
		return nil
	}
	return &PackageEntity{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func toPackageModel(e *PackageEntity) *model.Package {
	if e == nil {
		return nil
	}
	return &model.Package{
		ID:          e.ID,
		Name:        e.Name,
		Price:       e.Price,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

type AgentEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	Code      string    `db:"code"       gorm:"column:code;not null;uniqueIndex:uniq_agent_code"`
	Phone     string    `db:"phone"      gorm:"column:phone;not null"`
	Email     string    `db:"email"      gorm:"column:email;not null;default:''"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (AgentEntity) TableName() string {
	return "agents"
}

func toAgentEntity(m *model.Agent) *AgentEntity {
	if m == nil {
		return nil
	}
	return &AgentEntity{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		Phone:     m.Phone,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

func toAgentModel(e *AgentEntity) *model.Agent {
	if e == nil {
		return nil
	}
	return &model.Agent{
		ID:        e.ID,
		Name:      e.Name,
		Code:      e.Code,
		Phone:     e.Phone,
		Email:     e.Email,
		CreatedAt: e.CreatedAt,
	}
}
