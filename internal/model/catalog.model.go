package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Package struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PackageInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

func (in *PackageInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("package name is required")
	}
	if in.Price.IsNegative() {
		return validationf("package price must not be negative")
	}
	return nil
}

// Agent is a field collector. Code is the login-facing identifier and is unique.
type Agent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AgentInput struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (in *AgentInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validationf("agent name is required")
	case strings.TrimSpace(in.Code) == "":
		return validationf("agent code is required")
	case strings.TrimSpace(in.Phone) == "":
		return validationf("agent phone is required")
	}
	return nil
}
