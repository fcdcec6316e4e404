package services

import (
	"github.com/nimasrn/cable-billing/internal/model"
)

func requireScope(scope model.Scope) error {
	if !scope.Valid() {
		return ErrForbidden
	}
	return nil
}

func requireAdmin(scope model.Scope) error {
	if !scope.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// scopePaymentFilter forces the caller's agent restriction onto f. Agents never
// widen their own view through a filter.
func scopePaymentFilter(scope model.Scope, f model.PaymentFilter) (model.PaymentFilter, error) {
	if err := requireScope(scope); err != nil {
		return f, err
	}
	if scope.IsAdmin() {
		return f, nil
	}
	f.AgentID = scope.PaymentAgentFilter()
	return f, nil
}

// collectingAgent resolves whose collection a new payment is. Agents collect for
// themselves; admins may name any agent or none.
func collectingAgent(scope model.Scope, requested *int64) (*int64, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	if scope.IsAdmin() {
		if requested != nil && *requested == 0 {
			return nil, nil
		}
		return requested, nil
	}
	own, _ := scope.AgentID()
	if requested != nil && *requested != own {
		return nil, ErrForbidden
	}
	return &own, nil
}

func canDeletePayment(scope model.Scope, p *model.Payment) error {
	if scope.IsAdmin() {
		return nil
	}
	if scope.IsAgent() && scope.CanSeePayment(p) {
		return nil
	}
	return ErrForbidden
}
