package handlers

import (
	"context"

	"github.com/nimasrn/cable-billing/internal/model"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/valyala/fasthttp"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, scope model.Scope, req model.RecordPaymentRequest) (*model.Payment, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, scope model.Scope, id int64, req model.UpdatePaymentRequest) (*model.Payment, error) {
	args := m.Called(ctx, scope, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, scope model.Scope, id int64) error {
	args := m.Called(ctx, scope, id)
	return args.Error(0)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, scope model.Scope, f model.PaymentFilter) ([]*model.Payment, int64, error) {
	args := m.Called(ctx, scope, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentService) ReconcileStatuses(ctx context.Context, scope model.Scope) (*model.ReconcileResult, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconcileResult), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context, scope model.Scope) (*model.DashboardStats, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

func (m *MockStatsService) DailyReport(ctx context.Context, scope model.Scope, date string) (*model.PaymentReport, error) {
	args := m.Called(ctx, scope, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentReport), args.Error(1)
}

func (m *MockStatsService) MonthlyReport(ctx context.Context, scope model.Scope, period model.Period) (*model.PaymentReport, error) {
	args := m.Called(ctx, scope, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentReport), args.Error(1)
}

func (m *MockStatsService) Breakdown(ctx context.Context, scope model.Scope, q model.BreakdownQuery) ([]model.BreakdownRow, error) {
	args := m.Called(ctx, scope, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BreakdownRow), args.Error(1)
}

func (m *MockStatsService) RecentPayments(ctx context.Context, scope model.Scope, limit int) ([]*model.Payment, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Payment), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

// withScope is what Authenticate leaves on the request.
func withScope(ctx *xhttp.RequestCtx, scope model.Scope) *xhttp.RequestCtx {
	ctx.SetUserValue(scopeKey, scope)
	return ctx
}
