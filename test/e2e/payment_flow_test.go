package e2e

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/nimasrn/cable-billing/internal/auth"
	"github.com/nimasrn/cable-billing/internal/handlers"
	"github.com/nimasrn/cable-billing/internal/lock"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/internal/services"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"github.com/nimasrn/cable-billing/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

type TestEnvironment struct {
	DB         *pg.DB
	Router     *xhttp.Router
	AdminToken string
	Resolver   *auth.Resolver
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db := helpers.SetupTestDB(t)
	_, redisAdapter := helpers.SetupTestRedis(t)

	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	paymentService := services.NewPaymentService(paymentRepo, customerRepo, agentRepo, packageRepo, time.UTC)
	paymentService.UseLocker(lock.NewCollectionLocker(redisAdapter, lock.DefaultConfig()), time.Second)
	statsService := services.NewStatsService(paymentRepo, customerRepo, agentRepo, packageRepo, time.UTC, 5)

	resolver := auth.NewResolver("e2e-secret", "billing")
	authn := handlers.Authenticate(resolver)

	r := xhttp.CreateDefaultRouter()
	g := r.Group("/api/v1")
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(services.NewHealthService(db, redisAdapter)))
	handlers.RegisterPaymentRoutes(g, handlers.NewPaymentHandler(paymentService, time.UTC), authn)
	handlers.RegisterReportRoutes(g, handlers.NewReportHandler(statsService, time.UTC), authn)
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(services.NewCustomerService(customerRepo, packageRepo, agentRepo)), authn)
	handlers.RegisterCatalogRoutes(g, handlers.NewCatalogHandler(services.NewCatalogService(packageRepo, agentRepo, customerRepo)), authn)
	handlers.RegisterReminderRoutes(g, handlers.NewReminderHandler(services.NewReminderService(reminderRepo, customerRepo, paymentRepo, packageRepo, time.UTC)), authn)

	adminToken, err := resolver.Issue(model.AdminScope(), "admin", time.Hour)
	require.NoError(t, err)

	return &TestEnvironment{
		DB:         db,
		Router:     r,
		AdminToken: adminToken,
		Resolver:   resolver,
	}
}

func (env *TestEnvironment) tokenFor(t *testing.T, agentID int64) string {
	token, err := env.Resolver.Issue(model.AgentScope(agentID), fmt.Sprintf("agent-%d", agentID), time.Hour)
	require.NoError(t, err)
	return token
}

func (env *TestEnvironment) do(method, path, token string, body any) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		b, _ := json.Marshal(body)
		ctx.Request.SetBody(b)
	}
	env.Router.Handler(ctx)
	return ctx
}

func decode[T any](t *testing.T, ctx *fasthttp.RequestCtx) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &v), string(ctx.Response.Body()))
	return v
}

func TestE2E_CollectionFlow(t *testing.T) {
	env := setupE2EEnvironment(t)
	admin := env.AdminToken

	res := env.do("POST", "/api/v1/packages", admin, map[string]any{"name": "Gold", "price": "500"})
	require.Equal(t, 201, res.Response.StatusCode(), string(res.Response.Body()))
	gold := decode[model.Package](t, res)

	res = env.do("POST", "/api/v1/agents", admin, map[string]any{"name": "Ann", "code": "AG1", "phone": "0700"})
	require.Equal(t, 201, res.Response.StatusCode(), string(res.Response.Body()))
	ann := decode[model.Agent](t, res)
	annToken := env.tokenFor(t, ann.ID)

	res = env.do("POST", "/api/v1/customers", admin, map[string]any{
		"name": "Jane", "box_number": "BX-1", "phone": "0711", "package_id": gold.ID, "agent_id": ann.ID,
	})
	require.Equal(t, 201, res.Response.StatusCode(), string(res.Response.Body()))
	jane := decode[model.Customer](t, res)

	// the agent collects without naming an amount: the package price applies
	res = env.do("POST", "/api/v1/payments", annToken, map[string]any{
		"customer_id": jane.ID, "subscription_month": 3, "subscription_year": 2025, "collection_date": now.Format(model.DateLayout),
	})
	require.Equal(t, 201, res.Response.StatusCode(), string(res.Response.Body()))
	first := decode[model.Payment](t, res)
	assert.Equal(t, "March", first.SubscriptionMonthName)
	assert.Equal(t, "Ann", first.CollectedBy)
	assert.Equal(t, "500", first.Amount.String())

	// a second collection for the same period is refused with the existing record
	res = env.do("POST", "/api/v1/payments", admin, map[string]any{
		"customer_id": jane.ID, "amount": "500", "subscription_month": 3, "subscription_year": 2025, "collection_date": "2025-03-16",
	})
	require.Equal(t, 409, res.Response.StatusCode())
	dup := decode[map[string]any](t, res)
	assert.Equal(t, now.Format(model.DateLayout), dup["collection_date"])
	assert.Equal(t, "March", dup["subscription_month_name"])

	res = env.do("GET", "/api/v1/customers/"+fmt.Sprint(jane.ID), annToken, nil)
	require.Equal(t, 200, res.Response.StatusCode())
	assert.Equal(t, model.CustomerPaid, decode[model.Customer](t, res).PaymentStatus)

	// a different agent neither sees nor deletes the payment
	other := env.tokenFor(t, ann.ID+100)
	res = env.do("GET", "/api/v1/payments", other, nil)
	require.Equal(t, 200, res.Response.StatusCode())
	assert.Empty(t, decode[map[string]any](t, res)["items"])

	res = env.do("DELETE", "/api/v1/payments/"+fmt.Sprint(first.ID), other, nil)
	assert.Equal(t, 403, res.Response.StatusCode())

	// the package cannot go while Jane is on it
	res = env.do("DELETE", "/api/v1/packages/"+fmt.Sprint(gold.ID), admin, nil)
	require.Equal(t, 409, res.Response.StatusCode())
	assert.EqualValues(t, 1, decode[map[string]any](t, res)["count"])

	res = env.do("DELETE", "/api/v1/payments/"+fmt.Sprint(first.ID), annToken, nil)
	require.Equal(t, 200, res.Response.StatusCode(), string(res.Response.Body()))

	res = env.do("GET", "/api/v1/customers/"+fmt.Sprint(jane.ID), admin, nil)
	require.Equal(t, 200, res.Response.StatusCode())
	reverted := decode[model.Customer](t, res)
	assert.Equal(t, model.CustomerUnpaid, reverted.PaymentStatus)
	assert.Nil(t, reverted.LastPaymentDate)

	// the period is free again
	res = env.do("POST", "/api/v1/payments", admin, map[string]any{
		"customer_id": jane.ID, "amount": "450", "subscription_month": 3, "subscription_year": 2025, "collection_date": "2025-03-16",
	})
	require.Equal(t, 201, res.Response.StatusCode(), string(res.Response.Body()))
}

func TestE2E_AuthAndHealth(t *testing.T) {
	env := setupE2EEnvironment(t)

	res := env.do("GET", "/api/v1/health", "", nil)
	assert.Equal(t, 200, res.Response.StatusCode())

	res = env.do("GET", "/api/v1/dashboard", "", nil)
	assert.Equal(t, 401, res.Response.StatusCode())

	res = env.do("GET", "/api/v1/dashboard", "not-a-token", nil)
	assert.Equal(t, 401, res.Response.StatusCode())

	res = env.do("GET", "/api/v1/dashboard", env.AdminToken, nil)
	require.Equal(t, 200, res.Response.StatusCode())
	stats := decode[map[string]any](t, res)
	assert.Contains(t, stats, "today_paid_count")

	// agents cannot manage the catalog
	res = env.do("POST", "/api/v1/packages", env.tokenFor(t, 1), map[string]any{"name": "X", "price": "1"})
	assert.Equal(t, 403, res.Response.StatusCode())
}
