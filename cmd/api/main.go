package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/cable-billing/internal/auth"
	"github.com/nimasrn/cable-billing/internal/config"
	"github.com/nimasrn/cable-billing/internal/handlers"
	"github.com/nimasrn/cable-billing/internal/lock"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/internal/services"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
	"github.com/nimasrn/cable-billing/pkg/logger"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"github.com/nimasrn/cable-billing/pkg/prom"
	"github.com/nimasrn/cable-billing/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	loc := cfg.Location()
	logger.Info("starting billing api", "version", version, "commit", commit, "date", date, "timezone", loc.String())

	if cfg.JwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		return
	}

	opt := xhttp.DefaultServerOption
	opt.Name = cfg.AppName
	if cfg.HttpServerReadTimeout > 0 {
		opt.ReadTimeout = time.Duration(cfg.HttpServerReadTimeout) * time.Second
	}
	if cfg.HttpServerWriteTimeout > 0 {
		opt.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeout) * time.Second
	}
	if cfg.HttpServerReadBufferSize > 0 {
		opt.ReadBufferSize = cfg.HttpServerReadBufferSize
	}
	if cfg.HttpServerWriteBufferSize > 0 {
		opt.WriteBufferSize = cfg.HttpServerWriteBufferSize
	}
	s := xhttp.NewServer(opt)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.TimeoutMiddleware(time.Duration(cfg.HttpRequestTimeout) * time.Second))

	readConf := pg.Config{
		User:     cfg.PostgresReadUser,
		Host:     cfg.PostgresReadHost,
		Port:     cfg.PostgresReadPort,
		Password: cfg.PostgresReadPassword,
		Database: cfg.PostgresReadDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}
	writeConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}

	pgDebug := false
	if cfg.AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	// redis only backs the collection fast path; the database constraint is
	// what guarantees a single payment per period
	var redisAdap redis.RedisAdapter
	if cfg.RedisAddr != "" {
		redisAdap, err = redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: cfg.AppName,
			DB:         cfg.RedisDatabase,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Warn("redis unavailable, collection lock disabled", "error", err)
			redisAdap = nil
		}
	}

	if cfg.MetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.MetricsAddr, cfg.MetricsURI)
	}

	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// services
	paymentService := services.NewPaymentService(paymentRepo, customerRepo, agentRepo, packageRepo, loc)
	if redisAdap != nil {
		paymentService.UseLocker(lock.NewCollectionLocker(redisAdap, lock.Config{TTL: cfg.CollectionLockTTL}), cfg.CollectionLockWait)
	}
	statsService := services.NewStatsService(paymentRepo, customerRepo, agentRepo, packageRepo, loc, cfg.RecentPaymentsLimit)
	customerService := services.NewCustomerService(customerRepo, packageRepo, agentRepo)
	catalogService := services.NewCatalogService(packageRepo, agentRepo, customerRepo)
	reminderService := services.NewReminderService(reminderRepo, customerRepo, paymentRepo, packageRepo, loc)
	healthService := services.NewHealthService(db, redisAdap)

	// v1 handlers
	authn := handlers.Authenticate(auth.NewResolver(cfg.JwtSecret, cfg.JwtIssuer))

	g := s.Router.Group("/api/v1")
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(healthService))
	handlers.RegisterPaymentRoutes(g, handlers.NewPaymentHandler(paymentService, loc), authn)
	handlers.RegisterReportRoutes(g, handlers.NewReportHandler(statsService, loc), authn)
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(customerService), authn)
	handlers.RegisterCatalogRoutes(g, handlers.NewCatalogHandler(catalogService), authn)
	handlers.RegisterReminderRoutes(g, handlers.NewReminderHandler(reminderService), authn)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(cfg.HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
	logger.Sync()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
