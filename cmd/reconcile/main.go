package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/nimasrn/cable-billing/internal/config"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/internal/repository"
	"github.com/nimasrn/cable-billing/internal/services"
	"github.com/nimasrn/cable-billing/pkg/logger"
	"github.com/nimasrn/cable-billing/pkg/pg"
)

// reconcile rebuilds every customer's cached payment status from the ledger.
// It is meant to run from cron or by hand after a manual data fix.
func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Get()

	writeConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}
	// reads go to the primary too, a lagging replica would undo fresh payments
	db, err := pg.CreateReadWrite(writeConf, writeConf, false)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		os.Exit(1)
	}

	paymentService := services.NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewAgentRepository(db),
		repository.NewPackageRepository(db),
		cfg.Location(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := paymentService.ReconcileStatuses(ctx, model.AdminScope())
	if err != nil {
		logger.Error("reconcile failed", "error", err)
		os.Exit(1)
	}
	logger.Info("reconcile done", "examined", res.Examined, "corrected", res.Corrected)
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
