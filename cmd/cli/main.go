package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nimasrn/cable-billing/internal/auth"
	"github.com/nimasrn/cable-billing/internal/config"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/logger"
	"github.com/nimasrn/cable-billing/pkg/pg"
)

// main.go migrate --dir=./migrations
// main.go token --role=agent --agent=3 --ttl=720h
func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	switch command() {
	case "token":
		issueToken()
	default:
		migrate()
	}
}

func command() string {
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "--") {
		return os.Args[1]
	}
	return "migrate"
}

func migrate() {
	pgConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
		SSLMode:  config.Get().PostgresSSLMode,
	}
	err := pg.Migrate(pgConf, getMigrationPath())
	if err != nil {
		logger.Error("migration: error running migrations", "error", err)
	}
}

func issueToken() {
	if config.Get().JwtSecret == "" {
		logger.Error("token: JWT_SECRET is required")
		return
	}

	var scope model.Scope
	subject := "admin"
	switch role := argValue("role", "admin"); role {
	case string(model.RoleAdmin):
		scope = model.AdminScope()
	case string(model.RoleAgent):
		id, err := strconv.ParseInt(argValue("agent", ""), 10, 64)
		if err != nil || id <= 0 {
			logger.Error("token: --agent=<id> is required for agent tokens")
			return
		}
		scope = model.AgentScope(id)
		subject = "agent-" + strconv.FormatInt(id, 10)
	default:
		logger.Error("token: unknown role", "role", role)
		return
	}

	ttl, err := time.ParseDuration(argValue("ttl", "720h"))
	if err != nil {
		logger.Error("token: invalid --ttl", "error", err)
		return
	}

	token, err := auth.NewResolver(config.Get().JwtSecret, config.Get().JwtIssuer).Issue(scope, subject, ttl)
	if err != nil {
		logger.Error("token: signing failed", "error", err)
		return
	}
	fmt.Println(token)
}

func argValue(name, fallback string) string {
	prefix := "--" + name + "="
	for _, v := range os.Args {
		if strings.HasPrefix(v, prefix) {
			return strings.TrimPrefix(v, prefix)
		}
	}
	return fallback
}

func getEnvPath() string {
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
	if _, err := os.Open(".env"); err != nil {
		return ""
	}
	return ".env"
}

func getMigrationPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--dir=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed migration dir, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return "./migrations"
}
