package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/cable-billing/pkg/logger"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every runtime setting of the billing services. Nothing else
// should read the environment directly.
type Config struct {
	AppEnv      string `env:"APP_ENV,default=dev"`
	AppName     string `env:"APP_NAME,default=cable_billing"`
	AppTimezone string `env:"APP_TIMEZONE,default=UTC"`

	HttpListenAddr            string `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpServerReadTimeout     int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout    int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`
	HttpServerReadBufferSize  int    `env:"HTTP_SERVER_READ_BUFFER_SIZE"`
	HttpServerWriteBufferSize int    `env:"HTTP_SERVER_WRITE_BUFFER_SIZE"`
	HttpRequestTimeout        int    `env:"HTTP_REQUEST_TIMEOUT,default=15"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`
	PostgresSSLMode       string `env:"POSTGRES_SSLMODE,default=disable"`

	RedisAddr               string        `env:"REDIS_ADDR"`
	RedisUsername           string        `env:"REDIS_USER"`
	RedisPassword           string        `env:"REDIS_PASS"`
	RedisDatabase           int           `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string        `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=billing:"`
	CollectionLockTTL       time.Duration `env:"COLLECTION_LOCK_TTL,default=10s"`
	CollectionLockWait      time.Duration `env:"COLLECTION_LOCK_WAIT,default=2s"`

	PromNamespace string `env:"PROM_NAMESPACE,default=cable_billing"`
	MetricsAddr   string `env:"METRICS_ADDR"`
	MetricsURI    string `env:"METRICS_URI,default=/metrics"`

	JwtSecret string `env:"JWT_SECRET"`
	JwtIssuer string `env:"JWT_ISSUER"`

	RecentPaymentsLimit int `env:"RECENT_PAYMENTS_LIMIT,default=5"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	_, err = env.UnmarshalFromEnviron(c)
	if err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}

	if _, err = time.LoadLocation(c.AppTimezone); err != nil {
		return errors.Wrapf(err, "invalid APP_TIMEZONE %q", c.AppTimezone)
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// Location returns the business time zone used for date-only values.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
