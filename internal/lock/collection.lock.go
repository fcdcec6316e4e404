package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/logger"
	"github.com/nimasrn/cable-billing/pkg/redis"
)

var (
	ErrLockHeld          = errors.New("collection already in progress for period")
	ErrLockAcquireFailed = errors.New("failed to acquire collection lock")
)

type Config struct {
	TTL       time.Duration
	KeyPrefix string
}

func DefaultConfig() Config {
	return Config{
		TTL:       10 * time.Second,
		KeyPrefix: "collect:",
	}
}

// CollectionLocker serialises collectors working on the same customer period.
// It only shortens the race window; the database index stays authoritative.
type CollectionLocker struct {
	redis  redis.RedisAdapter
	config Config
}

func NewCollectionLocker(adapter redis.RedisAdapter, config Config) *CollectionLocker {
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &CollectionLocker{
		redis:  adapter,
		config: config,
	}
}

type Handle struct {
	key   string
	token []byte
	l     *CollectionLocker
}

func (l *CollectionLocker) key(customerID int64, period model.Period) string {
	return fmt.Sprintf("%s%d:%04d-%02d", l.config.KeyPrefix, customerID, period.Year, period.Month)
}

// Acquire takes the lock for the customer's period. ErrLockHeld means another
// collector holds it.
func (l *CollectionLocker) Acquire(ctx context.Context, customerID int64, period model.Period) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := l.key(customerID, period)
	token := []byte(uuid.NewString())

	acquired, err := l.redis.SetNX(key, token, l.config.TTL)
	if err != nil {
		logger.Error("failed to acquire collection lock", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	if !acquired {
		logger.Info("collection lock held by another collector", "key", key)
		return nil, ErrLockHeld
	}

	logger.Debug("collection lock acquired", "key", key, "ttl", l.config.TTL)
	return &Handle{key: key, token: token, l: l}, nil
}

// Release drops the lock if this handle still owns it.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	released, err := h.l.redis.DelIfEquals(h.key, h.token)
	if err != nil {
		logger.Warn("failed to release collection lock", "key", h.key, "error", err)
		return
	}
	if !released {
		logger.Warn("collection lock expired before release", "key", h.key)
	}
}
