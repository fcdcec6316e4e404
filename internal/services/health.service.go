package services

import (
	"context"
	"fmt"

	"github.com/nimasrn/cable-billing/pkg/redis"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	db    Pinger
	redis redis.RedisAdapter
}

// NewHealthService checks the database and, when configured, redis.
func NewHealthService(db Pinger, redisAdapter redis.RedisAdapter) *HealthService {
	return &HealthService{
		db:    db,
		redis: redisAdapter,
	}
}

func (s *HealthService) Check(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: database: %w", ErrStorage, err)
	}
	if s.redis != nil {
		if err := s.redis.Client().Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
