package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"exercise_tracker/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// SetupRedis connects to Redis and verifies the connection with a ping.
func SetupRedis(ctx context.Context, redisCfg *config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port)

	db, err := strconv.Atoi(redisCfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis DB number %q: %w", redisCfg.RedisDB, err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: redisCfg.RedisPassword,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logrus.WithField("addr", addr).Info("Redis connection established successfully")
	return rdb, nil
}
