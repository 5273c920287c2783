package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var RedisClient *redis.Client

const (
	redisPingAttempts = 3
	redisPingTimeout  = 5 * time.Second
)

// redisOptions parses the URI and applies the pool settings shared by the
// notification bus and the write rate limiter.
func redisOptions(redisURI string) (*redis.Options, error) {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}

	opt.PoolSize = 20
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	// Rate limit checks run inline with requests; keep them short.
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second
	opt.PoolTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
	opt.ClientName = "safespace-backend"
	return opt, nil
}

// ConnectRedis connects to Redis, used for realtime notification fan-out and
// the shared write rate limit. The connection is retried a few times so a
// Redis that is still starting does not take the service down with it.
func ConnectRedis(redisURI string) error {
	opt, err := redisOptions(redisURI)
	if err != nil {
		return err
	}
	client := redis.NewClient(opt)

	backoff := 500 * time.Millisecond
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			break
		}
		if attempt == redisPingAttempts {
			_ = client.Close()
			return fmt.Errorf("ping redis: %w", err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", backoff).Msg("Redis not reachable yet")
		time.Sleep(backoff)
		backoff *= 2
	}

	RedisClient = client
	log.Info().Str("addr", opt.Addr).Int("db", opt.DB).Msg("✅ Connected to Redis")
	return nil
}

// DisconnectRedis closes the Redis connection
func DisconnectRedis() error {
	if RedisClient == nil {
		return nil
	}
	err := RedisClient.Close()
	RedisClient = nil
	return err
}
