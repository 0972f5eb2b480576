package redis

import (
	"context"
	"fmt"
	"net"
	"rental/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	pingTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
)

// Options prefers CACHE_REDIS_URL, which managed providers hand out, over host and port.
func Options(cfg *config.Config) (*goRedis.Options, error) {
	redisCfg := cfg.Cache.Redis

	if redisCfg.URL != "" {
		options, err := goRedis.ParseURL(redisCfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}

		return options, nil
	}

	return &goRedis.Options{
		Addr:         net.JoinHostPort(redisCfg.Primary.Host, redisCfg.Primary.Port),
		Password:     redisCfg.Primary.Password,
		DB:           redisCfg.Primary.DB,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}, nil
}

func New(cfg *config.Config) *goRedis.Client {
	options, err := Options(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid Redis configuration")
	}

	client := goRedis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", options.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", options.Addr).Int("db", options.DB).Msg("Connected to Redis")

	return client
}
