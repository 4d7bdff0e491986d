package revocation

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/gridbill/gridbill/internal/config"
)

// Module provides the token denylist. Redis-backed when REDIS_ADDR is
// configured, no-op otherwise.
var Module = fx.Options(
	fx.Provide(newDenylist),
)

type denylistParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newDenylist(p denylistParams) Denylist {
	if p.Config.RedisAddr == "" {
		return NoopDenylist{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     p.Config.RedisAddr,
		Password: p.Config.RedisPassword,
		DB:       p.Config.RedisDB,
	})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Logger.Warn("redis ping failed, denylist degraded", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewRedisDenylist(client)
}
