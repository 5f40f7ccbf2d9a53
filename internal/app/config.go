package app

import (
	"strings"
	"time"

	"github.com/yungbote/usersync-backend/internal/data/db"
	"github.com/yungbote/usersync-backend/internal/observability"
	"github.com/yungbote/usersync-backend/internal/platform/envutil"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/platform/redisbus"
	"github.com/yungbote/usersync-backend/internal/platform/reqres"
	"github.com/yungbote/usersync-backend/internal/platform/sendgrid"
	"github.com/yungbote/usersync-backend/internal/services"
)

type Config struct {
	Port        string
	CORSOrigins []string

	Store    db.Config
	Reqres   reqres.Config
	Redis    redisbus.Config
	SendGrid sendgrid.Config
	Otel     observability.OtelConfig

	NotifyFrom         string
	NotifySubject      string
	SideEffectTimeout  time.Duration
	AvatarSingleFlight bool
	ShutdownTimeout    time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		CORSOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		Store:    db.ConfigFromEnv(),
		Reqres:   reqres.ConfigFromEnv(),
		Redis:    redisbus.ConfigFromEnv(),
		SendGrid: sendgrid.ConfigFromEnv(),
		Otel:     observability.OtelConfigFromEnv(),

		NotifyFrom:         envutil.String("NOTIFY_FROM_EMAIL", services.DefaultSenderAddress),
		NotifySubject:      envutil.String("NOTIFY_SUBJECT", "Welcome"),
		SideEffectTimeout:  envutil.Seconds("SIDE_EFFECT_TIMEOUT_SECONDS", 5*time.Second),
		AvatarSingleFlight: envutil.Bool("AVATAR_SINGLEFLIGHT", false),
		ShutdownTimeout:    envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
	if log != nil {
		log.Info("Config loaded",
			"port", cfg.Port,
			"store_driver", cfg.Store.Driver,
			"reqres_base_url", cfg.Reqres.BaseURL,
			"redis_configured", cfg.Redis.Configured(),
			"sendgrid_configured", cfg.SendGrid.Configured(),
			"otel_enabled", cfg.Otel.Enabled,
			"avatar_singleflight", cfg.AvatarSingleFlight,
		)
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
