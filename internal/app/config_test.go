package app

import (
	"testing"
	"time"

	"github.com/yungbote/usersync-backend/internal/data/db"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "STORE_DRIVER", "REDIS_ADDR", "SENDGRID_API_KEY",
		"NOTIFY_FROM_EMAIL", "NOTIFY_SUBJECT", "SIDE_EFFECT_TIMEOUT_SECONDS", "AVATAR_SINGLEFLIGHT",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "8080" {
		t.Fatalf("Port: want=8080 got=%s", cfg.Port)
	}
	if cfg.Store.Driver != db.DriverPostgres {
		t.Fatalf("Store.Driver: want=%s got=%s", db.DriverPostgres, cfg.Store.Driver)
	}
	if cfg.NotifyFrom != services.DefaultSenderAddress {
		t.Fatalf("NotifyFrom: want=%s got=%s", services.DefaultSenderAddress, cfg.NotifyFrom)
	}
	if cfg.SideEffectTimeout != 5*time.Second {
		t.Fatalf("SideEffectTimeout: want=5s got=%s", cfg.SideEffectTimeout)
	}
	if cfg.AvatarSingleFlight {
		t.Fatalf("AvatarSingleFlight: want=false")
	}
	if cfg.Redis.Configured() || cfg.SendGrid.Configured() {
		t.Fatalf("optional clients should be unconfigured by default")
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("CORSOrigins: want none got=%v", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.dev, ,https://b.dev")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("AVATAR_SINGLEFLIGHT", "true")
	t.Setenv("SIDE_EFFECT_TIMEOUT_SECONDS", "2")

	cfg := LoadConfig(nil)
	if cfg.Port != "9000" {
		t.Fatalf("Port: want=9000 got=%s", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.dev" {
		t.Fatalf("CORSOrigins: unexpected %v", cfg.CORSOrigins)
	}
	if cfg.Store.Driver != db.DriverSQLite {
		t.Fatalf("Store.Driver: want=sqlite got=%s", cfg.Store.Driver)
	}
	if !cfg.AvatarSingleFlight {
		t.Fatalf("AvatarSingleFlight: want=true")
	}
	if cfg.SideEffectTimeout != 2*time.Second {
		t.Fatalf("SideEffectTimeout: want=2s got=%s", cfg.SideEffectTimeout)
	}
}
