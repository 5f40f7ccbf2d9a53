package app

import (
	"fmt"

	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/platform/redisbus"
	"github.com/yungbote/usersync-backend/internal/platform/reqres"
	"github.com/yungbote/usersync-backend/internal/platform/sendgrid"
)

type Clients struct {
	Reqres   reqres.Client
	EventBus redisbus.Bus    // nil when REDIS_ADDR is unset
	SendGrid sendgrid.Client // nil when SENDGRID_API_KEY is unset
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// ReqRes
	remote, err := reqres.New(log, cfg.Reqres)
	if err != nil {
		return Clients{}, fmt.Errorf("init reqres client: %w", err)
	}

	// Redis
	var bus redisbus.Bus
	if cfg.Redis.Configured() {
		b, err := redisbus.New(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis event bus: %w", err)
		}
		bus = b
	} else {
		log.Warn("REDIS_ADDR not set; events will only be logged")
	}

	// SendGrid
	var sg sendgrid.Client
	if cfg.SendGrid.Configured() {
		c, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			if bus != nil {
				_ = bus.Close()
			}
			return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
		}
		sg = c
	} else {
		log.Warn("SENDGRID_API_KEY not set; notifications will only be logged")
	}

	return Clients{
		Reqres:   remote,
		EventBus: bus,
		SendGrid: sg,
	}, nil
}

func (c Clients) Close() {
	if c.EventBus != nil {
		_ = c.EventBus.Close()
	}
}
