package services

import (
	"context"

	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/platform/redisbus"
)

// EventPublisher is the outbound event bus. Callers treat it as fire-and-forget: the
// error is only ever logged.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

type RedisEventPublisher struct{ Bus redisbus.Bus }

func (p *RedisEventPublisher) Publish(ctx context.Context, event string, payload any) error {
	return p.Bus.Publish(ctx, event, payload)
}

// LogEventPublisher stands in for the bus when REDIS_ADDR isn't configured.
type LogEventPublisher struct{ Log *logger.Logger }

func (p *LogEventPublisher) Publish(ctx context.Context, event string, payload any) error {
	p.Log.Info("Event (no bus configured)", "event", event, "payload", payload)
	return nil
}
