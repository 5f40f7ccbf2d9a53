package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/usersync-backend/internal/platform/envutil"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

const DefaultChannel = "usersync.events"

// Bus publishes domain events over Redis pub/sub.
type Bus interface {
	Publish(ctx context.Context, event string, payload any) error
	StartForwarder(ctx context.Context, onMsg func(m Envelope)) error
	Close() error
}

// Envelope is the wire shape of every published event.
type Envelope struct {
	ID          string          `json:"id"`
	Event       string          `json:"event"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"published_at"`
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

func ConfigFromEnv() Config {
	return Config{
		Addr:     envutil.String("REDIS_ADDR", ""),
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
		Channel:  envutil.String("REDIS_EVENTS_CHANNEL", DefaultChannel),
	}
}

func (c Config) Configured() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type bus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func New(log *logger.Logger, cfg Config) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !cfg.Configured() {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = DefaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &bus{
		log:     log.With("service", "RedisEventBus", "channel", ch),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func NewFromEnv(log *logger.Logger) (Bus, error) { return New(log, ConfigFromEnv()) }

// NewEnvelope stamps an event with a fresh id and publish time.
func NewEnvelope(event string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return Envelope{
		ID:          uuid.NewString(),
		Event:       event,
		Payload:     raw,
		PublishedAt: time.Now().UTC(),
	}, nil
}

func (b *bus) Publish(ctx context.Context, event string, payload any) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	env, err := NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", event, err)
	}
	b.log.Debug("Event published", "event", event, "event_id", env.ID)
	return nil
}

func (b *bus) StartForwarder(ctx context.Context, onMsg func(m Envelope)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.log.Warn("bad redis event payload", "error", err)
					continue
				}
				onMsg(env)
			}
		}
	}()

	return nil
}

func (b *bus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
