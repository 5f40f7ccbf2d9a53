package redisbus

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope("CREATED_USER", map[string]int64{"db_id": 3, "reqres_id": 1})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if env.ID == "" || env.PublishedAt.IsZero() {
		t.Fatalf("envelope: missing id or time %+v", env)
	}
	var payload map[string]int64
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["db_id"] != 3 || payload["reqres_id"] != 1 {
		t.Fatalf("payload: unexpected %v", payload)
	}
}

func TestNewRequiresAddr(t *testing.T) {
	if _, err := New(logger.NewNop(), Config{}); err == nil {
		t.Fatalf("New: expected error without REDIS_ADDR")
	}
}

func TestPublishRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	b, err := New(logger.NewNop(), Config{Addr: addr, Channel: "usersync.test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan Envelope, 1)
	if err := b.StartForwarder(ctx, func(m Envelope) { got <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(ctx, "CREATED_USER_AVATAR", map[string]int64{"db_id": 9, "reqres_id": 1}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case env := <-got:
		if env.Event != "CREATED_USER_AVATAR" {
			t.Fatalf("event: want=CREATED_USER_AVATAR got=%s", env.Event)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for event")
	}
}
