package db

import (
	"testing"

	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

func TestDialectorFor(t *testing.T) {
	if _, err := dialectorFor(Config{Driver: DriverSQLite, SQLitePath: ":memory:"}); err != nil {
		t.Fatalf("sqlite: unexpected error %v", err)
	}
	d, err := dialectorFor(Config{Driver: DriverPostgres})
	if err != nil {
		t.Fatalf("postgres: unexpected error %v", err)
	}
	if d.Name() != "postgres" {
		t.Fatalf("postgres: want=postgres got=%s", d.Name())
	}
	if _, err := dialectorFor(Config{Driver: "mongo"}); err == nil {
		t.Fatalf("mongo: expected error")
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{User: "u", Password: "p", Host: "h", Port: "5432", Name: "n", SSLMode: "disable"}
	want := "postgres://u:p@h:5432/n?sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Fatalf("dsn: want=%q got=%q", want, got)
	}
}

func TestNewServiceSQLiteMigrates(t *testing.T) {
	svc, err := NewService(logger.NewNop(), Config{Driver: DriverSQLite, SQLitePath: "file::memory:"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	if !svc.DB().Migrator().HasTable("user") {
		t.Fatalf("expected user table")
	}
}
