package db

import (
	"fmt"
	"strings"

	"github.com/yungbote/usersync-backend/internal/platform/envutil"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	SQLitePath string
}

func ConfigFromEnv() Config {
	return Config{
		Driver:     strings.ToLower(envutil.String("STORE_DRIVER", DriverPostgres)),
		Host:       envutil.String("POSTGRES_HOST", "localhost"),
		Port:       envutil.String("POSTGRES_PORT", "5432"),
		User:       envutil.String("POSTGRES_USER", "postgres"),
		Password:   envutil.String("POSTGRES_PASSWORD", ""),
		Name:       envutil.String("POSTGRES_NAME", "usersync"),
		SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
		SQLitePath: envutil.String("SQLITE_PATH", "usersync.db"),
	}
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}
