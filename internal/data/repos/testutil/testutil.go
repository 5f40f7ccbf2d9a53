package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/usersync-backend/internal/data/db"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// DB opens a migrated database for repo tests: Postgres when TEST_POSTGRES_DSN is set,
// otherwise a private in-memory SQLite database per call.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	var dialector gorm.Dialector
	if dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN")); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		name := fmt.Sprintf("file:usersync_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
		dialector = sqlite.Open(name)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrateAll(conn); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// Tx starts a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, conn *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := conn.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
