package testutil

import (
	"context"
	"testing"

	types "github.com/yungbote/usersync-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, reqresID int64, avatar string) *types.User {
	tb.Helper()
	u := &types.User{
		ReqresID: reqresID,
		Name:     "Seeded",
		Job:      "Tester",
		Avatar:   avatar,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}
