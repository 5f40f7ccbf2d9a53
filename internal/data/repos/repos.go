package repos

import (
	"github.com/yungbote/usersync-backend/internal/data/repos/user"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type StoreError = user.StoreError

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return user.NewUserRepo(db, log)
}
