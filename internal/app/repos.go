package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/usersync-backend/internal/data/repos"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

type Repos struct {
	User repos.UserRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User: repos.NewUserRepo(db, log),
	}
}
