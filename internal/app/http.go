package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/usersync-backend/internal/http"
	httpH "github.com/yungbote/usersync-backend/internal/http/handlers"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	User   *httpH.UserHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		User:   httpH.NewUserHandler(services.User),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:           log,
		ServiceName:   serviceName,
		CORSOrigins:   cfg.CORSOrigins,
		HealthHandler: handlers.Health,
		UserHandler:   handlers.User,
	})
}
