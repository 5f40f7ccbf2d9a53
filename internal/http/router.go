package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/usersync-backend/internal/http/handlers"
	httpMW "github.com/yungbote/usersync-backend/internal/http/middleware"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	UserHandler   *httpH.UserHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Users
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
			api.GET("/users", cfg.UserHandler.List)
			api.GET("/user/:id", cfg.UserHandler.GetByID)
			api.GET("/user/:id/avatar", cfg.UserHandler.GetAvatar)
			api.DELETE("/user/:id/avatar", cfg.UserHandler.Remove)
		}
	}

	return r
}
