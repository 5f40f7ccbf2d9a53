package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/usersync-backend/internal/http/handlers"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

func TestRouterServesHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Log:           logger.NewNop(),
		ServiceName:   "usersync-test",
		HealthHandler: httpH.NewHealthHandler(),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("healthcheck: expected X-Request-Id header")
	}
}

func TestRouterWithoutUserHandlerHasNoUserRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{Log: logger.NewNop()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, rec.Code)
	}
}
