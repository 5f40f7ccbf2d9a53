package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsLocalDevOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	origins := []string{
		"http://localhost:5173",
		"http://127.0.0.1:3000",
	}

	for _, origin := range origins {
		origin := origin
		t.Run(origin, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(nil))
			r.OPTIONS("/api/users", func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			rec := preflight(r, origin)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
			}
		})
	}
}

func TestCORSConfiguredOriginsReplaceDefaults(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORS([]string{"https://app.usersync.dev"}))
	r.OPTIONS("/api/users", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	if got := preflight(r, "https://app.usersync.dev").Header().Get("Access-Control-Allow-Origin"); got != "https://app.usersync.dev" {
		t.Fatalf("configured origin: got=%q", got)
	}
	if got := preflight(r, "http://localhost:5173").Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("default origin should be rejected: got=%q", got)
	}
}
