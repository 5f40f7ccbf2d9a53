package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usersync-backend/internal/platform/ctxutil"
)

func TestAttachTraceContextPropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-123" {
		t.Fatalf("trace data: want request id req-123 got=%+v", seen)
	}
	if seen.TraceID == "" {
		t.Fatalf("trace data: expected generated trace id")
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("response header: want=req-123 got=%q", got)
	}
	if got := rec.Header().Get("X-Trace-Id"); got != seen.TraceID {
		t.Fatalf("trace header: want=%s got=%s", seen.TraceID, got)
	}
}
