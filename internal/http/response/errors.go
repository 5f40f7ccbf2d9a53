package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usersync-backend/internal/platform/apierr"
)

// Error renders err with the status and code it carries. 5xx messages are replaced
// with the status text so upstream and driver details stay in the logs.
func Error(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		RespondError(c, status, apierr.CodeOf(err), errors.New(http.StatusText(status)))
		return
	}
	RespondError(c, status, apierr.CodeOf(err), err)
}
