package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usersync-backend/internal/http/response"
	"github.com/yungbote/usersync-backend/internal/platform/apierr"
	"github.com/yungbote/usersync-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /users
// body: { "name": "...", "job": "..." }
func (uh *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.BadRequest("invalid_request", "invalid JSON body"))
		return
	}
	res, err := uh.userService.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// GET /users
func (uh *UserHandler) List(c *gin.Context) {
	users, err := uh.userService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.RespondOK(c, users)
}

// GET /user/:id
func (uh *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := uh.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /user/:id/avatar
func (uh *UserHandler) GetAvatar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := uh.userService.GetAvatar(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /user/:id/avatar
func (uh *UserHandler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := uh.userService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.RespondNoContent(c)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apierr.BadRequest("invalid_id", "id must be a positive integer"))
		return 0, false
	}
	return id, true
}
