package domain

import "github.com/yungbote/usersync-backend/internal/domain/user"

type (
	User             = user.User
	UserFields       = user.UserFields
	SyncEventPayload = user.SyncEventPayload
)

const (
	EventCreatedUser       = user.EventCreatedUser
	EventCreatedUserAvatar = user.EventCreatedUserAvatar
)
