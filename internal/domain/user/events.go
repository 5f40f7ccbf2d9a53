package user

const (
	EventCreatedUser       = "CREATED_USER"
	EventCreatedUserAvatar = "CREATED_USER_AVATAR"
)

// SyncEventPayload keeps both ids distinct: the store id and the remote id.
type SyncEventPayload struct {
	DBID     int64 `json:"db_id"`
	ReqresID int64 `json:"reqres_id"`
}
