package user

import "time"

// User is the locally persisted copy of a remote (ReqRes) user.
type User struct {
	// ID is assigned by the store on insert and surfaced as db_id in events.
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	// ReqresID is the id the remote source knows this user by.
	ReqresID int64  `gorm:"not null;uniqueIndex;column:reqres_id" json:"reqres_id"`
	Name     string `gorm:"not null;column:name" json:"name"`
	Job      string `gorm:"not null;column:job" json:"job"`
	// Avatar is resolved lazily; empty until a remote profile carrying one has been seen.
	Avatar string `gorm:"column:avatar" json:"avatar,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "user" }

// UserFields is what the store needs to upsert a user. Anything transport-only (contact
// address, provider timestamps) stays out.
type UserFields struct {
	ReqresID int64
	Name     string
	Job      string
	Avatar   string
}
