package user

import (
	"errors"
	"fmt"

	types "github.com/yungbote/usersync-backend/internal/domain"
	"github.com/yungbote/usersync-backend/internal/platform/dbctx"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepo is the gateway to the locally persisted users. Ids taken by FindAvatarByID and
// DeleteByID are remote (reqres) ids, the ones callers address users by.
type UserRepo interface {
	Create(dbc dbctx.Context, fields types.UserFields) (*types.User, error)
	FindAll(dbc dbctx.Context) ([]*types.User, error)
	FindAvatarByID(dbc dbctx.Context, reqresID int64) (*types.User, error)
	DeleteByID(dbc dbctx.Context, reqresID int64) (*types.User, error)
}

// StoreError wraps any driver or transport failure coming out of the store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

// Create upserts by reqres_id. An empty avatar never clears one that is already stored.
func (ur *userRepo) Create(dbc dbctx.Context, fields types.UserFields) (*types.User, error) {
	row := &types.User{
		ReqresID: fields.ReqresID,
		Name:     fields.Name,
		Job:      fields.Job,
		Avatar:   fields.Avatar,
	}
	updates := []string{"name", "job", "updated_at"}
	if fields.Avatar != "" {
		updates = append(updates, "avatar")
	}

	var stored types.User
	err := dbc.Conn(ur.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reqres_id"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}).Create(row).Error; err != nil {
			return err
		}
		return tx.Where("reqres_id = ?", fields.ReqresID).First(&stored).Error
	})
	if err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}
	return &stored, nil
}

func (ur *userRepo) FindAll(dbc dbctx.Context) ([]*types.User, error) {
	results := []*types.User{}
	if err := dbc.Conn(ur.db).Find(&results).Error; err != nil {
		return nil, &StoreError{Op: "find_all", Err: err}
	}
	return results, nil
}

// FindAvatarByID returns (nil, nil) when no user is stored under reqresID.
func (ur *userRepo) FindAvatarByID(dbc dbctx.Context, reqresID int64) (*types.User, error) {
	var found types.User
	err := dbc.Conn(ur.db).Where("reqres_id = ?", reqresID).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "find_avatar", Err: err}
	}
	return &found, nil
}

// DeleteByID removes the user stored under reqresID and returns it, or (nil, nil) when
// there was nothing to delete.
func (ur *userRepo) DeleteByID(dbc dbctx.Context, reqresID int64) (*types.User, error) {
	var deleted *types.User
	err := dbc.Conn(ur.db).Transaction(func(tx *gorm.DB) error {
		var found types.User
		if err := tx.Where("reqres_id = ?", reqresID).First(&found).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&types.User{}, found.ID).Error; err != nil {
			return err
		}
		deleted = &found
		return nil
	})
	if err != nil {
		return nil, &StoreError{Op: "delete", Err: err}
	}
	return deleted, nil
}
