package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/usersync-backend/internal/data/repos"
	types "github.com/yungbote/usersync-backend/internal/domain"
	"github.com/yungbote/usersync-backend/internal/platform/apierr"
	"github.com/yungbote/usersync-backend/internal/platform/ctxutil"
	"github.com/yungbote/usersync-backend/internal/platform/dbctx"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/platform/reqres"
)

const (
	DefaultSenderAddress = "no-reply@usersync.dev"
	AccountCreatedBody   = "Account created"

	AvatarSourceStore  = "store"
	AvatarSourceRemote = "remote"
)

// RemoteSource is the authoritative user API.
type RemoteSource interface {
	Create(ctx context.Context, name, job string) (*reqres.User, error)
	GetByID(ctx context.Context, id int64) (*reqres.User, error)
}

// UserService keeps the local user store in sync with the remote source.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*CreateUserResult, error)
	List(ctx context.Context) ([]*types.User, error)
	GetByID(ctx context.Context, id int64) (*reqres.User, error)
	GetAvatar(ctx context.Context, id int64) (*AvatarResult, error)
	Remove(ctx context.Context, id int64) error
}

type CreateUserInput struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type CreateUserResult struct {
	DBID     int64 `json:"db_id"`
	ReqresID int64 `json:"reqres_id"`
}

// AvatarResult carries either the stored avatar (Source == "store") or the user that was
// just backfilled from the remote source (Source == "remote").
type AvatarResult struct {
	Source string      `json:"source"`
	Avatar string      `json:"avatar,omitempty"`
	User   *types.User `json:"user,omitempty"`
}

type UserServiceOptions struct {
	// SenderAddress is the fixed from-address of account notifications.
	SenderAddress string
	// SideEffectTimeout bounds each notification / event publish.
	SideEffectTimeout time.Duration
	// AvatarSingleFlight collapses concurrent avatar misses for the same id into one
	// remote lookup and one store write.
	AvatarSingleFlight bool
	// AvatarFlightTimeout bounds a shared avatar miss, which no longer follows any single
	// caller's cancellation.
	AvatarFlightTimeout time.Duration
}

type userService struct {
	log    *logger.Logger
	store  repos.UserRepo
	remote RemoteSource
	events EventPublisher
	mailer NotificationSender
	opts   UserServiceOptions
	tracer trace.Tracer
	misses singleflight.Group
}

func NewUserService(
	log *logger.Logger,
	store repos.UserRepo,
	remote RemoteSource,
	events EventPublisher,
	mailer NotificationSender,
	opts UserServiceOptions,
) UserService {
	if strings.TrimSpace(opts.SenderAddress) == "" {
		opts.SenderAddress = DefaultSenderAddress
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = 5 * time.Second
	}
	if opts.AvatarFlightTimeout <= 0 {
		opts.AvatarFlightTimeout = 15 * time.Second
	}
	return &userService{
		log:    log.With("service", "UserService"),
		store:  store,
		remote: remote,
		events: events,
		mailer: mailer,
		opts:   opts,
		tracer: otel.Tracer("usersync/services"),
	}
}

func (us *userService) Create(ctx context.Context, in CreateUserInput) (*CreateUserResult, error) {
	ctx, span := us.tracer.Start(ctx, "UserService.Create")
	defer span.End()

	name := strings.TrimSpace(in.Name)
	job := strings.TrimSpace(in.Job)
	if name == "" || job == "" {
		return nil, apierr.BadRequest("invalid_request", "name and job are required")
	}

	remoteUser, err := us.remote.Create(ctx, name, job)
	if err != nil {
		us.log.Warn("Remote create failed", "error", err)
		return nil, apierr.New(http.StatusBadGateway, "remote_unavailable", fmt.Errorf("create remote user: %w", err))
	}

	stored, err := us.store.Create(dbctx.Context{Ctx: ctx}, types.UserFields{
		ReqresID: remoteUser.ID,
		Name:     firstNonEmpty(remoteUser.Name, name),
		Job:      firstNonEmpty(remoteUser.Job, job),
		Avatar:   remoteUser.Avatar,
	})
	if err != nil {
		us.log.Error("Store create failed", "reqres_id", remoteUser.ID, "error", err)
		return nil, apierr.Internal("store_unavailable", fmt.Errorf("store user: %w", err))
	}
	span.SetAttributes(attribute.Int64("user.db_id", stored.ID), attribute.Int64("user.reqres_id", remoteUser.ID))

	us.notify(ctx, remoteUser.Email)
	us.publish(ctx, types.EventCreatedUser, types.SyncEventPayload{DBID: stored.ID, ReqresID: remoteUser.ID})

	return &CreateUserResult{DBID: stored.ID, ReqresID: remoteUser.ID}, nil
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	users, err := us.store.FindAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		us.log.Error("Store list failed", "error", err)
		return nil, apierr.Internal("store_unavailable", fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// GetByID always asks the remote source; every failure reads as not found.
func (us *userService) GetByID(ctx context.Context, id int64) (*reqres.User, error) {
	ctx, span := us.tracer.Start(ctx, "UserService.GetByID", trace.WithAttributes(attribute.Int64("user.reqres_id", id)))
	defer span.End()

	u, err := us.remote.GetByID(ctx, id)
	if err != nil {
		us.log.Debug("Remote lookup failed", "reqres_id", id, "error", err)
		return nil, apierr.NotFound("user_not_found", "User not found")
	}
	return u, nil
}

func (us *userService) GetAvatar(ctx context.Context, id int64) (*AvatarResult, error) {
	ctx, span := us.tracer.Start(ctx, "UserService.GetAvatar", trace.WithAttributes(attribute.Int64("user.reqres_id", id)))
	defer span.End()

	cached, err := us.store.FindAvatarByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		us.log.Error("Store avatar lookup failed", "reqres_id", id, "error", err)
		return nil, apierr.Internal("store_unavailable", fmt.Errorf("find avatar: %w", err))
	}
	// A stored user is a hit even when its avatar is still empty.
	if cached != nil {
		span.SetAttributes(attribute.String("avatar.source", AvatarSourceStore))
		return &AvatarResult{Source: AvatarSourceStore, Avatar: cached.Avatar}, nil
	}
	span.SetAttributes(attribute.String("avatar.source", AvatarSourceRemote))

	if !us.opts.AvatarSingleFlight {
		return us.backfillAvatar(ctx, id)
	}
	// The flight outlives whichever caller started it; each caller only waits on its own ctx.
	ch := us.misses.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		fctx, cancel := ctxutil.Detached(ctx, us.opts.AvatarFlightTimeout)
		defer cancel()
		return us.backfillAvatar(fctx, id)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			us.log.Debug("Avatar miss shared with concurrent caller", "reqres_id", id)
		}
		res := *r.Val.(*AvatarResult)
		return &res, nil
	}
}

func (us *userService) backfillAvatar(ctx context.Context, id int64) (*AvatarResult, error) {
	remoteUser, err := us.remote.GetByID(ctx, id)
	if err != nil {
		us.log.Debug("Remote avatar lookup failed", "reqres_id", id, "error", err)
		return nil, apierr.NotFound("user_not_found", "User not found")
	}
	if strings.TrimSpace(remoteUser.Avatar) == "" {
		return nil, apierr.BadRequest("avatar_not_found", "Avatar not found on API")
	}

	stored, err := us.store.Create(dbctx.Context{Ctx: ctx}, types.UserFields{
		ReqresID: remoteUser.ID,
		Name:     remoteUser.Name,
		Job:      remoteUser.Job,
		Avatar:   remoteUser.Avatar,
	})
	if err != nil {
		us.log.Error("Store avatar backfill failed", "reqres_id", remoteUser.ID, "error", err)
		return nil, apierr.Internal("store_unavailable", fmt.Errorf("store avatar: %w", err))
	}

	us.publish(ctx, types.EventCreatedUserAvatar, types.SyncEventPayload{DBID: stored.ID, ReqresID: remoteUser.ID})

	return &AvatarResult{Source: AvatarSourceRemote, User: stored}, nil
}

// Remove deletes from the store only. Nothing to delete is not an error.
func (us *userService) Remove(ctx context.Context, id int64) error {
	deleted, err := us.store.DeleteByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		us.log.Warn("Store delete failed", "reqres_id", id, "error", err)
		return apierr.New(http.StatusBadRequest, "delete_failed", fmt.Errorf("delete user: %w", err))
	}
	if deleted == nil {
		us.log.Debug("Delete found no user", "reqres_id", id)
		return nil
	}
	us.log.Info("User deleted", "db_id", deleted.ID, "reqres_id", deleted.ReqresID)
	return nil
}

// ---- side effects ----

func (us *userService) notify(ctx context.Context, to string) {
	to = strings.TrimSpace(to)
	if to == "" {
		us.log.Warn("Remote user has no contact address; skipping account notification")
		return
	}
	sctx, cancel := ctxutil.Detached(ctx, us.opts.SideEffectTimeout)
	defer cancel()
	err := us.mailer.Send(sctx, Notification{
		To:   to,
		From: us.opts.SenderAddress,
		Body: AccountCreatedBody,
	})
	if err != nil {
		us.log.Warn("Account notification failed", "to", to, "error", err)
	}
}

func (us *userService) publish(ctx context.Context, event string, payload types.SyncEventPayload) {
	sctx, cancel := ctxutil.Detached(ctx, us.opts.SideEffectTimeout)
	defer cancel()
	if err := us.events.Publish(sctx, event, payload); err != nil {
		us.log.Warn("Event publish failed", "event", event, "db_id", payload.DBID, "reqres_id", payload.ReqresID, "error", err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
