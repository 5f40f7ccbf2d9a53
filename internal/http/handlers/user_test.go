package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/usersync-backend/internal/domain"
	"github.com/yungbote/usersync-backend/internal/http/response"
	"github.com/yungbote/usersync-backend/internal/platform/apierr"
	"github.com/yungbote/usersync-backend/internal/platform/reqres"
	"github.com/yungbote/usersync-backend/internal/services"
)

type fakeUserService struct {
	createIn  services.CreateUserInput
	createRes *services.CreateUserResult
	list      []*types.User
	user      *reqres.User
	avatar    *services.AvatarResult
	removed   []int64
	gotIDs    []int64
	err       error
}

func (f *fakeUserService) Create(ctx context.Context, in services.CreateUserInput) (*services.CreateUserResult, error) {
	f.createIn = in
	return f.createRes, f.err
}

func (f *fakeUserService) List(ctx context.Context) ([]*types.User, error) {
	return f.list, f.err
}

func (f *fakeUserService) GetByID(ctx context.Context, id int64) (*reqres.User, error) {
	f.gotIDs = append(f.gotIDs, id)
	return f.user, f.err
}

func (f *fakeUserService) GetAvatar(ctx context.Context, id int64) (*services.AvatarResult, error) {
	f.gotIDs = append(f.gotIDs, id)
	return f.avatar, f.err
}

func (f *fakeUserService) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return f.err
}

func newTestRouter(svc services.UserService, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc)
	r := gin.New()
	r.Use(mw...)
	r.POST("/api/users", h.Create)
	r.GET("/api/users", h.List)
	r.GET("/api/user/:id", h.GetByID)
	r.GET("/api/user/:id/avatar", h.GetAvatar)
	r.DELETE("/api/user/:id/avatar", h.Remove)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateUserReturns201(t *testing.T) {
	svc := &fakeUserService{createRes: &services.CreateUserResult{DBID: 7, ReqresID: 1}}
	rec := serve(newTestRouter(svc), http.MethodPost, "/api/users", `{"name":"John","job":"Developer"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if svc.createIn.Name != "John" || svc.createIn.Job != "Developer" {
		t.Fatalf("input: unexpected %+v", svc.createIn)
	}
	var got services.CreateUserResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DBID != 7 || got.ReqresID != 1 {
		t.Fatalf("body: unexpected %+v", got)
	}
}

func TestCreateUserRejectsMalformedBody(t *testing.T) {
	svc := &fakeUserService{}
	rec := serve(newTestRouter(svc), http.MethodPost, "/api/users", `{"name":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}

func TestListUsers(t *testing.T) {
	svc := &fakeUserService{list: []*types.User{{ID: 1, ReqresID: 1, Name: "John", Job: "Developer"}}}
	rec := serve(newTestRouter(svc), http.MethodGet, "/api/users", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	var got []types.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Name != "John" {
		t.Fatalf("body: unexpected %+v", got)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := &fakeUserService{err: apierr.NotFound("user_not_found", "User not found")}
	var recorded []error
	r := newTestRouter(svc, func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			recorded = append(recorded, e.Err)
		}
	})
	rec := serve(r, http.MethodGet, "/api/user/42", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, rec.Code)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != "User not found" {
		t.Fatalf("message: want=%q got=%q", "User not found", env.Error.Message)
	}
	if len(svc.gotIDs) != 1 || svc.gotIDs[0] != 42 {
		t.Fatalf("ids: got=%v", svc.gotIDs)
	}
	if len(recorded) != 1 || !apierr.IsStatus(recorded[0], http.StatusNotFound) {
		t.Fatalf("gin errors: want one 404 got=%v", recorded)
	}
}

func TestInvalidIDNeverReachesService(t *testing.T) {
	svc := &fakeUserService{}
	r := newTestRouter(svc)
	for _, path := range []string{"/api/user/abc", "/api/user/0/avatar", "/api/user/-3"} {
		rec := serve(r, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want=%d got=%d", path, http.StatusBadRequest, rec.Code)
		}
	}
	if len(svc.gotIDs) != 0 {
		t.Fatalf("service called with invalid ids: %v", svc.gotIDs)
	}
}

func TestGetAvatarFromStore(t *testing.T) {
	svc := &fakeUserService{avatar: &services.AvatarResult{Source: services.AvatarSourceStore, Avatar: "path/to/avatar.jpg"}}
	rec := serve(newTestRouter(svc), http.MethodGet, "/api/user/1/avatar", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	var got services.AvatarResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Source != services.AvatarSourceStore || got.Avatar != "path/to/avatar.jpg" {
		t.Fatalf("body: unexpected %+v", got)
	}
}

func TestGetAvatarMissingOnRemote(t *testing.T) {
	svc := &fakeUserService{err: apierr.BadRequest("avatar_not_found", "Avatar not found on API")}
	rec := serve(newTestRouter(svc), http.MethodGet, "/api/user/1/avatar", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}

func TestRemoveReturns204(t *testing.T) {
	svc := &fakeUserService{}
	rec := serve(newTestRouter(svc), http.MethodDelete, "/api/user/5/avatar", "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: want=%d got=%d", http.StatusNoContent, rec.Code)
	}
	if len(svc.removed) != 1 || svc.removed[0] != 5 {
		t.Fatalf("removed: got=%v", svc.removed)
	}
}

func TestRemoveStoreFailure(t *testing.T) {
	svc := &fakeUserService{err: apierr.New(http.StatusBadRequest, "delete_failed", errors.New("delete user: conn reset"))}
	rec := serve(newTestRouter(svc), http.MethodDelete, "/api/user/5/avatar", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}
