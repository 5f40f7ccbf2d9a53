package reqres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/usersync-backend/internal/platform/ctxutil"
	"github.com/yungbote/usersync-backend/internal/platform/envutil"
	"github.com/yungbote/usersync-backend/internal/platform/httpx"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

const DefaultBaseURL = "https://reqres.in"

// Client talks to the ReqRes user API, the authoritative source of user profiles.
type Client interface {
	Create(ctx context.Context, name, job string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL:    envutil.String("REQRES_BASE_URL", DefaultBaseURL),
		APIKey:     envutil.String("REQRES_API_KEY", ""),
		Timeout:    envutil.Seconds("REQRES_TIMEOUT_SECONDS", 10*time.Second),
		MaxRetries: envutil.Int("REQRES_MAX_RETRIES", 2),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:        log.With("client", "ReqresClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

// User is a remote profile as ReqRes reports it. Email is only present when the
// provider returned one.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name,omitempty"`
	Job       string `json:"job,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// RemoteError is returned for every failed call: transport, timeout, non-2xx, or a body
// that can't be decoded.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reqres %s: http %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("reqres %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) HTTPStatusCode() int { return e.StatusCode }

// --- wire types ---

type createRequest struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type wireUser struct {
	ID        flexID `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Job       string `json:"job"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"createdAt"`
}

// flexID accepts both 7 and "7"; ReqRes answers creates with string ids.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("id %q is not an integer", raw)
	}
	*f = flexID(n)
	return nil
}

func (c *client) Create(ctx context.Context, name, job string) (*User, error) {
	ctx, span := otel.Tracer("usersync/reqres").Start(ctxutil.Default(ctx), "reqres.Create")
	defer span.End()

	_, raw, err := c.do(ctx, "create", http.MethodPost, "/api/users", createRequest{Name: name, Job: job})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, err
	}
	u, err := decodeUser(raw)
	if err != nil {
		span.RecordError(err)
		return nil, &RemoteError{Op: "create", Err: err}
	}
	span.SetAttributes(attribute.Int64("reqres.id", u.ID))
	return u, nil
}

func (c *client) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, span := otel.Tracer("usersync/reqres").Start(ctxutil.Default(ctx), "reqres.GetByID")
	defer span.End()
	span.SetAttributes(attribute.Int64("reqres.id", id))

	_, raw, err := c.do(ctx, "get", http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return nil, err
	}
	u, err := decodeUser(raw)
	if err != nil {
		span.RecordError(err)
		return nil, &RemoteError{Op: "get", Err: err}
	}
	return u, nil
}

// decodeUser unwraps the {"data": {...}} envelope when present; create responses come
// back bare.
func decodeUser(raw []byte) (*User, error) {
	body := raw
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		body = env.Data
	}
	var w wireUser
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if w.ID == 0 {
		return nil, errors.New("decode user: missing id")
	}
	u := &User{
		ID:        int64(w.ID),
		Email:     strings.TrimSpace(w.Email),
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Name:      strings.TrimSpace(w.Name),
		Job:       w.Job,
		Avatar:    strings.TrimSpace(w.Avatar),
		CreatedAt: w.CreatedAt,
	}
	if u.Name == "" {
		u.Name = strings.TrimSpace(strings.TrimSpace(w.FirstName) + " " + strings.TrimSpace(w.LastName))
	}
	return u, nil
}

// ---------- HTTP / retry helpers ----------

// do retries GETs only. A POST that failed may still have been applied remotely, and
// replaying it would mint a second remote id.
func (c *client) do(ctx context.Context, op, method, path string, body any) (*http.Response, []byte, error) {
	backoff := 500 * time.Millisecond
	maxRetries := c.cfg.MaxRetries
	if method != http.MethodGet {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, &RemoteError{Op: op, Err: err}
		}

		resp, raw, err := c.doOnce(ctx, op, method, path, body)
		if err == nil {
			return resp, raw, nil
		}
		if !httpx.IsRetryableError(err) || attempt >= maxRetries {
			return nil, nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		c.log.Warn("ReqRes request retrying",
			"op", op,
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return nil, nil, &RemoteError{Op: op, Err: err}
		}
		backoff *= 2
	}
}

func (c *client) doOnce(ctx context.Context, op, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, &RemoteError{Op: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, nil, &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &RemoteError{Op: op, Err: err}
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if len(msg) > 512 {
			msg = msg[:512] + "..."
		}
		return resp, raw, &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	return resp, raw, nil
}
