package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/usersync-backend/internal/platform/ctxutil"
	"github.com/yungbote/usersync-backend/internal/platform/envutil"
	"github.com/yungbote/usersync-backend/internal/platform/httpx"
	"github.com/yungbote/usersync-backend/internal/platform/logger"
)

type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	Timeout          time.Duration
	MaxRetries       int
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:           strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		BaseURL:          envutil.String("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", ""),
		Timeout:          envutil.Seconds("SENDGRID_TIMEOUT_SECONDS", 30*time.Second),
		MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 4),
	}
}

// Configured reports whether there is enough config to talk to SendGrid at all.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !cfg.Configured() {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &client{
		log:        log.With("client", "SendGridClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

// --- public request/response types ---

type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SendEmailRequest struct {
	From       EmailAddress
	ReplyTo    *EmailAddress
	To         []EmailAddress
	Subject    string
	Text       string
	HTML       string
	Categories []string
	CustomArgs map[string]string
}

type SendEmailResult struct {
	StatusCode int
	MessageID  string
}

// --- SendGrid mail send wire types ---

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             EmailAddress      `json:"from"`
	ReplyTo          *EmailAddress     `json:"reply_to,omitempty"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
	Categories       []string          `json:"categories,omitempty"`
}

type personalization struct {
	To         []EmailAddress    `json:"to"`
	CustomArgs map[string]string `json:"custom_args,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("sendgrid client unavailable")
	}

	if strings.TrimSpace(req.From.Email) == "" {
		req.From.Email = c.cfg.DefaultFromEmail
		if strings.TrimSpace(req.From.Name) == "" {
			req.From.Name = c.cfg.DefaultFromName
		}
	}
	req.From.Email = strings.TrimSpace(req.From.Email)
	req.From.Name = strings.TrimSpace(req.From.Name)
	req.Subject = strings.TrimSpace(req.Subject)

	if req.From.Email == "" {
		return nil, fmt.Errorf("sendgrid: From.Email required (or set SENDGRID_FROM_EMAIL)")
	}
	to := make([]EmailAddress, 0, len(req.To))
	for _, addr := range req.To {
		if e := strings.TrimSpace(addr.Email); e != "" {
			to = append(to, EmailAddress{Email: e, Name: strings.TrimSpace(addr.Name)})
		}
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("sendgrid: To required")
	}
	if req.Subject == "" {
		return nil, fmt.Errorf("sendgrid: Subject required")
	}

	contents := []mailContent{}
	if t := strings.TrimSpace(req.Text); t != "" {
		contents = append(contents, mailContent{Type: "text/plain", Value: t})
	}
	if h := strings.TrimSpace(req.HTML); h != "" {
		contents = append(contents, mailContent{Type: "text/html", Value: h})
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("sendgrid: Text or HTML content required")
	}

	p := personalization{To: to}
	if len(req.CustomArgs) > 0 {
		p.CustomArgs = req.CustomArgs
	}

	wire := mailSendRequest{
		Personalizations: []personalization{p},
		From:             req.From,
		ReplyTo:          req.ReplyTo,
		Subject:          req.Subject,
		Content:          contents,
		Categories:       req.Categories,
	}

	resp, err := c.do(ctx, http.MethodPost, "/v3/mail/send", wire)
	if err != nil {
		return nil, err
	}

	return &SendEmailResult{
		StatusCode: resp.StatusCode,
		MessageID:  strings.TrimSpace(resp.Header.Get("X-Message-Id")),
	}, nil
}

// ---------- HTTP / retry helpers ----------

type errorItem struct {
	Message string `json:"message"`
	Field   any    `json:"field,omitempty"`
}

type errorResponse struct {
	Errors []errorItem `json:"errors"`
}

type HTTPError struct {
	StatusCode int
	Body       string
	Errors     []errorItem
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "sendgrid: <nil error>"
	}
	if len(e.Errors) > 0 && strings.TrimSpace(e.Errors[0].Message) != "" {
		return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Errors[0].Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	ctx = ctxutil.Default(ctx)
	backoff := 1 * time.Second

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return resp, nil
		}
		if !httpx.IsRetryableError(err) || attempt >= c.cfg.MaxRetries {
			return nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("Sendgrid request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && len(er.Errors) > 0 {
			he.Errors = er.Errors
		}
		return resp, he
	}

	return resp, nil
}
