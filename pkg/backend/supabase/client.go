// Package supabase is a thin client for a hosted Supabase project: auth
// sign-up plus PostgREST inserts and updates. Rejections are returned as
// *submit.Error so the submission coordinator can surface them.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/storefront"
	"github.com/goliatone/go-formflow/pkg/submit"
)

const (
	restPrefix     = "/rest/v1"
	signUpPath     = "/auth/v1/signup"
	requestIDKey   = "X-Request-Id"
	maxErrorBody   = 64 << 10
	defaultTimeout = 15 * time.Second
)

var (
	// ErrMissingURL is returned by New without a project URL.
	ErrMissingURL = errors.New("supabase: project URL is required")
	// ErrMissingKey is returned by New without an API key.
	ErrMissingKey = errors.New("supabase: api key is required")
	// ErrMissingTable is returned when a table name is empty.
	ErrMissingTable = errors.New("supabase: table is required")
	// ErrEmptyRepresentation is returned when an insert or update returns no row.
	ErrEmptyRepresentation = errors.New("supabase: no row returned")
)

// Config configures the client.
type Config struct {
	URL    string
	APIKey string
	// AccessToken is sent as the bearer token when set; the API key otherwise.
	AccessToken string
	Timeout     time.Duration
	// RequestsPerSecond limits outgoing calls. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) {
		if entry != nil {
			c.log = entry
		}
	}
}

// Client talks to one Supabase project.
type Client struct {
	base    string
	apiKey  string
	bearer  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

var _ storefront.SignUpClient = (*Client)(nil)

// New validates cfg and returns a Client.
func New(cfg Config, options ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, ErrMissingURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("supabase: invalid project URL: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		base:   base,
		apiKey: cfg.APIKey,
		bearer: cfg.APIKey,
		http:   &http.Client{Timeout: timeout},
		log:    logging.Discard(),
	}
	if cfg.AccessToken != "" {
		c.bearer = cfg.AccessToken
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.log = logging.Component(c.log, "supabase")
	return c, nil
}

// SignUp registers an account with email and password.
func (c *Client) SignUp(ctx context.Context, email, password string) (storefront.Account, error) {
	body, err := c.do(ctx, http.MethodPost, signUpPath, nil, map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return storefront.Account{}, err
	}
	user := gjson.GetBytes(body, "user")
	if !user.Exists() {
		user = gjson.ParseBytes(body)
	}
	return storefront.Account{
		ID:    user.Get("id").String(),
		Email: user.Get("email").String(),
	}, nil
}

// Insert adds record to table and decodes the stored row into out.
func (c *Client) Insert(ctx context.Context, table string, record, out any) error {
	if strings.TrimSpace(table) == "" {
		return ErrMissingTable
	}
	body, err := c.do(ctx, http.MethodPost, restPrefix+"/"+url.PathEscape(table), nil, record, representation)
	if err != nil {
		return err
	}
	return decodeFirst(body, out)
}

// Update patches the row of table whose id matches and decodes the stored row
// into out.
func (c *Client) Update(ctx context.Context, table string, id any, record, out any) error {
	if strings.TrimSpace(table) == "" {
		return ErrMissingTable
	}
	query := url.Values{"id": {fmt.Sprintf("eq.%v", id)}}
	body, err := c.do(ctx, http.MethodPatch, restPrefix+"/"+url.PathEscape(table), query, record, representation)
	if err != nil {
		return err
	}
	return decodeFirst(body, out)
}

var representation = map[string]string{"Prefer": "return=representation"}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, headers map[string]string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("supabase: rate limit: %w", err)
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("supabase: encode request: %w", err)
	}
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("supabase: build request: %w", err)
	}

	requestID := submit.SubmissionID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set(requestIDKey, requestID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	log := c.log.WithFields(logrus.Fields{"method": method, "path": path, "request_id": requestID})
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, fmt.Errorf("supabase: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf("supabase: read response: %w", err)
		}
		apiErr := parseError(resp.StatusCode, body)
		log.WithError(apiErr).Warn("request rejected")
		return nil, apiErr
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase: read response: %w", err)
	}
	log.Debug("request completed")
	return body, nil
}

func decodeFirst(body []byte, out any) error {
	row := gjson.ParseBytes(body)
	if row.IsArray() {
		rows := row.Array()
		if len(rows) == 0 {
			return ErrEmptyRepresentation
		}
		row = rows[0]
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(row.Raw), out); err != nil {
		return fmt.Errorf("supabase: decode row: %w", err)
	}
	return nil
}
