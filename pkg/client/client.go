// Package client implements the authenticated Daktela v6 API client:
// token login, offset/limit pagination, date filtering, and retry with
// bounded exponential backoff.
package client

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/daktela-extract/pkg/errors"
	"github.com/ajitpratap0/daktela-extract/pkg/logger"
	"github.com/ajitpratap0/daktela-extract/pkg/metrics"
)

// DefaultPageSize is the take parameter used when none is configured.
const DefaultPageSize = 1000

// Config holds client construction parameters.
type Config struct {
	BaseURL  string
	Username string
	Password string
	PageSize int
	// Timeout applies per HTTP call, not per table.
	Timeout time.Duration
	Retry   *RetryPolicy
	// InsecureSkipVerify disables TLS certificate verification. Some
	// on-premise Daktela instances run with self-signed certificates.
	InsecureSkipVerify bool
}

// Client is the Daktela v6 API client. It keeps no state between pages
// besides the access token.
type Client struct {
	baseURL     string
	username    string
	password    string
	pageSize    int
	httpClient  *http.Client
	retry       *RetryPolicy
	accessToken string
	logger      *zap.Logger
}

// New creates a client. Login must be called before fetching pages.
func New(cfg Config) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	retry := cfg.Retry
	if retry == nil {
		retry = DefaultRetryPolicy()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		retry:  retry,
		logger: logger.With(zap.String("component", "client")),
	}
}

// loginResult tolerates both the v6 object shape and the legacy plain
// string token.
type loginResult struct {
	Result json.RawMessage `json:"result"`
}

// Login authenticates against /api/v6/login.json and stores the access
// token for subsequent requests. Authentication failures are fatal and
// never retried.
func (c *Client) Login(ctx context.Context) error {
	loginURL := c.baseURL + "/api/v6/login.json"

	query := url.Values{}
	query.Set("username", c.username)
	query.Set("password", c.password)
	query.Set("only_token", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL+"?"+query.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build login request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "server not responding, check your url")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrorTypeAuthentication,
			"invalid response from Daktela server (status %d %s); make sure your credentials are correct",
			resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var payload loginResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return errors.Wrap(err, errors.ErrorTypeAuthentication, "failed to decode login response")
	}

	token := parseToken(payload.Result)
	if token == "" {
		return errors.New(errors.ErrorTypeAuthentication, "token received was invalid or empty")
	}

	c.accessToken = token
	c.logger.Info("authenticated with Daktela API")
	return nil
}

func parseToken(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asObject struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.AccessToken
	}

	return ""
}

// Filter is one API filter expression, encoded as field[operator]=value.
type Filter struct {
	Field    string
	Operator string
	Value    string
}

func encodeFilters(filters []Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f.Value == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s[%s]=%s", f.Field, f.Operator, f.Value))
	}
	return strings.Join(parts, "&")
}

// apiResult is the fixed page envelope the Daktela API returns.
type apiResult struct {
	Data  []map[string]interface{} `json:"data"`
	Total int                      `json:"total"`
}

type apiEnvelope struct {
	Result apiResult `json:"result"`
}

// getJSON issues one GET, wrapped by the retry policy. Each attempt's
// failure is classified: 5xx, 429, timeouts, and connection resets retry;
// 401/403 and other 4xx are fatal.
func (c *Client) getJSON(ctx context.Context, requestURL string, query url.Values) (*apiEnvelope, error) {
	query.Set("accessToken", c.accessToken)
	fullURL := requestURL + "?" + query.Encode()

	var envelope *apiEnvelope
	attempt := 0

	err := c.retry.ExecuteWithCondition(ctx, func() error {
		if attempt > 0 {
			metrics.RetryAttempts.Inc()
			c.logger.Debug("retrying request",
				zap.Int("attempt", attempt+1),
				zap.String("url", requestURL))
		}
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return classifyTransportError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return classifyStatus(resp.StatusCode)
		}

		var decoded apiEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to decode API response")
		}
		envelope = &decoded
		return nil
	}, errors.IsRetryable)

	if err != nil {
		return nil, err
	}
	return envelope, nil
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.Newf(errors.ErrorTypeAuthentication, "authentication rejected (status %d)", status)
	case status == http.StatusTooManyRequests:
		return errors.Newf(errors.ErrorTypeRateLimit, "rate limited (status %d)", status)
	case status >= 500:
		return errors.Newf(errors.ErrorTypeConnection, "server error (status %d)", status)
	default:
		return errors.Newf(errors.ErrorTypeRequest, "request rejected (status %d)", status)
	}
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrap(err, errors.ErrorTypeTimeout, "request timed out")
	}
	return errors.Wrap(err, errors.ErrorTypeConnection, "connection failed")
}

func (c *Client) endpointURL(path string) string {
	return c.baseURL + "/api/v6/" + path + ".json"
}
