package client

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

	"github.com/httech/voltgo/internal/pkg/logger"
	"github.com/httech/voltgo/internal/pkg/metrics"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer credential for authenticated requests.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource
func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Client is the VoltGo API client
type Client struct {
	alertsURL   string
	commentsURL string
	authURL     string
	newsURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	tokens      TokenSource
	log         *logger.Logger
}

// Config holds the client configuration
type Config struct {
	AlertsURL   string        // alerts collection endpoint (e.g., "https://api.dev.httech.io/api/HTT/alerts")
	CommentsURL string        // base for /{id}/comments; defaults to AlertsURL
	AuthURL     string        // base for POST /users
	NewsURL     string        // scraped security news endpoint
	Timeout     time.Duration // HTTP client timeout (default: 30s)
	RateLimit   float64       // requests per second, 0 disables limiting
	HTTPClient  *http.Client  // Optional custom HTTP client
	Logger      *logger.Logger
}

// NewClient creates a new API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CommentsURL == "" {
		cfg.CommentsURL = cfg.AlertsURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		alertsURL:   cfg.AlertsURL,
		commentsURL: strings.TrimRight(cfg.CommentsURL, "/"),
		authURL:     strings.TrimRight(cfg.AuthURL, "/"),
		newsURL:     cfg.NewsURL,
		httpClient:  httpClient,
		limiter:     limiter,
		log:         log,
	}
}

// SetTokenSource sets the credential used for authenticated requests
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// Alerts returns the alert service
func (c *Client) Alerts() *AlertService {
	return &AlertService{client: c}
}

// News returns the security news service
func (c *Client) News() *NewsService {
	return &NewsService{client: c}
}

// parseEndpoint rejects anything that is not an absolute http(s) URL.
func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &URLError{URL: raw, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &URLError{URL: raw, Err: errors.New("scheme must be http or https")}
	}
	if u.Host == "" {
		return nil, &URLError{URL: raw, Err: errors.New("missing host")}
	}
	return u, nil
}

// get performs an authenticated GET and returns the raw success body.
func (c *Client) get(ctx context.Context, endpoint, name string) ([]byte, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		metrics.RecordFetch(name, metrics.OutcomeInvalidURL, 0)
		return nil, err
	}
	token, err := c.bearer()
	if err != nil {
		metrics.RecordFetch(name, metrics.OutcomeUnauthenticated, 0)
		return nil, err
	}
	return c.do(ctx, http.MethodGet, u, name, token, nil)
}

func (c *Client) bearer() (string, error) {
	if c.tokens == nil {
		return "", ErrMissingCredential
	}
	token, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingCredential, err)
	}
	if strings.TrimSpace(token) == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}

// do performs an HTTP request and maps every failure onto the client error taxonomy
func (c *Client) do(ctx context.Context, method string, u *url.URL, name, token string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, &URLError{URL: u.String(), Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: u.String(), Err: err}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordFetch(name, metrics.OutcomeTransport, time.Since(start))
		c.log.WithError(err).With("endpoint", name).Warn("Request failed")
		return nil, &TransportError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFetch(name, metrics.OutcomeTransport, time.Since(start))
		return nil, &TransportError{URL: u.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordFetch(name, metrics.OutcomeStatus, time.Since(start))
		c.log.WithFields(map[string]interface{}{
			"endpoint": name,
			"status":   resp.StatusCode,
		}).Warn("Unexpected response status")
		return nil, newStatusError(resp.StatusCode, respBody)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		metrics.RecordFetch(name, metrics.OutcomeEmptyBody, time.Since(start))
		return nil, ErrEmptyBody
	}

	metrics.ObserveFetchDuration(name, time.Since(start))
	c.log.WithFields(map[string]interface{}{
		"endpoint": name,
		"bytes":    len(respBody),
	}).Debug("Request succeeded")
	return respBody, nil
}

// decoded records the outcome of a request whose body reached the decoder
func decoded(name string, err error) {
	if err != nil {
		metrics.RecordFetch(name, metrics.OutcomeDecode, 0)
		return
	}
	metrics.RecordFetch(name, metrics.OutcomeSuccess, 0)
}
