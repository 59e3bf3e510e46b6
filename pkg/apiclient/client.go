package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/gumanista/hate-2-action/config"
	"github.com/gumanista/hate-2-action/pkg/errors"
	"github.com/gumanista/hate-2-action/pkg/metrics"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// MaxRequestSize is the maximum request body size (5MB)
	MaxRequestSize = 5 * 1024 * 1024

	// HeaderAPIKey carries the static backend key on every call
	HeaderAPIKey = "X-API-Key"
)

// Client talks JSON to the backend REST API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  ectologger.Logger
}

// Config holds backend client configuration
type Config struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DefaultConfig returns default client configuration without a backend address
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
}

// ConfigFrom derives the client configuration from the process config.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.BaseURL = cfg.APIURL
	c.APIKey = cfg.APIKey
	c.Timeout = cfg.BackendTimeout
	return c
}

// NewClient creates a backend client. Both the base URL and the key are required.
func NewClient(cfg Config, logger ectologger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.NewConfigurationMissingError("API_URL")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.NewConfigurationMissingError("API_KEY")
	}

	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// Do sends one request to path (relative to the base URL). body, when non-nil,
// is sent as JSON. On a 2xx response with a non-empty body the JSON is decoded
// into out; on any failure out is left untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (err error) {
	ctx, span := tracing.StartSpan(ctx, "apiclient."+method)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", metrics.RouteLabel(path)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s request body: %w", method, path, err)
		}
		if len(payload) > MaxRequestSize {
			return fmt.Errorf("request body too large: %d bytes (max %d)", len(payload), MaxRequestSize)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tracing.InjectHeaders(ctx, propagation.HeaderCarrier(req.Header))

	route := metrics.RouteLabel(path)
	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	metrics.BackendRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, route, "error").Inc()
		c.logger.WithContext(ctx).WithError(err).Errorf("backend request failed: %s %s", method, path)
		return errors.NewNetworkError(method, path, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.ContentLength > MaxResponseSize {
		return fmt.Errorf("response too large: %d bytes (max %d)", resp.ContentLength, MaxResponseSize)
	}
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return errors.NewNetworkError(method, path, fmt.Errorf("failed to read response body: %w", err))
	}
	if len(respBody) > MaxResponseSize {
		return fmt.Errorf("response body too large: %d bytes (max %d)", len(respBody), MaxResponseSize)
	}

	c.logger.WithContext(ctx).Debugf("backend %s %s -> %d (%s)", method, path, resp.StatusCode, duration)

	if !IsSuccessStatus(resp.StatusCode) {
		return errors.NewRequestFailedError(method, path, resp.StatusCode, parseDetail(respBody))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	return decodeInto(respBody, out)
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Ping hits the backend root. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.Do(ctx, http.MethodGet, "/", nil, nil)
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetTimeout sets a custom timeout for the client
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// IsSuccessStatus returns true if the status code indicates success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// decodeInto decodes into a fresh value and only assigns it to out once the
// whole body parsed.
func decodeInto(body []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", out)
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(body, fresh.Interface()); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
