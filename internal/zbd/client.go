package zbd

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

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zbdpay/zbd-mcp/internal/instrumentation"
)

const (
	// DefaultBaseURL is the production ZBD API.
	DefaultBaseURL = "https://api.zebedee.io/v0"

	// DefaultTimeout bounds a single API request, including reading the body.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "zbd-mcp"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20
)

var errInvalidJSON = errors.New("response is not valid JSON")

// Width 0 keeps pretty from folding short arrays onto one line.
var prettyOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  ", SortKeys: false}

// Config configures a Client.
type Config struct {
	// APIKey is sent in the "apikey" header of every request (required)
	APIKey string

	// BaseURL defaults to DefaultBaseURL
	BaseURL string

	// Timeout defaults to DefaultTimeout. Ignored when HTTPClient sets its own timeout.
	Timeout time.Duration

	// HTTPClient is an optional base client; its transport gets wrapped for tracing
	HTTPClient *http.Client

	// UserAgent defaults to "zbd-mcp"
	UserAgent string

	// Metrics records zbd_api_* metrics when set
	Metrics *instrumentation.Metrics
}

// Client provides access to the ZBD REST API.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *instrumentation.Metrics
}

// NewClient creates a new ZBD API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", baseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		if copied.Timeout == 0 {
			copied.Timeout = timeout
		}
		httpClient = &copied
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = otelhttp.NewTransport(base)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
	}, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs req and returns the response body pretty-printed with
// two-space indentation. Key order of the API response is preserved.
//
// Non-2xx responses return *APIError; transport failures and bodies that
// are not JSON return *RequestError.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	path := strings.Trim(req.Path, "/")

	ctx, span := instrumentation.StartBackendSpan(ctx, method, path)
	defer span.End()

	start := time.Now()
	body, status, err := c.do(ctx, method, path, req)
	if c.metrics != nil {
		c.metrics.RecordZBDRequest(ctx, method, instrumentation.EndpointLabel(path), status, time.Since(start))
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	return body, nil
}

// do returns the formatted body, the HTTP status (0 if no response was
// received) and an error.
func (c *Client) do(ctx context.Context, method, path string, req Request) ([]byte, int, error) {
	fail := func(err error) error {
		return &RequestError{Method: method, Path: path, Err: err}
	}

	target := c.baseURL + "/" + path
	if req.URLParam != "" {
		target += "/" + url.PathEscape(req.URLParam)
	}

	var payload io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, 0, fail(fmt.Errorf("failed to encode request body: %w", err))
		}
		payload = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, 0, fail(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fail(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fail(fmt.Errorf("failed to read response: %w", err))
	}

	valid := gjson.ValidBytes(data)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := http.StatusText(resp.StatusCode)
		if valid {
			if m := gjson.GetBytes(data, "message"); m.Exists() && m.String() != "" {
				message = m.String()
			}
		}
		return nil, resp.StatusCode, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: message}
	}
	if !valid {
		return nil, resp.StatusCode, fail(errInvalidJSON)
	}

	return bytes.TrimSpace(pretty.PrettyOptions(data, prettyOptions)), resp.StatusCode, nil
}
