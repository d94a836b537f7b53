package notion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	// Error payloads are logged; cap what we keep in memory.
	maxErrorBodyBytes = 64 << 10

	// sdkPathPrefix is what notionapi puts in front of every endpoint path.
	sdkPathPrefix = "/v1"
)

const (
	operationQueryDatabase    = "query_database"
	operationCreatePage       = "create_page"
	operationRetrieveDatabase = "retrieve_database"
)

type Config struct {
	APIKey  string
	BaseURL string
	Version string

	// HTTPClient supplies the underlying transport. It defaults to an OpenTelemetry
	// transport with no timeout; the caller's context is the only deadline.
	HTTPClient *http.Client

	// Registerer receives the client's collectors. Nil disables metrics.
	Registerer prometheus.Registerer
}

// Client is a thin layer over notionapi. Every method issues exactly one HTTP request: the
// SDK's 429 retry loop is capped at a single attempt.
type Client struct {
	api     *notionapi.Client
	baseURL string
	version string
	metrics *clientMetrics
}

type clientMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("notion: API key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	target, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("notion: invalid base URL %q: %w", baseURL, err)
	}

	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = DefaultVersion
	}

	c := &Client{
		baseURL: baseURL,
		version: version,
	}

	if cfg.Registerer != nil {
		m, err := newClientMetrics(cfg.Registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	httpClient := &http.Client{
		Transport: &transport{
			base:    baseTransport(cfg.HTTPClient),
			target:  target,
			metrics: c.metrics,
		},
	}
	if cfg.HTTPClient != nil {
		httpClient.Timeout = cfg.HTTPClient.Timeout
	}

	c.api = notionapi.NewClient(
		notionapi.Token(cfg.APIKey),
		notionapi.WithHTTPClient(httpClient),
		notionapi.WithVersion(version),
		notionapi.WithRetry(1),
	)

	return c, nil
}

func baseTransport(client *http.Client) http.RoundTripper {
	if client == nil {
		return otelhttp.NewTransport(http.DefaultTransport)
	}
	if client.Transport == nil {
		return http.DefaultTransport
	}
	return client.Transport
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notion_requests_total",
				Help: "Total number of requests sent to the Notion API.",
			},
			[]string{"operation", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notion_request_duration_seconds",
				Help:    "Notion API request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("notion: register metrics: %w", err)
		}
	}

	return m, nil
}

// QueryDatabase runs a filtered query against a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, query *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if query == nil {
		query = &notionapi.DatabaseQueryRequest{}
	}

	ctx, state := startCall(ctx, operationQueryDatabase)
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), query)
	if err != nil {
		return nil, state.translate(err)
	}

	return resp, nil
}

// CreatePage creates a page (a database row when the parent is a database).
func (c *Client) CreatePage(ctx context.Context, page *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	if page == nil {
		return nil, errors.New("notion: create page request is nil")
	}

	ctx, state := startCall(ctx, operationCreatePage)
	created, err := c.api.Page.Create(ctx, page)
	if err != nil {
		return nil, state.translate(err)
	}

	return created, nil
}

// RetrieveDatabase fetches database metadata. It is used as a reachability probe.
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error) {
	ctx, state := startCall(ctx, operationRetrieveDatabase)
	db, err := c.api.Database.Get(ctx, notionapi.DatabaseID(databaseID))
	if err != nil {
		return nil, state.translate(err)
	}

	return db, nil
}

type callKey struct{}

// call records what the transport saw for one SDK call, so errors can be classified by
// HTTP status instead of by the SDK's decode error.
type call struct {
	operation string
	status    int
	body      []byte
}

func startCall(ctx context.Context, operation string) (context.Context, *call) {
	state := &call{operation: operation}
	return context.WithValue(ctx, callKey{}, state), state
}

func (s *call) translate(err error) error {
	switch {
	case s.status == 0:
		return fmt.Errorf("notion: %s request: %w", s.operation, err)
	case s.status != http.StatusOK:
		apiErr := &APIError{StatusCode: s.status, Body: s.body}
		var sdkErr *notionapi.Error
		if errors.As(err, &sdkErr) {
			apiErr.Code = string(sdkErr.Code)
			apiErr.Message = sdkErr.Message
		}
		return apiErr
	default:
		return fmt.Errorf("notion: decode %s response: %w", s.operation, err)
	}
}

// transport points SDK requests at the configured base URL, records metrics and keeps a
// copy of non-200 bodies for the error log.
type transport struct {
	base    http.RoundTripper
	target  *url.URL
	metrics *clientMetrics
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.URL.Path = strings.TrimRight(t.target.Path, "/") + strings.TrimPrefix(req.URL.Path, sdkPathPrefix)
	out.URL.RawPath = ""
	out.Host = ""
	out.Header.Set("Accept", "application/json")

	state, _ := req.Context().Value(callKey{}).(*call)

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	t.observe(state, resp, start)
	if err != nil || state == nil {
		return resp, err
	}

	state.status = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		_ = resp.Body.Close()
		state.body = raw
		resp.Body = io.NopCloser(bytes.NewReader(raw))
	}

	return resp, nil
}

func (t *transport) observe(state *call, resp *http.Response, start time.Time) {
	if t.metrics == nil {
		return
	}

	operation := "unknown"
	if state != nil {
		operation = state.operation
	}

	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	t.metrics.requestsTotal.WithLabelValues(operation, status).Inc()
	t.metrics.requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// AsAPIError reports whether err is (or wraps) a Notion API error response.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
