// Package client implements the HTTP transport that delivers runs to a
// runsmith collector. It satisfies trace.Transport: POST /runs for newly
// started runs, PATCH /runs/{id} for terminal updates. Delivery is
// best-effort with no retry; a circuit breaker stops hammering a collector
// that is down.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/runsmith/runsmith-go/config"
	"github.com/runsmith/runsmith-go/internal/id"
	"github.com/runsmith/runsmith-go/internal/resilience"
	"github.com/runsmith/runsmith-go/trace"
)

const (
	headerAPIKey    = "x-api-key"
	headerTenantID  = "x-tenant-id"
	headerRequestID = "X-Request-Id"

	defaultTimeout = 30 * time.Second
	userAgent      = "runsmith-go/0.1"
)

// ErrTracingDisabled is returned when a transport call is attempted with
// tracing disabled. A designed bypass, not a failure.
var ErrTracingDisabled = errors.New("client: tracing is disabled")

// StatusError is a non-2xx collector response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector returned HTTP %d: %s", e.Status, e.Body)
}

// Client talks to a runsmith collector. Safe for concurrent use and intended
// to be shared between a root tracer and all of its descendants.
type Client struct {
	http    *resty.Client
	cfg     *config.Config
	log     *zap.Logger
	limiter *rate.Limiter
	breaker *resilience.Breaker
	metrics *deliveryMetrics
}

var _ trace.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for breaker transitions and debug output.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRateLimit caps outbound collector calls per second. Zero or negative
// means unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithRegisterer registers delivery counters with the given prometheus
// registerer. Without it the counters are created unregistered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = newDeliveryMetrics(reg) }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New creates a collector client from explicit configuration. An API key is
// required when tracing is enabled.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg.Tracing && cfg.APIKey == "" {
		return nil, config.ErrAPIKeyMissing
	}

	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	c := &Client{
		http:    httpClient,
		cfg:     cfg,
		log:     zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 0),
		metrics: newDeliveryMetrics(nil),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = resilience.New("runsmith-collector", resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to resilience.State) {
			c.log.Warn("collector breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c, nil
}

// CreateRun posts the initial representation of a newly started run.
func (c *Client) CreateRun(ctx context.Context, run *trace.Run) error {
	if !c.cfg.Tracing {
		return ErrTracingDisabled
	}
	if err := run.Validate(); err != nil {
		return err
	}
	body, err := sonic.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	err = c.send(ctx, http.MethodPost, "/runs", body)
	c.metrics.observe(opCreate, err)
	return err
}

// UpdateRun patches the terminal representation of an existing run.
func (c *Client) UpdateRun(ctx context.Context, runID uuid.UUID, update trace.RunUpdate) error {
	if !c.cfg.Tracing {
		return ErrTracingDisabled
	}
	body, err := sonic.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode run update: %w", err)
	}
	err = c.send(ctx, http.MethodPatch, "/runs/"+runID.String(), body)
	c.metrics.observe(opUpdate, err)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	return c.breaker.Execute(func() error {
		req := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader(headerAPIKey, c.cfg.APIKey).
			SetHeader(headerRequestID, id.NewRequestID().String()).
			SetBody(body)
		if c.cfg.TenantID != "" {
			req.SetHeader(headerTenantID, c.cfg.TenantID)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return &StatusError{Status: resp.StatusCode(), Body: resp.String()}
		}
		return nil
	})
}

// BreakerState exposes the collector breaker state for health reporting.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}
