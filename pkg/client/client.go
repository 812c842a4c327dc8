// Package client talks to the orders REST service. Routes come from the
// contract package so an alternate deployment can remap them.
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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-orderdesk/pkg/contract"
	"github.com/goliatone/go-orderdesk/pkg/order"
)

// DefaultTimeout bounds a single round trip when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 1 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the http.Client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a zap logger; requests are logged at debug.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContract overrides the embedded route table.
func WithContract(routes *contract.Contract) Option {
	return func(c *Client) {
		if routes != nil {
			c.routes = routes
		}
	}
}

// WithRequestIDFunc replaces the uuid request id generator.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// Client is a thin JSON client for the orders service.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	routes    *contract.Contract
	logger    *zap.Logger
	requestID func() string
}

// New builds a client for the service rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""

	c := &Client{
		baseURL:   strings.TrimRight(parsed.String(), "/"),
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
		requestID: uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.routes == nil {
		routes, err := contract.Default()
		if err != nil {
			return nil, fmt.Errorf("client: load contract: %w", err)
		}
		c.routes = routes
	}
	return c, nil
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Create posts a new order. Any id on the payload is dropped; the service
// assigns one.
func (c *Client) Create(ctx context.Context, payload order.Order) (order.Order, error) {
	payload.ID = ""
	var created order.Order
	if err := c.do(ctx, contract.OpCreateOrder, nil, "", payload, &created); err != nil {
		return order.Order{}, err
	}
	return created, nil
}

// Update replaces the order identified by id.
func (c *Client) Update(ctx context.Context, id string, payload order.Order) (order.Order, error) {
	var updated order.Order
	if err := c.do(ctx, contract.OpUpdateOrder, idParam(id), "", payload, &updated); err != nil {
		return order.Order{}, err
	}
	return updated, nil
}

// Get reads one order.
func (c *Client) Get(ctx context.Context, id string) (order.Order, error) {
	var found order.Order
	if err := c.do(ctx, contract.OpGetOrder, idParam(id), "", nil, &found); err != nil {
		return order.Order{}, err
	}
	return found, nil
}

// Delete removes an order and returns the id the service reported, or id
// itself when the response body was empty.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var deleted order.Order
	if err := c.do(ctx, contract.OpDeleteOrder, idParam(id), "", nil, &deleted); err != nil {
		return "", err
	}
	if deleted.ID != "" {
		return deleted.ID, nil
	}
	return id, nil
}

// Cancel moves an order to the canceled status.
func (c *Client) Cancel(ctx context.Context, id string) (order.Order, error) {
	var canceled order.Order
	if err := c.do(ctx, contract.OpCancelOrder, idParam(id), "", nil, &canceled); err != nil {
		return order.Order{}, err
	}
	return canceled, nil
}

// List returns the orders matching rawQuery (already encoded, without "?").
func (c *Client) List(ctx context.Context, rawQuery string) ([]order.Order, error) {
	var orders []order.Order
	if err := c.do(ctx, contract.OpListOrders, nil, rawQuery, nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []order.Order{}
	}
	return orders, nil
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}

func (c *Client) do(ctx context.Context, operationID string, params map[string]string, rawQuery string, body any, out any) error {
	if ctx == nil {
		return errors.New("client: context is required")
	}

	route, err := c.routes.Route(operationID)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}

	target := c.baseURL + route.Expand(params)
	if rawQuery = strings.TrimPrefix(rawQuery, "?"); rawQuery != "" {
		target += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s body: %w", operationID, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, target, reader)
	if err != nil {
		return fmt.Errorf("client: build %s request: %w", operationID, err)
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	// The service checks the media type on cancel even though it has no body.
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("orders request failed",
			zap.String("operation", operationID),
			zap.String("method", route.Method),
			zap.String("url", target),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("client: %s %s: %w", route.Method, target, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.logger.Debug("orders request",
		zap.String("operation", operationID),
		zap.String("method", route.Method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
		zap.String("request_id", requestID),
	)
	if err != nil {
		return fmt.Errorf("client: read %s response: %w", operationID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", operationID, err)
	}
	return nil
}
