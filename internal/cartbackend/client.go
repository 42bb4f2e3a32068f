// Package cartbackend talks to the Cart Backend over HTTP and implements
// cart.Backend for one storefront session.
package cartbackend

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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/domain/cart"
)

const (
	DefaultTimeout   = 10 * time.Second
	RequestIDHeader  = "X-Request-ID"
	maxErrorBodySize = 1 << 10
)

var errNotConfigured = errors.New("cart backend client not configured: base URL required")

// Client calls the Cart Backend with a session bearer token
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewClient creates a Cart Backend HTTP client without a session token.
// Use WithToken to bind it to a session.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		logger:     logger,
	}
}

// WithToken returns a copy of the client that sends token on every call.
// The copy shares the underlying connection pool.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Factory adapts the client to cart.BackendFactory.
func (c *Client) Factory() cart.BackendFactory {
	return func(token string) cart.Backend {
		return c.WithToken(token)
	}
}

// ListStores fetches every store cart of the session.
func (c *Client) ListStores(ctx context.Context) ([]cart.Snapshot, error) {
	var out []storeDTO
	if _, err := c.do(ctx, "list stores", "", http.MethodGet, "/cart/stores", nil, &out); err != nil {
		return nil, err
	}
	snaps := make([]cart.Snapshot, 0, len(out))
	for _, s := range out {
		snaps = append(snaps, toSnapshot(s, "", c.validate, c.logger))
	}
	return snaps, nil
}

// FetchStore fetches one store cart. A store the backend does not know
// returns (nil, nil).
func (c *Client) FetchStore(ctx context.Context, storeID string) (*cart.Snapshot, error) {
	var out storeDTO
	status, err := c.do(ctx, "fetch store", storeID, http.MethodGet, storePath(storeID), nil, &out)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snap := toSnapshot(out, storeID, c.validate, c.logger)
	return &snap, nil
}

func (c *Client) AddItem(ctx context.Context, storeID string, item cart.NewItem) error {
	if err := c.validate.Struct(item); err != nil {
		return fmt.Errorf("%w: %v", cart.ErrInvalidItem, err)
	}
	_, err := c.do(ctx, "add item", storeID, http.MethodPost, storePath(storeID)+"/items", item, nil)
	return err
}

func (c *Client) UpdateQuantity(ctx context.Context, storeID, lineID string, quantity int) error {
	body := quantityRequest{LineID: lineID, Quantity: quantity}
	_, err := c.do(ctx, "update quantity", storeID, http.MethodPut, storePath(storeID)+"/items/quantity", body, nil)
	return err
}

func (c *Client) RemoveItem(ctx context.Context, storeID, lineID string) error {
	body := removeRequest{LineID: lineID}
	_, err := c.do(ctx, "remove item", storeID, http.MethodDelete, storePath(storeID)+"/items", body, nil)
	return err
}

func (c *Client) ClearStore(ctx context.Context, storeID string) error {
	_, err := c.do(ctx, "clear store", storeID, http.MethodDelete, storePath(storeID), nil, nil)
	return err
}

func storePath(storeID string) string {
	return "/cart/stores/" + url.PathEscape(storeID)
}

// do performs one request and decodes a 2xx body into out when out is set.
// It returns the response status (0 when no response arrived).
func (c *Client) do(ctx context.Context, op, storeID, method, path string, body, out any) (int, error) {
	if c.baseURL == "" {
		return 0, &cart.NetworkError{Op: op, StoreID: storeID, Err: errNotConfigured}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, &cart.NetworkError{Op: op, StoreID: storeID, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	backendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		backendRequestsTotal.WithLabelValues(op, resultTransport).Inc()
		c.logger.Warn("cart backend request failed",
			zap.String("op", op),
			zap.String("store_id", storeID),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return 0, &cart.NetworkError{Op: op, StoreID: storeID, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		backendRequestsTotal.WithLabelValues(op, resultUnauthorized).Inc()
		c.logger.Info("cart backend rejected session",
			zap.String("op", op),
			zap.String("request_id", requestID),
		)
		return resp.StatusCode, fmt.Errorf("%s: %w", op, cart.ErrSessionExpired)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		backendRequestsTotal.WithLabelValues(op, resultHTTPError).Inc()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		netErr := &cart.NetworkError{Op: op, StoreID: storeID, Status: resp.StatusCode}
		if text := strings.TrimSpace(string(msg)); text != "" {
			netErr.Err = errors.New(text)
		}
		if resp.StatusCode != http.StatusNotFound {
			c.logger.Warn("cart backend returned error status",
				zap.String("op", op),
				zap.String("store_id", storeID),
				zap.String("request_id", requestID),
				zap.Int("status", resp.StatusCode),
			)
		}
		return resp.StatusCode, netErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			backendRequestsTotal.WithLabelValues(op, resultDecode).Inc()
			return resp.StatusCode, &cart.NetworkError{
				Op:      op,
				StoreID: storeID,
				Status:  resp.StatusCode,
				Err:     fmt.Errorf("decode response: %w", err),
			}
		}
	}
	backendRequestsTotal.WithLabelValues(op, resultOK).Inc()
	return resp.StatusCode, nil
}
