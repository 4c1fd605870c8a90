package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pharmacertlabs/pharmacert/internal/retry"

	"go.uber.org/zap"
)

// DefaultNodeURL is the devnet fullnode REST endpoint.
const DefaultNodeURL = "https://fullnode.devnet.aptoslabs.com/v1"

const (
	typePending = "pending_transaction"

	defaultPollInterval = time.Second
	defaultWaitTimeout  = 30 * time.Second
)

var (
	// ErrNotFound is returned when the fullnode has no such transaction or resource.
	ErrNotFound = errors.New("chain: not found")

	// ErrTransactionFailed is returned when a committed transaction did not succeed.
	ErrTransactionFailed = errors.New("chain: transaction failed")
)

// APIError is a non-2xx response from the fullnode.
type APIError struct {
	Status    int    `json:"-"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chain: fullnode returned %d", e.Status)
	}
	return fmt.Sprintf("chain: fullnode returned %d: %s", e.Status, e.Message)
}

// StatusCode lets retry classify the failure.
func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Transaction is the subset of a fullnode transaction the CLI reports on.
type Transaction struct {
	Type      string `json:"type"`
	Hash      string `json:"hash"`
	Version   string `json:"version,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Success   bool   `json:"success"`
	VMStatus  string `json:"vm_status,omitempty"`
	GasUsed   string `json:"gas_used,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Pending reports whether the transaction is still in the mempool.
func (t Transaction) Pending() bool {
	return t.Type == typePending
}

// Resource is an account resource with its raw Move data.
type Resource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client talks to a fullnode REST API.
type Client struct {
	baseURL      string
	http         *http.Client
	retry        retry.Config
	logger       *zap.Logger
	pollInterval time.Duration
	waitTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetry sets the retry policy for individual requests.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPollInterval sets how often WaitForTransaction re-checks a pending transaction.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithWaitTimeout bounds WaitForTransaction.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.waitTimeout = d
		}
	}
}

// NewClient returns a client for the fullnode at nodeURL. An empty URL
// selects DefaultNodeURL.
func NewClient(nodeURL string, opts ...Option) *Client {
	if nodeURL == "" {
		nodeURL = DefaultNodeURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(nodeURL, "/"),
		http:         &http.Client{Timeout: 15 * time.Second},
		retry:        retry.DefaultConfig(),
		logger:       zap.NewNop(),
		pollInterval: defaultPollInterval,
		waitTimeout:  defaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transaction fetches a transaction by hash.
func (c *Client) Transaction(ctx context.Context, hash string) (*Transaction, error) {
	var tx Transaction
	if err := c.get(ctx, "/transactions/by_hash/"+url.PathEscape(hash), &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// WaitForTransaction polls until the transaction leaves the mempool. Hashes
// the node has not indexed yet are treated as pending. A committed
// transaction with success false yields ErrTransactionFailed.
func (c *Client) WaitForTransaction(ctx context.Context, hash string) (*Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()

	var tx *Transaction
	err := retry.Poll(ctx, c.pollInterval, func() (bool, error) {
		got, err := c.Transaction(ctx, hash)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		tx = got
		return !got.Pending(), nil
	})
	if err != nil {
		return tx, fmt.Errorf("chain: waiting for %s: %w", hash, err)
	}
	if !tx.Success {
		return tx, fmt.Errorf("%w: %s (%s)", ErrTransactionFailed, hash, tx.VMStatus)
	}
	return tx, nil
}

// AccountResource reads one resource of the given Move type from address.
func (c *Client) AccountResource(ctx context.Context, address, resourceType string) (*Resource, error) {
	path := fmt.Sprintf("/accounts/%s/resource/%s", url.PathEscape(address), url.PathEscape(resourceType))
	var res Resource
	if err := c.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	cfg := c.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		c.logger.Debug("fullnode request retry",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}

	return retry.Do(ctx, cfg, retry.IsRetryable, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("chain: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("chain: request %s: %w", path, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return fmt.Errorf("chain: read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{Status: resp.StatusCode}
			_ = json.Unmarshal(body, apiErr)
			return apiErr
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("chain: decode response: %w", err)
		}
		return nil
	})
}
