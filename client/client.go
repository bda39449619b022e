package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mycelian/shapeshift/client/internal/api"
)

// DefaultBaseURL is the public ShapeShift endpoint.
const DefaultBaseURL = "https://shapeshift.io"

const defaultHTTPTimeout = 30 * time.Second

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is a ShapeShift API binding. It holds no per-call state and is safe
// for concurrent use once constructed.
type Client struct {
	baseURL      string
	http         *http.Client
	affiliateKey string        // public affiliate key filled into shift/sendamount bodies
	timeout      time.Duration // set by WithHTTPTimeout; applied after all options
	debug        bool
}

// New constructs a Client for DefaultBaseURL. Options can override the
// endpoint, timeout and HTTP client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.applyTimeout()
	c.installTransport()
	return c, nil
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// applyTimeout makes sure every call is bounded: an explicit WithHTTPTimeout
// wins regardless of option order, and a caller-supplied client without a
// Timeout gets the default.
func (c *Client) applyTimeout() {
	switch {
	case c.timeout > 0:
		c.http.Timeout = c.timeout
	case c.http.Timeout <= 0:
		c.http.Timeout = defaultHTTPTimeout
	}
}

// installTransport stacks the debug and metrics round trippers on top of the
// configured transport. Metrics sit outermost so they time the full call.
func (c *Client) installTransport() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if c.debug {
		base = &debugTransport{base: base}
	}
	basePath := ""
	if u, err := url.Parse(c.baseURL); err == nil {
		basePath = u.EscapedPath()
	}
	c.http.Transport = &metricsTransport{base: base, basePath: basePath}
}

// --------------------------------------------------------------------
// Market operations - delegated to internal/api
// --------------------------------------------------------------------

// Rate returns the current rate for pair.
func (c *Client) Rate(ctx context.Context, pair Pair) (*Response, error) {
	return api.Rate(ctx, c.http, c.baseURL, pair)
}

// DepositLimit returns the maximum deposit accepted for pair.
func (c *Client) DepositLimit(ctx context.Context, pair Pair) (*Response, error) {
	return api.DepositLimit(ctx, c.http, c.baseURL, pair)
}

// MarketInfo returns rate, limits and miner fee for pair. The zero Pair
// behaves like AllMarketInfo.
func (c *Client) MarketInfo(ctx context.Context, pair Pair) (*Response, error) {
	return api.MarketInfo(ctx, c.http, c.baseURL, pair)
}

// AllMarketInfo returns market info for every supported pair.
func (c *Client) AllMarketInfo(ctx context.Context) (*Response, error) {
	return api.MarketInfo(ctx, c.http, c.baseURL, Pair{})
}

// RecentTransactions lists the most recent exchanges; the service decides
// how many (currently 5).
func (c *Client) RecentTransactions(ctx context.Context) (*Response, error) {
	return api.RecentTransactions(ctx, c.http, c.baseURL, nil)
}

// RecentTransactionsN lists the count most recent exchanges. count must be
// within [1, 50].
func (c *Client) RecentTransactionsN(ctx context.Context, count int) (*Response, error) {
	return api.RecentTransactions(ctx, c.http, c.baseURL, &count)
}

// Coins lists every supported currency and its availability.
func (c *Client) Coins(ctx context.Context) (*Response, error) {
	return api.Coins(ctx, c.http, c.baseURL)
}

// --------------------------------------------------------------------
// Status operations - delegated to internal/api
// --------------------------------------------------------------------

// DepositStatus reports the state of deposits made to a deposit address.
func (c *Client) DepositStatus(ctx context.Context, address string) (*Response, error) {
	return api.DepositStatus(ctx, c.http, c.baseURL, address)
}

// TimeRemaining reports the seconds left on a fixed-amount deposit address.
func (c *Client) TimeRemaining(ctx context.Context, address string) (*Response, error) {
	return api.TimeRemaining(ctx, c.http, c.baseURL, address)
}

// TransactionsByAPIKey lists transactions made under an affiliate's PRIVATE key.
func (c *Client) TransactionsByAPIKey(ctx context.Context, privateKey string) (*Response, error) {
	return api.TransactionsByAPIKey(ctx, c.http, c.baseURL, privateKey)
}

// TransactionsByAddress lists transactions that paid out to address, scoped to
// an affiliate's PRIVATE key.
func (c *Client) TransactionsByAddress(ctx context.Context, address, privateKey string) (*Response, error) {
	return api.TransactionsByAddress(ctx, c.http, c.baseURL, address, privateKey)
}

// ValidateAddress asks the service whether address is valid for coinSymbol.
func (c *Client) ValidateAddress(ctx context.Context, address, coinSymbol string) (*Response, error) {
	return api.ValidateAddress(ctx, c.http, c.baseURL, address, coinSymbol)
}

// --------------------------------------------------------------------
// Exchange operations - delegated to internal/api (never retried)
// --------------------------------------------------------------------

// Shift opens a normal exchange and returns the deposit address to pay into.
func (c *Client) Shift(ctx context.Context, req ShiftRequest) (*Response, error) {
	if req.APIKey == "" {
		req.APIKey = c.affiliateKey
	}
	return api.Shift(ctx, c.http, c.baseURL, req)
}

// RequestEmailReceipt asks the service to email a receipt for a withdrawal.
func (c *Client) RequestEmailReceipt(ctx context.Context, req EmailReceiptRequest) (*Response, error) {
	return api.RequestEmailReceipt(ctx, c.http, c.baseURL, req)
}

// SendAmount opens a fixed-amount exchange. With an empty Withdrawal the
// service only quotes the rate and no deposit address is created.
func (c *Client) SendAmount(ctx context.Context, req SendAmountRequest) (*Response, error) {
	if req.APIKey == "" {
		req.APIKey = c.affiliateKey
	}
	return api.SendAmount(ctx, c.http, c.baseURL, req)
}

// CancelPending cancels the pending exchange bound to depositAddress.
func (c *Client) CancelPending(ctx context.Context, depositAddress string) (*Response, error) {
	return api.CancelPending(ctx, c.http, c.baseURL, CancelPendingRequest{Address: depositAddress})
}
