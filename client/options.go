package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Option configures a Client during construction in New.
//
// Options only record settings; the debug and metrics transports are
// installed after every option has run, so ordering between WithHTTPClient
// and WithDebugLogging does not matter.
type Option func(*Client) error

// WithBaseURL points the client at another endpoint, typically a fake
// service in tests. The URL must be absolute.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid base url %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q must be absolute", raw)
		}
		c.baseURL = strings.TrimRight(raw, "/")
		return nil
	}
}

// WithHTTPClient uses a copy of hc for all requests. The copy keeps hc's
// transport and timeout; a zero Timeout falls back to the 30s default and
// WithHTTPTimeout overrides it. hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// It bounds the total time spent on a single call, including connection,
// TLS handshake and reading the body. Per-call context deadlines apply on
// top. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithDebugLogging logs every request and response at debug level when
// enabled is true.
//
// Do not enable this option in production: dumps include private API keys
// that appear in txbyapikey and txbyaddress paths.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.debug = true
		}
		return nil
	}
}

// WithAffiliateKey sets the affiliate PUBLIC key sent as apiKey on shift and
// sendamount requests that do not carry their own.
func WithAffiliateKey(key string) Option {
	return func(c *Client) error {
		c.affiliateKey = key
		return nil
	}
}
