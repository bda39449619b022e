package client

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups the settings that can come from the environment. Values are
// read from variables with the prefix "SHAPESHIFT_", for example
// SHAPESHIFT_BASE_URL=http://localhost:8080 SHAPESHIFT_HTTP_TIMEOUT=5s.
type Config struct {
	BaseURL      string        `envconfig:"BASE_URL"      default:"https://shapeshift.io"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT"  default:"30s"`
	AffiliateKey string        `envconfig:"AFFILIATE_KEY"`
	Debug        bool          `envconfig:"DEBUG"`
}

// LoadConfig populates Config from environment variables (prefix SHAPESHIFT_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("SHAPESHIFT", &c)
}

// Options converts the configuration into client options.
func (c Config) Options() []Option {
	opts := []Option{
		WithBaseURL(c.BaseURL),
		WithHTTPTimeout(c.HTTPTimeout),
		WithDebugLogging(c.Debug),
	}
	if c.AffiliateKey != "" {
		opts = append(opts, WithAffiliateKey(c.AffiliateKey))
	}
	return opts
}

// NewFromEnv builds a Client from LoadConfig; opts are applied afterwards and
// win over the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(append(cfg.Options(), opts...)...)
}
