// Package config handles configuration for the server,
// including defaults, environment variables, JSON overlay, and flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the maintron server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Required.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Required.
//   - TokenValidityDuration: session token lifetime.
//   - RazorpayKeyID / RazorpayKeySecret: payment gateway credentials.
//   - RazorpayBaseURL: gateway API endpoint, overridable for tests.
//   - AllowedOrigin: origin allowed for cross-origin browser calls.
//   - DBConnectMaxRetries: connection attempts before startup is aborted.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayBaseURL       string
	AllowedOrigin         string
	DBConnectMaxRetries   int
}

// LoadDefaults populates Config with development defaults. The DSN and the
// signing secret have no defaults on purpose: both must be supplied.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":4242"
	c.TokenValidityDuration = 24 * time.Hour
	c.RazorpayBaseURL = "https://api.razorpay.com"
	c.AllowedOrigin = "http://localhost:5173"
	c.DBConnectMaxRetries = 5
}

// Validate reports a fatal configuration error. It is called once at
// startup; the process must not serve requests if it fails.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is not configured")
	}
	if c.SecretKey == "" {
		return errors.New("token signing secret is not configured")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
