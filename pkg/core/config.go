package core

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"nakula/pkg/api"
)

// Credentials holds the API key pair used for authenticated endpoints.
type Credentials struct {
	// APIKey is sent in the X-MBX-APIKEY header.
	APIKey string `json:"api_key" validate:"required"`
	// SecretKey signs request payloads with HMAC-SHA256.
	SecretKey string `json:"secret_key" validate:"required"`
}

// Config contains base URLs, the receive window and the client tuning knobs.
// Build one with DefaultConfig or TestnetConfig and adjust it with the With*
// setters.
type Config struct {
	RestAPIEndpoint                string `json:"rest_api_endpoint" validate:"required,url"`
	WSEndpoint                     string `json:"ws_endpoint" validate:"required,url"`
	PortfolioMarginRestAPIEndpoint string `json:"portfolio_margin_rest_api_endpoint" validate:"required,url"`
	FuturesRestAPIEndpoint         string `json:"futures_rest_api_endpoint" validate:"required,url"`
	FuturesCMRestAPIEndpoint       string `json:"futures_cm_rest_api_endpoint" validate:"required,url"`
	FuturesWSEndpoint              string `json:"futures_ws_endpoint" validate:"required,url"`
	FuturesCMWSEndpoint            string `json:"futures_cm_ws_endpoint" validate:"required,url"`

	// RecvWindow is the timestamp tolerance in milliseconds sent with signed
	// requests. Zero omits the parameter and lets the server default apply.
	RecvWindow int64 `json:"recv_window" validate:"min=0,max=60000"`

	Credentials *Credentials `json:"credentials,omitempty" validate:"omitempty"`

	Timeout      time.Duration `json:"timeout" validate:"min=1ms"`
	MaxRetries   int           `json:"max_retries" validate:"min=0"`
	RetryWaitMin time.Duration `json:"retry_wait_min" validate:"min=0"`
	RetryWaitMax time.Duration `json:"retry_wait_max" validate:"min=0"`

	// RateLimitWeight is the request weight budget per minute for each API
	// family when RateLimitEnabled is set.
	RateLimitEnabled bool `json:"rate_limit_enabled"`
	RateLimitWeight  int  `json:"rate_limit_weight" validate:"min=0"`

	// CacheTTL controls how long exchange info responses are reused.
	CacheTTL time.Duration `json:"cache_ttl" validate:"min=0"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config pointing at the production endpoints with a
// 5000ms receive window.
func DefaultConfig() *Config {
	return &Config{
		RestAPIEndpoint:                "https://api.binance.com",
		WSEndpoint:                     "wss://stream.binance.com/ws",
		PortfolioMarginRestAPIEndpoint: "https://papi.binance.com",
		FuturesRestAPIEndpoint:         "https://fapi.binance.com",
		FuturesCMRestAPIEndpoint:       "https://dapi.binance.com",
		FuturesWSEndpoint:              "wss://fstream.binance.com/ws",
		FuturesCMWSEndpoint:            "wss://dstream.binance.com/ws",
		RecvWindow:                     5000,

		Timeout:      10 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 1 * time.Second,

		RateLimitEnabled: false,
		RateLimitWeight:  6000,

		CircuitBreakerEnabled:          false,
		CircuitBreakerFailThreshold:    5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,

		LogLevel: "info",
	}
}

// TestnetConfig returns a Config pointing at the spot and futures testnets.
// Portfolio margin has no dedicated testnet and shares the spot testnet host.
func TestnetConfig() *Config {
	return DefaultConfig().
		WithRestAPIEndpoint("https://testnet.binance.vision").
		WithWSEndpoint("wss://testnet.binance.vision/ws").
		WithPortfolioMarginRestAPIEndpoint("https://testnet.binance.vision").
		WithFuturesRestAPIEndpoint("https://testnet.binancefuture.com").
		WithFuturesCMRestAPIEndpoint("https://testnet.binancefuture.com").
		WithFuturesWSEndpoint("wss://stream.binancefuture.com/ws").
		WithFuturesCMWSEndpoint("wss://dstream.binancefuture.com/ws")
}

var validate = validator.New()

// Validate checks field constraints and the circuit breaker settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimitEnabled && c.RateLimitWeight <= 0 {
		return errors.New("RateLimitWeight must be positive when rate limiting is enabled")
	}
	if c.CircuitBreakerEnabled {
		if c.CircuitBreakerFailThreshold <= 0 {
			return errors.New("CircuitBreakerFailThreshold must be positive when enabled")
		}
		if c.CircuitBreakerSuccessThreshold <= 0 {
			return errors.New("CircuitBreakerSuccessThreshold must be positive when enabled")
		}
		if c.CircuitBreakerTimeout <= 0 {
			return errors.New("CircuitBreakerTimeout must be positive when enabled")
		}
	}
	return nil
}

// BaseURL returns the REST host serving the given API family.
func (c *Config) BaseURL(family api.Family) string {
	switch family {
	case api.FamilyFutures:
		return c.FuturesRestAPIEndpoint
	case api.FamilyFuturesCM:
		return c.FuturesCMRestAPIEndpoint
	case api.FamilyPortfolioMargin:
		return c.PortfolioMarginRestAPIEndpoint
	default:
		return c.RestAPIEndpoint
	}
}

// StreamURL returns the websocket endpoint carrying streams for the given
// API family. Portfolio margin user data is delivered on the USD-M host.
func (c *Config) StreamURL(family api.Family) string {
	switch family {
	case api.FamilyFutures, api.FamilyPortfolioMargin:
		return c.FuturesWSEndpoint
	case api.FamilyFuturesCM:
		return c.FuturesCMWSEndpoint
	default:
		return c.WSEndpoint
	}
}

// UserStreamURL returns the websocket endpoint that a listen key of the
// given family is appended to. Portfolio margin uses the /pm/ws path of the
// USD-M host.
func (c *Config) UserStreamURL(family api.Family) string {
	if family == api.FamilyPortfolioMargin {
		return strings.TrimSuffix(strings.TrimRight(c.FuturesWSEndpoint, "/"), "/ws") + "/pm/ws"
	}
	return c.StreamURL(family)
}

// WithRestAPIEndpoint sets the spot and margin REST host.
func (c *Config) WithRestAPIEndpoint(endpoint string) *Config {
	c.RestAPIEndpoint = endpoint
	return c
}

// WithWSEndpoint sets the spot websocket endpoint.
func (c *Config) WithWSEndpoint(endpoint string) *Config {
	c.WSEndpoint = endpoint
	return c
}

// WithPortfolioMarginRestAPIEndpoint sets the portfolio margin REST host.
func (c *Config) WithPortfolioMarginRestAPIEndpoint(endpoint string) *Config {
	c.PortfolioMarginRestAPIEndpoint = endpoint
	return c
}

// WithFuturesRestAPIEndpoint sets the USD-M futures REST host.
func (c *Config) WithFuturesRestAPIEndpoint(endpoint string) *Config {
	c.FuturesRestAPIEndpoint = endpoint
	return c
}

// WithFuturesCMRestAPIEndpoint sets the COIN-M futures REST host.
func (c *Config) WithFuturesCMRestAPIEndpoint(endpoint string) *Config {
	c.FuturesCMRestAPIEndpoint = endpoint
	return c
}

// WithFuturesWSEndpoint sets the USD-M futures websocket endpoint.
func (c *Config) WithFuturesWSEndpoint(endpoint string) *Config {
	c.FuturesWSEndpoint = endpoint
	return c
}

// WithFuturesCMWSEndpoint sets the COIN-M futures websocket endpoint.
func (c *Config) WithFuturesCMWSEndpoint(endpoint string) *Config {
	c.FuturesCMWSEndpoint = endpoint
	return c
}

// WithRecvWindow sets the receive window in milliseconds.
func (c *Config) WithRecvWindow(recvWindow int64) *Config {
	c.RecvWindow = recvWindow
	return c
}

// WithCredentials sets the API key pair.
func (c *Config) WithCredentials(apiKey, secretKey string) *Config {
	c.Credentials = &Credentials{APIKey: apiKey, SecretKey: secretKey}
	return c
}

// WithTimeout sets the HTTP request timeout.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRetry sets the transport retry count and wait bounds.
func (c *Config) WithRetry(maxRetries int, waitMin, waitMax time.Duration) *Config {
	c.MaxRetries = maxRetries
	c.RetryWaitMin = waitMin
	c.RetryWaitMax = waitMax
	return c
}

// WithRateLimit enables client side request weight limiting with the given
// per-minute budget.
func (c *Config) WithRateLimit(weightPerMinute int) *Config {
	c.RateLimitEnabled = weightPerMinute > 0
	c.RateLimitWeight = weightPerMinute
	return c
}

// WithCache sets how long exchange info responses are cached. Zero disables
// caching.
func (c *Config) WithCache(ttl time.Duration) *Config {
	c.CacheTTL = ttl
	return c
}

// WithCircuitBreaker enables the circuit breaker with the given thresholds.
func (c *Config) WithCircuitBreaker(failThreshold, successThreshold int, timeout time.Duration) *Config {
	c.CircuitBreakerEnabled = true
	c.CircuitBreakerFailThreshold = failThreshold
	c.CircuitBreakerSuccessThreshold = successThreshold
	c.CircuitBreakerTimeout = timeout
	return c
}

// WithLogLevel sets the minimum log level (debug, info, warn, error).
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}
