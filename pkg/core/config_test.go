package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/api"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "https://api.binance.com", config.RestAPIEndpoint)
	assert.Equal(t, "wss://stream.binance.com/ws", config.WSEndpoint)
	assert.Equal(t, "https://papi.binance.com", config.PortfolioMarginRestAPIEndpoint)
	assert.Equal(t, "https://fapi.binance.com", config.FuturesRestAPIEndpoint)
	assert.Equal(t, "https://dapi.binance.com", config.FuturesCMRestAPIEndpoint)
	assert.Equal(t, "wss://fstream.binance.com/ws", config.FuturesWSEndpoint)
	assert.Equal(t, "wss://dstream.binance.com/ws", config.FuturesCMWSEndpoint)
	assert.Equal(t, int64(5000), config.RecvWindow)
	assert.Nil(t, config.Credentials)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 3, config.MaxRetries)
	assert.False(t, config.RateLimitEnabled)
	assert.False(t, config.CircuitBreakerEnabled)
	assert.Equal(t, "info", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestTestnetConfig(t *testing.T) {
	config := TestnetConfig()

	assert.Equal(t, "https://testnet.binance.vision", config.RestAPIEndpoint)
	assert.Equal(t, "wss://testnet.binance.vision/ws", config.WSEndpoint)
	assert.Equal(t, "https://testnet.binance.vision", config.PortfolioMarginRestAPIEndpoint)
	assert.Equal(t, "https://testnet.binancefuture.com", config.FuturesRestAPIEndpoint)
	assert.Equal(t, "https://testnet.binancefuture.com", config.FuturesCMRestAPIEndpoint)
	assert.Equal(t, "wss://stream.binancefuture.com/ws", config.FuturesWSEndpoint)
	assert.Equal(t, "wss://dstream.binancefuture.com/ws", config.FuturesCMWSEndpoint)
	assert.Equal(t, int64(5000), config.RecvWindow)
	assert.NoError(t, config.Validate())
}

func TestConfig_FluentSetters(t *testing.T) {
	config := DefaultConfig().
		WithRestAPIEndpoint("https://rest.example.com").
		WithWSEndpoint("wss://ws.example.com/ws").
		WithPortfolioMarginRestAPIEndpoint("https://pm.example.com").
		WithFuturesRestAPIEndpoint("https://um.example.com").
		WithFuturesCMRestAPIEndpoint("https://cm.example.com").
		WithFuturesWSEndpoint("wss://um.example.com/ws").
		WithFuturesCMWSEndpoint("wss://cm.example.com/ws").
		WithRecvWindow(10000).
		WithCredentials("key", "secret").
		WithTimeout(3*time.Second).
		WithRetry(1, 10*time.Millisecond, 50*time.Millisecond).
		WithRateLimit(1200).
		WithCache(time.Minute).
		WithCircuitBreaker(3, 1, time.Second).
		WithLogLevel("debug")

	assert.Equal(t, "https://rest.example.com", config.RestAPIEndpoint)
	assert.Equal(t, "wss://ws.example.com/ws", config.WSEndpoint)
	assert.Equal(t, "https://pm.example.com", config.PortfolioMarginRestAPIEndpoint)
	assert.Equal(t, "https://um.example.com", config.FuturesRestAPIEndpoint)
	assert.Equal(t, "https://cm.example.com", config.FuturesCMRestAPIEndpoint)
	assert.Equal(t, "wss://um.example.com/ws", config.FuturesWSEndpoint)
	assert.Equal(t, "wss://cm.example.com/ws", config.FuturesCMWSEndpoint)
	assert.Equal(t, int64(10000), config.RecvWindow)
	require.NotNil(t, config.Credentials)
	assert.Equal(t, "key", config.Credentials.APIKey)
	assert.Equal(t, "secret", config.Credentials.SecretKey)
	assert.Equal(t, 3*time.Second, config.Timeout)
	assert.Equal(t, 1, config.MaxRetries)
	assert.True(t, config.RateLimitEnabled)
	assert.Equal(t, 1200, config.RateLimitWeight)
	assert.Equal(t, time.Minute, config.CacheTTL)
	assert.True(t, config.CircuitBreakerEnabled)
	assert.Equal(t, 3, config.CircuitBreakerFailThreshold)
	assert.Equal(t, "debug", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid_config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing_rest_endpoint",
			mutate:  func(c *Config) { c.RestAPIEndpoint = "" },
			wantErr: true,
			errMsg:  "RestAPIEndpoint",
		},
		{
			name:    "malformed_futures_endpoint",
			mutate:  func(c *Config) { c.FuturesRestAPIEndpoint = "not a url" },
			wantErr: true,
			errMsg:  "FuturesRestAPIEndpoint",
		},
		{
			name:    "recv_window_too_large",
			mutate:  func(c *Config) { c.RecvWindow = 60001 },
			wantErr: true,
			errMsg:  "RecvWindow",
		},
		{
			name:    "negative_recv_window",
			mutate:  func(c *Config) { c.RecvWindow = -1 },
			wantErr: true,
			errMsg:  "RecvWindow",
		},
		{
			name:   "zero_recv_window",
			mutate: func(c *Config) { c.RecvWindow = 0 },
		},
		{
			name:    "invalid_timeout",
			mutate:  func(c *Config) { c.Timeout = -1 * time.Second },
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "negative_max_retries",
			mutate:  func(c *Config) { c.MaxRetries = -1 },
			wantErr: true,
			errMsg:  "MaxRetries",
		},
		{
			name:    "empty_credentials",
			mutate:  func(c *Config) { c.WithCredentials("", "") },
			wantErr: true,
			errMsg:  "APIKey",
		},
		{
			name:    "invalid_log_level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
			errMsg:  "LogLevel",
		},
		{
			name: "rate_limit_without_weight",
			mutate: func(c *Config) {
				c.RateLimitEnabled = true
				c.RateLimitWeight = 0
			},
			wantErr: true,
			errMsg:  "RateLimitWeight",
		},
		{
			name: "invalid_circuit_breaker_fail_threshold",
			mutate: func(c *Config) {
				c.CircuitBreakerEnabled = true
				c.CircuitBreakerFailThreshold = 0
			},
			wantErr: true,
			errMsg:  "CircuitBreakerFailThreshold",
		},
		{
			name: "invalid_circuit_breaker_success_threshold",
			mutate: func(c *Config) {
				c.CircuitBreakerEnabled = true
				c.CircuitBreakerSuccessThreshold = 0
			},
			wantErr: true,
			errMsg:  "CircuitBreakerSuccessThreshold",
		},
		{
			name: "invalid_circuit_breaker_timeout",
			mutate: func(c *Config) {
				c.CircuitBreakerEnabled = true
				c.CircuitBreakerTimeout = 0
			},
			wantErr: true,
			errMsg:  "CircuitBreakerTimeout",
		},
		{
			name: "circuit_breaker_disabled_skips_validation",
			mutate: func(c *Config) {
				c.CircuitBreakerEnabled = false
				c.CircuitBreakerFailThreshold = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_BaseURL(t *testing.T) {
	config := DefaultConfig()

	tests := []struct {
		family api.Family
		want   string
	}{
		{api.FamilySpot, "https://api.binance.com"},
		{api.FamilyMargin, "https://api.binance.com"},
		{api.FamilyFutures, "https://fapi.binance.com"},
		{api.FamilyFuturesCM, "https://dapi.binance.com"},
		{api.FamilyPortfolioMargin, "https://papi.binance.com"},
	}

	for _, tt := range tests {
		t.Run(tt.family.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, config.BaseURL(tt.family))
		})
	}
}

func TestConfig_StreamURL(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "wss://stream.binance.com/ws", config.StreamURL(api.FamilySpot))
	assert.Equal(t, "wss://stream.binance.com/ws", config.StreamURL(api.FamilyMargin))
	assert.Equal(t, "wss://fstream.binance.com/ws", config.StreamURL(api.FamilyFutures))
	assert.Equal(t, "wss://dstream.binance.com/ws", config.StreamURL(api.FamilyFuturesCM))
	assert.Equal(t, "wss://fstream.binance.com/ws", config.StreamURL(api.FamilyPortfolioMargin))
}

func TestConfig_UserStreamURL(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "wss://stream.binance.com/ws", config.UserStreamURL(api.FamilyMargin))
	assert.Equal(t, "wss://dstream.binance.com/ws", config.UserStreamURL(api.FamilyFuturesCM))
	assert.Equal(t, "wss://fstream.binance.com/pm/ws", config.UserStreamURL(api.FamilyPortfolioMargin))

	config.WithFuturesWSEndpoint("wss://fstream.binance.com/ws/")
	assert.Equal(t, "wss://fstream.binance.com/pm/ws", config.UserStreamURL(api.FamilyPortfolioMargin))
}
