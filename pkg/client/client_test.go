package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/api"
	"nakula/pkg/auth"
	"nakula/pkg/core"
	"nakula/pkg/keyring"
)

const testNow = int64(1700000000000)

func testClock() time.Time { return time.UnixMilli(testNow) }

func testConfig(url string) *core.Config {
	return core.DefaultConfig().
		WithRestAPIEndpoint(url).
		WithPortfolioMarginRestAPIEndpoint(url).
		WithFuturesRestAPIEndpoint(url).
		WithFuturesCMRestAPIEndpoint(url).
		WithRetry(0, 0, 0).
		WithCredentials("test-key", "test-secret")
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg func(*core.Config), opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := testConfig(server.URL)
	if cfg != nil {
		cfg(config)
	}
	opts = append([]Option{WithLogger(zerolog.Nop()), WithClock(testClock)}, opts...)
	c, err := New(config, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(core.DefaultConfig().WithRestAPIEndpoint("not a url"))
	assert.Error(t, err)
}

func TestClient_UnsignedGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v3/depth", r.URL.Path)
		assert.Equal(t, "limit=5&symbol=BTCUSDT", r.URL.RawQuery)
		assert.Empty(t, r.Header.Get(auth.HeaderAPIKey))
		_, _ = w.Write([]byte(`{"lastUpdateId":7,"bids":[["1.0","2.0"]],"asks":[]}`))
	}, nil)

	var book core.OrderBook
	err := c.Get(context.Background(), api.SpotDepth, core.NewParams().Set("symbol", "BTCUSDT").SetInt("limit", 5), &book)
	require.NoError(t, err)
	assert.Equal(t, int64(7), book.LastUpdateID)
	require.Len(t, book.Bids, 1)
}

func TestClient_SignedRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get(auth.HeaderAPIKey))

		raw := r.URL.RawQuery
		idx := strings.LastIndex(raw, "&signature=")
		require.Positive(t, idx)
		payload := raw[:idx]
		assert.Equal(t, "recvWindow=5000&side=BUY&symbol=BTCUSDT&timestamp=1700000000000", payload)
		assert.Equal(t, auth.NewSigner("test-secret", 0).Sign(payload), raw[idx+len("&signature="):])
		_, _ = w.Write([]byte(`{"orderId":1}`))
	}, nil)

	var out map[string]any
	err := c.PostSigned(context.Background(), api.SpotOrder, core.NewParams().Set("symbol", "BTCUSDT").Set("side", "BUY"), &out)
	require.NoError(t, err)
	assert.EqualValues(t, 1, out["orderId"])
}

func TestClient_KeyedRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/userDataStream", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get(auth.HeaderAPIKey))
		assert.NotContains(t, r.URL.RawQuery, "signature")
		_, _ = w.Write([]byte(`{"listenKey":"abc"}`))
	}, nil)

	var lk core.ListenKey
	require.NoError(t, c.PostKeyed(context.Background(), api.SpotUserDataStream, nil, &lk))
	assert.Equal(t, "abc", lk.ListenKey)
}

func TestClient_NoCredentials(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, func(cfg *core.Config) { cfg.Credentials = nil })

	err := c.GetSigned(context.Background(), api.SpotAccount, nil, nil)
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	err = c.PostKeyed(context.Background(), api.SpotUserDataStream, nil, nil)
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	assert.Zero(t, hits.Load(), "no request may reach the server")
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType core.ErrorType
		wantCode int
		wantMsg  string
	}{
		{"bad symbol", 400, `{"code":-1121,"msg":"Invalid symbol."}`, core.ErrorTypeBadRequest, -1121, "Invalid symbol."},
		{"too many requests", 429, `{"code":-1003,"msg":"Too many requests."}`, core.ErrorTypeRateLimit, -1003, "Too many requests."},
		{"bad signature", 400, `{"code":-1022,"msg":"Signature for this request is not valid."}`, core.ErrorTypeAuthentication, -1022, "Signature for this request is not valid."},
		{"unknown order", 400, `{"code":-2013,"msg":"Order does not exist."}`, core.ErrorTypeNotFound, -2013, "Order does not exist."},
		{"gateway html", 502, `<html>bad gateway</html>`, core.ErrorTypeServerError, 0, "<html>bad gateway</html>"},
		{"empty body", 503, ``, core.ErrorTypeServerError, 0, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			err := c.GetSigned(context.Background(), api.SpotAccount, nil, nil)
			require.Error(t, err)

			var apiErr *core.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, "/api/v3/account", apiErr.Endpoint)
			assert.Equal(t, tt.body, apiErr.Raw)
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"serverTime":`))
	}, nil)

	var st core.ServerTime
	err := c.Get(context.Background(), api.SpotTime, nil, &st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /api/v3/time")
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := New(testConfig(url).WithTimeout(time.Second), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer c.Close()

	err = c.Get(context.Background(), api.SpotPing, nil, nil)
	require.Error(t, err)
	assert.True(t, core.IsNetworkError(err))
}

func TestClient_UsedWeightHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MBX-USED-WEIGHT-1M", "42")
		w.Header().Set("X-MBX-ORDER-COUNT-10S", "3")
		w.Header().Set("X-MBX-ORDER-COUNT-1D", "17")
		_, _ = w.Write([]byte(`{}`))
	}, nil)

	assert.Zero(t, c.UsedWeight().Weight1m())
	require.NoError(t, c.Get(context.Background(), api.FuturesPing, nil, nil))

	usage := c.UsedWeight()
	assert.Equal(t, api.FamilyFutures, usage.Family)
	assert.Equal(t, int64(42), usage.Weight1m())
	assert.Equal(t, int64(3), usage.OrderCount10s())
	assert.Equal(t, int64(17), usage.OrderCount1d())
	assert.Equal(t, testClock(), usage.UpdatedAt)
}

func TestClient_Cache(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"timezone":"UTC","serverTime":1,"symbols":[]}`))
	}, func(cfg *core.Config) { cfg.WithCache(time.Minute) })

	for range 3 {
		var info core.ExchangeInfo
		req := core.Get(api.SpotExchangeInfo).SetCache(time.Minute)
		require.NoError(t, c.Do(context.Background(), req, &info))
		assert.Equal(t, "UTC", info.Timezone)
	}
	assert.Equal(t, int32(1), hits.Load())

	c.ClearCache()
	require.NoError(t, c.Do(context.Background(), core.Get(api.SpotExchangeInfo).SetCache(time.Minute), nil))
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_SyncTime(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/time", r.URL.Path)
		_, _ = w.Write([]byte(`{"serverTime":1700000001500}`))
	}, nil)

	offset, err := c.SyncTime(context.Background(), api.FamilyFutures)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, offset)
	assert.Equal(t, offset, c.TimeOffset())
	assert.Equal(t, int64(1700000001500), c.Now().UnixMilli())
}

func TestClient_SyncTimeAppliesToSigner(t *testing.T) {
	var lastQuery atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v3/time" {
			_, _ = w.Write([]byte(`{"serverTime":1699999999000}`))
			return
		}
		lastQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{}`))
	}, nil)

	require.NoError(t, c.GetSigned(context.Background(), api.SpotAccount, nil, nil))
	assert.Contains(t, lastQuery.Load(), "timestamp=1700000000000")

	_, err := c.SyncTime(context.Background(), api.FamilySpot)
	require.NoError(t, err)

	require.NoError(t, c.GetSigned(context.Background(), api.SpotAccount, nil, nil))
	assert.Contains(t, lastQuery.Load(), "timestamp=1699999999000")
}

func TestClient_CircuitBreaker(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *core.Config) { cfg.WithCircuitBreaker(2, 1, time.Hour) })

	for range 2 {
		err := c.Get(context.Background(), api.SpotPing, nil, nil)
		assert.True(t, core.IsServerError(err))
	}

	err := c.Get(context.Background(), api.SpotPing, nil, nil)
	assert.ErrorIs(t, err, core.ErrCircuitBreakerOpen)
	assert.Equal(t, int32(2), hits.Load())

	err = c.Get(context.Background(), api.FuturesPing, nil, nil)
	assert.True(t, core.IsServerError(err), "families have independent breakers")
}

func TestClient_BusinessErrorsDoNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-2010,"msg":"Account has insufficient balance for requested action."}`))
	}, func(cfg *core.Config) { cfg.WithCircuitBreaker(1, 1, time.Hour) })

	for range 3 {
		err := c.PostSigned(context.Background(), api.SpotOrder, nil, nil)
		assert.True(t, core.IsErrorCode(err, core.CodeNewOrderRejected))
	}
}

func TestClient_RateLimiter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, func(cfg *core.Config) { cfg.WithRateLimit(2) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, c.Do(ctx, core.Get(api.SpotPing).SetWeight(2), nil))
	err := c.Do(ctx, core.Get(api.SpotPing), nil)
	assert.Error(t, err, "budget is exhausted for the minute")

	require.NoError(t, c.Do(ctx, core.Get(api.FuturesPing), nil))
}

func TestClient_ApplyRateLimits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, func(cfg *core.Config) { cfg.WithRateLimit(2) })

	c.ApplyRateLimits(api.FamilySpot, []core.RateLimit{
		{RateLimitType: "ORDERS", Interval: "SECOND", IntervalNum: 10, Limit: 1},
		{RateLimitType: "REQUEST_WEIGHT", Interval: "MINUTE", IntervalNum: 1, Limit: 6000},
	})
	assert.InDelta(t, 6000, c.limiter.Tokens(api.FamilySpot.String()), 1)
	assert.InDelta(t, 2, c.limiter.Tokens(api.FamilyFutures.String()), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Do(ctx, core.Get(api.SpotPing).SetWeight(100), nil))

	t.Run("disabled limiter", func(t *testing.T) {
		plain := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
		assert.NotPanics(t, func() {
			plain.ApplyRateLimits(api.FamilySpot, []core.RateLimit{
				{RateLimitType: "REQUEST_WEIGHT", Interval: "MINUTE", IntervalNum: 1, Limit: 10},
			})
		})
	})
}

func TestClient_ObservedWeightDrainsLimiter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mbx-Used-Weight-1m", "80")
		_, _ = w.Write([]byte(`{}`))
	}, func(cfg *core.Config) { cfg.WithRateLimit(100) })

	require.NoError(t, c.Do(context.Background(), core.Get(api.SpotPing), nil))
	assert.InDelta(t, 20, c.limiter.Tokens(api.FamilySpot.String()), 1)
}

func TestClient_ResetCircuitBreaker(t *testing.T) {
	var healthy atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}, func(cfg *core.Config) { cfg.WithCircuitBreaker(1, 1, time.Hour) })

	assert.True(t, core.IsServerError(c.Get(context.Background(), api.SpotPing, nil, nil)))
	assert.ErrorIs(t, c.Get(context.Background(), api.SpotPing, nil, nil), core.ErrCircuitBreakerOpen)

	healthy.Store(true)
	c.ResetCircuitBreaker(api.FamilySpot)
	c.ResetCircuitBreaker(api.FamilyPortfolioMargin)
	assert.NoError(t, c.Get(context.Background(), api.SpotPing, nil, nil))
}

func TestClient_KeyRingRotation(t *testing.T) {
	var keys []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(auth.HeaderAPIKey)
		keys = append(keys, key)
		if key == "key-a" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":-2015,"msg":"Invalid API-key, IP, or permissions for action."}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}, nil, WithKeyRing(keyring.New([]keyring.Key{
		{ID: "a", APIKey: "key-a", SecretKey: "secret-a"},
		{ID: "b", APIKey: "key-b", SecretKey: "secret-b"},
	}, keyring.RotateOnError, zerolog.Nop())))

	err := c.GetSigned(context.Background(), api.SpotAccount, nil, nil)
	assert.True(t, core.IsAuthenticationError(err))

	require.NoError(t, c.GetSigned(context.Background(), api.SpotAccount, nil, nil))
	assert.Equal(t, []string{"key-a", "key-b"}, keys)
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MBX-USED-WEIGHT-1M", "10")
		_, _ = w.Write([]byte(`{}`))
	}, nil, WithMetrics(reg))

	require.NoError(t, c.Get(context.Background(), api.SpotPing, nil, nil))
	require.NotNil(t, c.Metrics())

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["nakula_requests_total"])
	assert.True(t, names["nakula_used_weight"])
}

func TestClient_Closed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Get(context.Background(), api.SpotPing, nil, nil), core.ErrClientClosed)
}

func TestClient_LogsRedactSignature(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, func(cfg *core.Config) { cfg.WithLogLevel("debug") }, WithLogger(logger))

	require.NoError(t, c.GetSigned(context.Background(), api.SpotAccount, nil, nil))
	assert.Contains(t, buf.String(), "http request")
	assert.Contains(t, buf.String(), "signature=%2A%2A%2A")
}
