// Package client executes Binance REST requests. It resolves the base URL of
// the endpoint's API family, signs or keys the request, applies the optional
// weight limiter and circuit breaker, and maps error bodies to
// *core.APIError.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"nakula/internal/circuitbreaker"
	ihttp "nakula/internal/http"
	"nakula/internal/metrics"
	"nakula/internal/ratelimit"
	"nakula/pkg/api"
	"nakula/pkg/auth"
	"nakula/pkg/core"
	"nakula/pkg/keyring"
)

const (
	headerUsedWeight = "X-Mbx-Used-Weight-"
	headerOrderCount = "X-Mbx-Order-Count-"
)

var families = []api.Family{
	api.FamilySpot,
	api.FamilyMargin,
	api.FamilyFutures,
	api.FamilyFuturesCM,
	api.FamilyPortfolioMargin,
}

// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	config   *core.Config
	http     *ihttp.Client
	logger   zerolog.Logger
	limiter  *ratelimit.Limiter
	breakers map[api.Family]*circuitbreaker.Breaker
	keys     *keyring.KeyRing
	metrics  *metrics.Metrics
	cache    *responseCache
	now      func() time.Time

	offset  atomic.Int64
	signers sync.Map // secret -> *auth.Signer

	usageMu sync.RWMutex
	usage   UsedWeight

	closed atomic.Bool
}

type options struct {
	logger    zerolog.Logger
	keys      *keyring.KeyRing
	registry  prometheus.Registerer
	now       func() time.Time
	transport nethttp.RoundTripper
}

// Option configures a Client.
type Option func(*options)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithKeyRing signs requests with keys drawn from ring instead of
// Config.Credentials.
func WithKeyRing(ring *keyring.KeyRing) Option {
	return func(o *options) { o.keys = ring }
}

// WithMetrics registers Prometheus collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// WithClock replaces the time source used for timestamps and the cache.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHTTPTransport overrides the round tripper of the underlying HTTP client.
func WithHTTPTransport(rt nethttp.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// New validates config and builds a Client.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := options{logger: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if config.LogLevel != "" {
		if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			logger = logger.Level(level)
		}
	}
	logger = logger.With().Str("component", "binance").Logger()

	httpClient, err := ihttp.NewClient(&ihttp.Config{
		Timeout:      config.Timeout,
		MaxRetries:   config.MaxRetries,
		RetryWaitMin: config.RetryWaitMin,
		RetryWaitMax: config.RetryWaitMax,
		Headers:      map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Logger:       logger,
		Transport:    o.transport,
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	c := &Client{
		config: config,
		http:   httpClient,
		logger: logger,
		keys:   o.keys,
		now:    o.now,
	}

	if o.registry != nil {
		m, err := metrics.New(o.registry)
		if err != nil {
			_ = httpClient.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		c.metrics = m
	}

	if config.RateLimitEnabled {
		c.limiter = ratelimit.New(config.RateLimitWeight, time.Minute)
	}

	if config.CircuitBreakerEnabled {
		c.breakers = make(map[api.Family]*circuitbreaker.Breaker, len(families))
		for _, family := range families {
			c.breakers[family] = c.newBreaker(family)
		}
	}

	if config.CacheTTL > 0 {
		c.cache = newResponseCache(o.now)
	}

	return c, nil
}

func (c *Client) newBreaker(family api.Family) *circuitbreaker.Breaker {
	b := circuitbreaker.New(circuitbreaker.Config{
		FailThreshold:    c.config.CircuitBreakerFailThreshold,
		SuccessThreshold: c.config.CircuitBreakerSuccessThreshold,
		Timeout:          c.config.CircuitBreakerTimeout,
		OnStateChange: func(from, to circuitbreaker.State) {
			c.logger.Warn().
				Str("family", family.String()).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
			c.metrics.SetBreakerState(family.String(), int(to))
		},
	})
	b.SetClock(c.now)
	return b
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *core.Config { return c.config }

// Logger returns the client logger.
func (c *Client) Logger() zerolog.Logger { return c.logger }

// Metrics returns the registered collectors, nil unless WithMetrics was used.
func (c *Client) Metrics() *metrics.Metrics { return c.metrics }

// Now returns the local time adjusted by the server time offset.
func (c *Client) Now() time.Time {
	return c.now().Add(c.TimeOffset())
}

// TimeOffset returns the last offset measured by SyncTime.
func (c *Client) TimeOffset() time.Duration {
	return time.Duration(c.offset.Load())
}

func (c *Client) signer(secret string) *auth.Signer {
	if s, ok := c.signers.Load(secret); ok {
		return s.(*auth.Signer)
	}
	s := auth.NewSigner(secret, c.config.RecvWindow)
	s.SetClock(c.now)
	s.SetTimeOffset(c.TimeOffset())
	actual, _ := c.signers.LoadOrStore(secret, s)
	return actual.(*auth.Signer)
}

type credential struct {
	id     string
	apiKey string
	secret string
}

func (c *Client) credential() (credential, error) {
	if c.keys != nil {
		key, err := c.keys.Next()
		if err != nil {
			return credential{}, fmt.Errorf("%w: %v", core.ErrNoCredentials, err)
		}
		return credential{id: key.ID, apiKey: key.APIKey, secret: key.SecretKey}, nil
	}
	creds := c.config.Credentials
	if creds == nil || creds.APIKey == "" {
		return credential{}, core.ErrNoCredentials
	}
	return credential{apiKey: creds.APIKey, secret: creds.SecretKey}, nil
}

// Do executes req and decodes a successful JSON body into out. A nil out
// discards the body.
func (c *Client) Do(ctx context.Context, req *core.Request, out any) error {
	if c.closed.Load() {
		return core.ErrClientClosed
	}
	if req.Endpoint == nil {
		return fmt.Errorf("%w: request has no endpoint", core.ErrInvalidParameter)
	}

	family := req.Endpoint.Family()
	path := req.Endpoint.Path()
	params := req.Params
	if params == nil {
		params = core.NewParams()
	}

	var cacheKey string
	if c.cache != nil && req.CacheTTL > 0 {
		cacheKey = req.CacheKey()
		if body, ok := c.cache.get(cacheKey); ok {
			c.logger.Debug().Str("endpoint", path).Msg("cache hit")
			return decode(path, body, out)
		}
	}

	var (
		cred  credential
		query string
		ropts []ihttp.RequestOption
	)
	switch req.Security {
	case core.SecuritySigned:
		var err error
		if cred, err = c.credential(); err != nil {
			return err
		}
		if cred.secret == "" {
			return core.ErrNoCredentials
		}
		query = c.signer(cred.secret).SignParams(params)
		ropts = append(ropts, ihttp.WithHeader(auth.HeaderAPIKey, cred.apiKey))
	case core.SecurityAPIKey:
		var err error
		if cred, err = c.credential(); err != nil {
			return err
		}
		query = params.Encode()
		ropts = append(ropts, ihttp.WithHeader(auth.HeaderAPIKey, cred.apiKey))
	default:
		query = params.Encode()
	}

	breaker := c.breakers[family]
	if breaker != nil && !breaker.Allow() {
		return fmt.Errorf("%s %s: %w", family, path, core.ErrCircuitBreakerOpen)
	}

	if c.limiter != nil {
		if err := c.limiter.WaitN(ctx, family.String(), req.Weight); err != nil {
			return err
		}
	}

	url := c.config.BaseURL(family) + path
	if query != "" {
		url += "?" + query
	}

	start := c.now()
	resp, err := c.http.Do(ctx, req.Method, url, ropts...)
	if err != nil {
		if breaker != nil {
			breaker.Record(false)
		}
		c.metrics.ObserveRequest(family.String(), req.Method, path, 0, c.now().Sub(start))
		return core.NewTransportError(transportErrorType(err), path, err)
	}

	status := resp.StatusCode()
	c.metrics.ObserveRequest(family.String(), req.Method, path, status, resp.Duration())
	c.observeUsage(family, resp.Header())
	if breaker != nil {
		breaker.Record(status < nethttp.StatusInternalServerError)
	}

	body := resp.Bytes()
	if resp.IsError() {
		apiErr := parseError(status, path, body)
		c.metrics.ObserveAPIError(family.String(), apiErr.Code)
		if c.keys != nil && cred.id != "" && rejectsKey(apiErr) {
			c.keys.ReportError(cred.id, apiErr)
		}
		c.logger.Debug().
			Str("endpoint", path).
			Int("status", status).
			Int("code", apiErr.Code).
			Str("msg", apiErr.Message).
			Msg("api error")
		return apiErr
	}

	if cacheKey != "" {
		c.cache.set(cacheKey, body, req.CacheTTL)
	}
	return decode(path, body, out)
}

func decode(path string, body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

type errorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func parseError(status int, path string, body []byte) *core.APIError {
	var eb errorBody
	if err := sonic.Unmarshal(body, &eb); err != nil || (eb.Code == 0 && eb.Msg == "") {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = nethttp.StatusText(status)
		}
		apiErr := core.NewAPIError(status, 0, msg, path)
		apiErr.Raw = string(body)
		return apiErr
	}
	apiErr := core.NewAPIError(status, eb.Code, eb.Msg, path)
	apiErr.Raw = string(body)
	return apiErr
}

func transportErrorType(err error) core.ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.ErrorTypeTimeout
	}
	return core.ErrorTypeNetwork
}

func rejectsKey(err *core.APIError) bool {
	return err.Code == core.CodeTooManyOrders || err.Type == core.ErrorTypeAuthentication
}

// UsedWeight is the latest rate limit usage reported in response headers.
type UsedWeight struct {
	Family api.Family
	// Weight maps the interval suffix ("1m") to used request weight.
	Weight map[string]int64
	// Orders maps the interval suffix ("10s", "1d") to the order count.
	Orders    map[string]int64
	UpdatedAt time.Time
}

// Weight1m returns the used weight over the last minute.
func (u UsedWeight) Weight1m() int64 { return u.Weight["1m"] }

// OrderCount10s returns the order count over the last ten seconds.
func (u UsedWeight) OrderCount10s() int64 { return u.Orders["10s"] }

// OrderCount1d returns the order count over the last day.
func (u UsedWeight) OrderCount1d() int64 { return u.Orders["1d"] }

func (c *Client) observeUsage(family api.Family, header nethttp.Header) {
	usage := UsedWeight{
		Family:    family,
		Weight:    make(map[string]int64),
		Orders:    make(map[string]int64),
		UpdatedAt: c.now(),
	}
	for name, values := range header {
		if len(values) == 0 {
			continue
		}
		canonical := nethttp.CanonicalHeaderKey(name)
		var (
			interval string
			target   map[string]int64
		)
		switch {
		case strings.HasPrefix(canonical, headerUsedWeight):
			interval, target = strings.ToLower(strings.TrimPrefix(canonical, headerUsedWeight)), usage.Weight
		case strings.HasPrefix(canonical, headerOrderCount):
			interval, target = strings.ToLower(strings.TrimPrefix(canonical, headerOrderCount)), usage.Orders
		default:
			continue
		}
		n, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil {
			continue
		}
		target[interval] = n
	}
	if len(usage.Weight) == 0 && len(usage.Orders) == 0 {
		return
	}

	for interval, n := range usage.Weight {
		c.metrics.SetUsedWeight(family.String(), interval, n)
	}
	for interval, n := range usage.Orders {
		c.metrics.SetOrderCount(family.String(), interval, n)
	}
	if c.limiter != nil {
		c.limiter.Observe(family.String(), usage.Weight1m())
	}

	c.usageMu.Lock()
	c.usage = usage
	c.usageMu.Unlock()
}

// UsedWeight returns the most recent usage snapshot.
func (c *Client) UsedWeight() UsedWeight {
	c.usageMu.RLock()
	defer c.usageMu.RUnlock()
	return c.usage
}

// SyncTime measures the difference between the family's server clock and
// the local clock and applies it to every signed request.
func (c *Client) SyncTime(ctx context.Context, family api.Family) (time.Duration, error) {
	var endpoint api.Endpoint
	switch family {
	case api.FamilyFutures:
		endpoint = api.FuturesTime
	case api.FamilyFuturesCM:
		endpoint = api.FuturesCMTime
	default:
		endpoint = api.SpotTime
	}

	before := c.now()
	var st core.ServerTime
	if err := c.Do(ctx, core.Get(endpoint), &st); err != nil {
		return 0, err
	}
	after := c.now()

	local := before.Add(after.Sub(before) / 2)
	offset := st.ServerTime.Time().Sub(local)
	c.setTimeOffset(offset)

	c.logger.Debug().Str("family", family.String()).Dur("offset", offset).Msg("server time synced")
	return offset, nil
}

func (c *Client) setTimeOffset(offset time.Duration) {
	c.offset.Store(int64(offset))
	c.signers.Range(func(_, v any) bool {
		v.(*auth.Signer).SetTimeOffset(offset)
		return true
	})
}

// ApplyRateLimits adopts the REQUEST_WEIGHT limits published by a family's
// exchangeInfo. Binance publishes one such entry per family; only the first
// is used. It is a no-op when the limiter is disabled.
func (c *Client) ApplyRateLimits(family api.Family, limits []core.RateLimit) {
	if c.limiter == nil {
		return
	}
	for _, rl := range limits {
		if rl.RateLimitType != "REQUEST_WEIGHT" || rl.Limit <= 0 || rl.IntervalNum <= 0 {
			continue
		}
		unit, ok := rateLimitIntervals[rl.Interval]
		if !ok {
			continue
		}
		period := time.Duration(rl.IntervalNum) * unit
		if c.limiter.SetLimit(family.String(), int(rl.Limit), period) {
			c.logger.Debug().
				Str("family", family.String()).
				Int64("limit", rl.Limit).
				Dur("period", period).
				Msg("rate limit updated")
		}
		return
	}
}

var rateLimitIntervals = map[string]time.Duration{
	"SECOND": time.Second,
	"MINUTE": time.Minute,
	"HOUR":   time.Hour,
	"DAY":    24 * time.Hour,
}

// ResetCircuitBreaker closes the breaker of one family, for example after an
// outage announced by the exchange has ended.
func (c *Client) ResetCircuitBreaker(family api.Family) {
	if b := c.breakers[family]; b != nil {
		b.Reset()
	}
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// Close releases the HTTP client. Further calls fail with core.ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.ClearCache()
	return c.http.Close()
}

func (c *Client) Get(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Get(endpoint).SetParams(params), out)
}

func (c *Client) GetKeyed(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Get(endpoint).SetParams(params).Keyed(), out)
}

func (c *Client) GetSigned(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Get(endpoint).SetParams(params).Signed(), out)
}

func (c *Client) Post(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Post(endpoint).SetParams(params), out)
}

func (c *Client) PostKeyed(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Post(endpoint).SetParams(params).Keyed(), out)
}

func (c *Client) PostSigned(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Post(endpoint).SetParams(params).Signed(), out)
}

func (c *Client) PutKeyed(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Put(endpoint).SetParams(params).Keyed(), out)
}

func (c *Client) DeleteKeyed(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Delete(endpoint).SetParams(params).Keyed(), out)
}

func (c *Client) DeleteSigned(ctx context.Context, endpoint api.Endpoint, params core.Params, out any) error {
	return c.Do(ctx, core.Delete(endpoint).SetParams(params).Signed(), out)
}
