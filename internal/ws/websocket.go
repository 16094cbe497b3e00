// Package ws is the websocket transport under the stream API: one gws
// connection with keepalive, reconnect and a raw message callback.
package ws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/lxzan/gws"
	"github.com/rs/zerolog"

	"nakula/internal/metrics"
	"nakula/pkg/core"
)

// Config is the connection policy of a Client. Zero durations take the
// defaults of DefaultConfig.
type Config struct {
	URL               string        `validate:"required,url"`
	ReconnectEnabled  bool          `validate:"-"`
	ReconnectBaseWait time.Duration `validate:"gte=0"`
	ReconnectMaxWait  time.Duration `validate:"gte=0"`
	// MaxReconnectAttempts bounds one reconnect cycle. Zero retries until
	// Close.
	MaxReconnectAttempts uint64        `validate:"-"`
	PingInterval         time.Duration `validate:"gte=0"`
	PongWait             time.Duration `validate:"gte=0"`
	HandshakeTimeout     time.Duration `validate:"gte=0"`
}

func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		ReconnectEnabled:  true,
		ReconnectBaseWait: time.Second,
		ReconnectMaxWait:  30 * time.Second,
		PingInterval:      30 * time.Second,
		PongWait:          60 * time.Second,
		HandshakeTimeout:  10 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig(c.URL)
	if c.ReconnectBaseWait == 0 {
		c.ReconnectBaseWait = def.ReconnectBaseWait
	}
	if c.ReconnectMaxWait == 0 {
		c.ReconnectMaxWait = def.ReconnectMaxWait
	}
	if c.PingInterval == 0 {
		c.PingInterval = def.PingInterval
	}
	if c.PongWait == 0 {
		c.PongWait = def.PongWait
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
}

// MessageHandler receives every data frame. The slice is owned by the
// handler.
type MessageHandler func(data []byte)

// ConnectHook runs after every successful dial, including reconnects.
type ConnectHook func(ctx context.Context) error

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithMessageHandler(h MessageHandler) Option {
	return func(c *Client) { c.handler = h }
}

func WithOnConnect(hook ConnectHook) Option {
	return func(c *Client) { c.onConnect = hook }
}

// Client owns at most one live connection at a time. After an unexpected
// close it redials with exponential backoff and runs the connect hook again.
type Client struct {
	config    Config
	state     State
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	handler   MessageHandler
	onConnect ConnectHook

	mu   sync.RWMutex
	conn *gws.Conn
	stop chan struct{}
	wg   sync.WaitGroup
}

var validate = validator.New()

func New(config Config, opts ...Option) (*Client, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err)
	}
	config.applyDefaults()

	c := &Client{
		config: config,
		logger: zerolog.Nop(),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Store(StateDisconnected)
	return c, nil
}

func (c *Client) URL() string {
	return c.config.URL
}

func (c *Client) State() ConnState {
	return c.state.Load()
}

func (c *Client) IsConnected() bool {
	return c.state.Load() == StateConnected
}

// Connect dials the configured URL and blocks until the connection is open
// or ctx is done. Connecting an already connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(StateDisconnected, StateConnecting) {
		switch current := c.state.Load(); current {
		case StateConnected:
			return nil
		case StateClosed:
			return core.ErrClientClosed
		default:
			return fmt.Errorf("invalid state for connect: %s", current)
		}
	}

	if err := c.dial(ctx); err != nil {
		c.state.CompareAndSwap(StateConnecting, StateDisconnected)
		return err
	}
	return nil
}

// Close stops reconnecting, closes the connection and waits for the read
// and keepalive goroutines. It is safe to call more than once.
func (c *Client) Close() error {
	if c.state.Swap(StateClosed) == StateClosed {
		return nil
	}
	close(c.stop)

	c.mu.Lock()
	socket := c.conn
	c.conn = nil
	c.mu.Unlock()

	if socket != nil {
		socket.WriteClose(1000, nil)
		_ = socket.NetConn().Close()
	}

	c.wg.Wait()
	return nil
}

func (c *Client) WriteMessage(data []byte) error {
	c.mu.RLock()
	socket := c.conn
	c.mu.RUnlock()

	if socket == nil || c.state.Load() != StateConnected {
		return core.ErrNotConnected
	}
	return socket.WriteMessage(gws.OpcodeText, data)
}

func (c *Client) WriteJSON(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return c.WriteMessage(data)
}

func (c *Client) dial(ctx context.Context) error {
	h := &connHandler{
		client: c,
		opened: make(chan struct{}),
		closed: make(chan struct{}),
	}
	socket, _, err := gws.NewClient(h, &gws.ClientOption{
		Addr:             c.config.URL,
		HandshakeTimeout: c.config.HandshakeTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect websocket: %w", err)
	}

	c.mu.Lock()
	c.conn = socket
	c.mu.Unlock()
	c.wg.Go(socket.ReadLoop)

	select {
	case <-h.opened:
	case <-ctx.Done():
		c.drop(socket)
		return ctx.Err()
	case <-c.stop:
		c.drop(socket)
		return core.ErrClientClosed
	}

	if !c.state.CompareAndSwap(StateConnecting, StateConnected) &&
		!c.state.CompareAndSwap(StateReconnecting, StateConnected) {
		c.drop(socket)
		return core.ErrClientClosed
	}
	c.wg.Go(func() { c.keepAlive(socket, h.closed) })
	c.logger.Info().Str("url", c.config.URL).Msg("websocket connected")

	if c.onConnect != nil {
		if err := c.onConnect(ctx); err != nil {
			c.logger.Error().Err(err).Str("url", c.config.URL).Msg("connect hook failed")
		}
	}
	return nil
}

// drop forgets socket without triggering a reconnect.
func (c *Client) drop(socket *gws.Conn) {
	c.mu.Lock()
	if c.conn == socket {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = socket.NetConn().Close()
}

func (c *Client) handleClose(socket *gws.Conn, err error) {
	c.mu.Lock()
	current := c.conn == socket
	if current {
		c.conn = nil
	}
	c.mu.Unlock()

	if !current || !c.state.CompareAndSwap(StateConnected, StateDisconnected) {
		return
	}

	c.logger.Warn().Err(err).Str("url", c.config.URL).Msg("websocket disconnected")
	if c.config.ReconnectEnabled {
		c.wg.Go(c.reconnect)
	}
}

func (c *Client) reconnect() {
	if !c.state.CompareAndSwap(StateDisconnected, StateReconnecting) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	attempt := 0
	operation := func() error {
		attempt++
		dialCtx, dialCancel := context.WithTimeout(ctx, c.config.HandshakeTimeout)
		defer dialCancel()

		err := c.dial(dialCtx)
		if errors.Is(err, core.ErrClientClosed) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Str("url", c.config.URL).
			Msg("reconnect failed")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(c.backOff(), ctx), notify); err != nil {
		if c.state.CompareAndSwap(StateReconnecting, StateDisconnected) {
			c.logger.Error().Err(err).Int("attempts", attempt).Str("url", c.config.URL).Msg("reconnect gave up")
		}
		return
	}

	c.metrics.ObserveReconnect(c.config.URL)
	c.logger.Info().Int("attempts", attempt).Str("url", c.config.URL).Msg("reconnected")
}

func (c *Client) backOff() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.ReconnectBaseWait
	policy.MaxInterval = c.config.ReconnectMaxWait
	policy.MaxElapsedTime = 0
	if c.config.MaxReconnectAttempts > 0 {
		return backoff.WithMaxRetries(policy, c.config.MaxReconnectAttempts)
	}
	return policy
}

func (c *Client) keepAlive(socket *gws.Conn, closed <-chan struct{}) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := socket.WritePing(nil); err != nil {
				c.logger.Debug().Err(err).Str("url", c.config.URL).Msg("websocket ping failed")
				return
			}
		case <-closed:
			return
		case <-c.stop:
			return
		}
	}
}

func (c *Client) touch(socket *gws.Conn) {
	_ = socket.SetDeadline(time.Now().Add(c.config.PingInterval + c.config.PongWait))
}

// connHandler receives the gws events of one dial.
type connHandler struct {
	client *Client
	opened chan struct{}
	closed chan struct{}
}

func (h *connHandler) OnOpen(socket *gws.Conn) {
	h.client.touch(socket)
	close(h.opened)
}

func (h *connHandler) OnClose(socket *gws.Conn, err error) {
	close(h.closed)
	h.client.handleClose(socket, err)
}

func (h *connHandler) OnPing(socket *gws.Conn, payload []byte) {
	h.client.touch(socket)
	_ = socket.WritePong(payload)
}

func (h *connHandler) OnPong(socket *gws.Conn, payload []byte) {
	h.client.touch(socket)
}

func (h *connHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	c := h.client
	c.touch(socket)

	data := message.Bytes()
	if len(data) == 0 {
		return
	}
	c.logger.Debug().Int("size", len(data)).Str("url", c.config.URL).Msg("websocket message")
	if c.handler != nil {
		c.handler(bytes.Clone(data))
	}
}
