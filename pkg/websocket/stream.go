// Package websocket is the market and user data stream API. A Stream owns
// one connection, keeps its subscription list across reconnects and routes
// decoded events to typed handlers.
package websocket

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"nakula/internal/metrics"
	"nakula/internal/ws"
	"nakula/pkg/core"
)

type ConnState = ws.ConnState

const (
	StateDisconnected = ws.StateDisconnected
	StateConnecting   = ws.StateConnecting
	StateConnected    = ws.StateConnected
	StateReconnecting = ws.StateReconnecting
	StateClosed       = ws.StateClosed
)

// MaxStreams is the exchange limit of streams on one connection.
const MaxStreams = 1024

const (
	methodSubscribe   = "SUBSCRIBE"
	methodUnsubscribe = "UNSUBSCRIBE"
)

type options struct {
	config  ws.Config
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

type Option func(*options)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics counts decoded events and reconnects on m. A nil m disables
// both.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithReconnect sets the reconnect backoff. maxAttempts 0 retries until
// Close.
func WithReconnect(baseWait, maxWait time.Duration, maxAttempts uint64) Option {
	return func(o *options) {
		o.config.ReconnectEnabled = true
		o.config.ReconnectBaseWait = baseWait
		o.config.ReconnectMaxWait = maxWait
		o.config.MaxReconnectAttempts = maxAttempts
	}
}

func WithoutReconnect() Option {
	return func(o *options) { o.config.ReconnectEnabled = false }
}

// WithKeepAlive sets the client ping interval and how long to wait for any
// frame after it before the connection is considered dead.
func WithKeepAlive(pingInterval, pongWait time.Duration) Option {
	return func(o *options) {
		o.config.PingInterval = pingInterval
		o.config.PongWait = pongWait
	}
}

type handlers struct {
	kline            func(*KlineEvent)
	aggTrade         func(*AggTradeEvent)
	trade            func(*TradeEvent)
	depth            func(*DepthEvent)
	depthSnapshot    func(*DepthSnapshotEvent)
	bookTicker       func(*BookTickerEvent)
	markPrice        func(*MarkPriceEvent)
	accountUpdate    func(*AccountUpdateEvent)
	orderTradeUpdate func(*OrderTradeUpdateEvent)
	executionReport  func(*ExecutionReportEvent)
	listenKeyExpired func(*ListenKeyExpiredEvent)
	event            func(Event)
	err              func(error)
}

type subscriptionRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

type Stream struct {
	client  *ws.Client
	logger  zerolog.Logger
	metrics *metrics.Metrics
	nextID  atomic.Int64

	mu       sync.RWMutex
	streams  []string
	handlers handlers
}

// New returns a stream on url. Nothing is dialed until Connect.
func New(url string, opts ...Option) (*Stream, error) {
	o := options{
		config: ws.DefaultConfig(url),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Stream{
		logger:  o.logger.With().Str("component", "stream").Logger(),
		metrics: o.metrics,
	}
	client, err := ws.New(o.config,
		ws.WithLogger(s.logger),
		ws.WithMetrics(o.metrics),
		ws.WithMessageHandler(s.handleMessage),
		ws.WithOnConnect(s.resubscribe))
	if err != nil {
		return nil, err
	}
	s.client = client
	return s, nil
}

// NewUserStream returns a stream on the user data endpoint of listenKey,
// <url>/<listenKey>.
func NewUserStream(url, listenKey string, opts ...Option) (*Stream, error) {
	if listenKey == "" {
		return nil, fmt.Errorf("%w: listen key is required", core.ErrInvalidParameter)
	}
	return New(strings.TrimRight(url, "/")+"/"+listenKey, opts...)
}

func (s *Stream) Connect(ctx context.Context) error {
	return s.client.Connect(ctx)
}

func (s *Stream) Close() error {
	return s.client.Close()
}

func (s *Stream) State() ConnState {
	return s.client.State()
}

func (s *Stream) URL() string {
	return s.client.URL()
}

// Streams returns the active subscriptions in subscription order.
func (s *Stream) Streams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.streams)
}

// Subscribe adds streams to the subscription list. While connected the new
// names are sent at once; otherwise they go out on the next connect.
func (s *Stream) Subscribe(streams ...string) error {
	if len(streams) == 0 {
		return fmt.Errorf("%w: no streams", core.ErrInvalidParameter)
	}

	s.mu.Lock()
	var added []string
	for _, name := range streams {
		if name == "" {
			s.mu.Unlock()
			return fmt.Errorf("%w: empty stream name", core.ErrInvalidParameter)
		}
		if !slices.Contains(s.streams, name) && !slices.Contains(added, name) {
			added = append(added, name)
		}
	}
	if len(s.streams)+len(added) > MaxStreams {
		s.mu.Unlock()
		return fmt.Errorf("%w: more than %d streams", core.ErrInvalidParameter, MaxStreams)
	}
	s.streams = append(s.streams, added...)
	s.mu.Unlock()

	if len(added) == 0 || !s.client.IsConnected() {
		return nil
	}
	return s.send(methodSubscribe, added)
}

// Unsubscribe removes streams from the subscription list, sending
// UNSUBSCRIBE while connected.
func (s *Stream) Unsubscribe(streams ...string) error {
	s.mu.Lock()
	var removed []string
	s.streams = slices.DeleteFunc(s.streams, func(name string) bool {
		if slices.Contains(streams, name) {
			removed = append(removed, name)
			return true
		}
		return false
	})
	s.mu.Unlock()

	if len(removed) == 0 || !s.client.IsConnected() {
		return nil
	}
	return s.send(methodUnsubscribe, removed)
}

func (s *Stream) send(method string, streams []string) error {
	req := subscriptionRequest{Method: method, Params: streams, ID: s.nextID.Add(1)}
	if err := s.client.WriteJSON(req); err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(method), err)
	}
	s.logger.Debug().Str("method", method).Strs("streams", streams).Int64("id", req.ID).Msg("stream request sent")
	return nil
}

func (s *Stream) resubscribe(ctx context.Context) error {
	streams := s.Streams()
	if len(streams) == 0 {
		return nil
	}
	return s.send(methodSubscribe, streams)
}

func (s *Stream) OnKline(h func(*KlineEvent)) {
	s.mu.Lock()
	s.handlers.kline = h
	s.mu.Unlock()
}

func (s *Stream) OnAggTrade(h func(*AggTradeEvent)) {
	s.mu.Lock()
	s.handlers.aggTrade = h
	s.mu.Unlock()
}

func (s *Stream) OnTrade(h func(*TradeEvent)) {
	s.mu.Lock()
	s.handlers.trade = h
	s.mu.Unlock()
}

// OnDepth receives diff depth updates. Partial book frames without an event
// type go to OnDepthSnapshot.
func (s *Stream) OnDepth(h func(*DepthEvent)) {
	s.mu.Lock()
	s.handlers.depth = h
	s.mu.Unlock()
}

func (s *Stream) OnDepthSnapshot(h func(*DepthSnapshotEvent)) {
	s.mu.Lock()
	s.handlers.depthSnapshot = h
	s.mu.Unlock()
}

func (s *Stream) OnBookTicker(h func(*BookTickerEvent)) {
	s.mu.Lock()
	s.handlers.bookTicker = h
	s.mu.Unlock()
}

func (s *Stream) OnMarkPrice(h func(*MarkPriceEvent)) {
	s.mu.Lock()
	s.handlers.markPrice = h
	s.mu.Unlock()
}

func (s *Stream) OnAccountUpdate(h func(*AccountUpdateEvent)) {
	s.mu.Lock()
	s.handlers.accountUpdate = h
	s.mu.Unlock()
}

func (s *Stream) OnOrderTradeUpdate(h func(*OrderTradeUpdateEvent)) {
	s.mu.Lock()
	s.handlers.orderTradeUpdate = h
	s.mu.Unlock()
}

func (s *Stream) OnExecutionReport(h func(*ExecutionReportEvent)) {
	s.mu.Lock()
	s.handlers.executionReport = h
	s.mu.Unlock()
}

func (s *Stream) OnListenKeyExpired(h func(*ListenKeyExpiredEvent)) {
	s.mu.Lock()
	s.handlers.listenKeyExpired = h
	s.mu.Unlock()
}

// OnEvent receives every decoded event after its typed handler, including
// responses and events without a typed handler.
func (s *Stream) OnEvent(h func(Event)) {
	s.mu.Lock()
	s.handlers.event = h
	s.mu.Unlock()
}

// OnError receives undecodable frames and rejected stream requests.
func (s *Stream) OnError(h func(error)) {
	s.mu.Lock()
	s.handlers.err = h
	s.mu.Unlock()
}

func (s *Stream) handleMessage(data []byte) {
	event, err := ParseEvent(data)
	if err != nil {
		s.logger.Warn().Err(err).Int("size", len(data)).Msg("dropping stream frame")
		s.reportError(err)
		return
	}
	s.dispatch(event)
}

func (s *Stream) reportError(err error) {
	s.mu.RLock()
	h := s.handlers.err
	s.mu.RUnlock()
	if h != nil {
		h(err)
	}
}

func (s *Stream) dispatch(event Event) {
	if batch, ok := event.(EventBatch); ok {
		for _, e := range batch {
			s.dispatch(e)
		}
		return
	}

	s.metrics.ObserveStreamMessage(event.EventType())

	s.mu.RLock()
	h := s.handlers
	s.mu.RUnlock()

	switch e := event.(type) {
	case *KlineEvent:
		call(h.kline, e)
	case *AggTradeEvent:
		call(h.aggTrade, e)
	case *TradeEvent:
		call(h.trade, e)
	case *DepthEvent:
		call(h.depth, e)
	case *DepthSnapshotEvent:
		call(h.depthSnapshot, e)
	case *BookTickerEvent:
		call(h.bookTicker, e)
	case *MarkPriceEvent:
		call(h.markPrice, e)
	case *AccountUpdateEvent:
		call(h.accountUpdate, e)
	case *OrderTradeUpdateEvent:
		call(h.orderTradeUpdate, e)
	case *ExecutionReportEvent:
		call(h.executionReport, e)
	case *ListenKeyExpiredEvent:
		s.logger.Warn().Msg("listen key expired")
		call(h.listenKeyExpired, e)
	case *Response:
		if e.Error != nil {
			s.logger.Error().Int64("id", e.ID).Int("code", e.Error.Code).Str("msg", e.Error.Msg).Msg("stream request rejected")
			call(h.err, error(e.Error))
		}
	}
	call(h.event, event)
}

func call[T any](h func(T), v T) {
	if h != nil {
		h(v)
	}
}
