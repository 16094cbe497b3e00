package websocket

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lxzan/gws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

// fakeExchange records subscription frames and pushes payloads to every
// open connection.
type fakeExchange struct {
	gws.BuiltinEventHandler

	upgrader *gws.Upgrader
	requests chan subscriptionRequest
	paths    chan string

	mu    sync.Mutex
	conns []*gws.Conn
}

func (f *fakeExchange) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	var req subscriptionRequest
	if err := sonic.Unmarshal(bytes.Clone(message.Bytes()), &req); err != nil {
		return
	}
	f.requests <- req
	_ = socket.WriteMessage(gws.OpcodeText, []byte(`{"result":null,"id":`+itoa(req.ID)+`}`))
}

func itoa(id int64) string {
	b, _ := sonic.Marshal(id)
	return string(b)
}

func (f *fakeExchange) push(t *testing.T, payload string) {
	t.Helper()
	f.mu.Lock()
	conn := f.conns[len(f.conns)-1]
	f.mu.Unlock()
	require.NoError(t, conn.WriteMessage(gws.OpcodeText, []byte(payload)))
}

func (f *fakeExchange) dropAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns {
		_ = c.NetConn().Close()
	}
}

func (f *fakeExchange) connections() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

func newFakeExchange(t *testing.T) (*fakeExchange, string) {
	t.Helper()
	f := &fakeExchange{
		requests: make(chan subscriptionRequest, 16),
		paths:    make(chan string, 4),
	}
	f.upgrader = gws.NewUpgrader(f, &gws.ServerOption{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket, err := f.upgrader.Upgrade(w, r)
		if err != nil {
			return
		}
		f.paths <- r.URL.Path
		f.mu.Lock()
		f.conns = append(f.conns, socket)
		f.mu.Unlock()
		go socket.ReadLoop()
	}))
	t.Cleanup(server.Close)
	return f, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func nextRequest(t *testing.T, f *fakeExchange) subscriptionRequest {
	t.Helper()
	select {
	case req := <-f.requests:
		return req
	case <-time.After(5 * time.Second):
		t.Fatal("no subscription request received")
		return subscriptionRequest{}
	}
}

func TestStream_SubscribeBeforeAndAfterConnect(t *testing.T) {
	f, url := newFakeExchange(t)

	s, err := New(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Subscribe(AggTradeStream("BTCUSDT"), AggTradeStream("BTCUSDT")))
	require.NoError(t, s.Connect(context.Background()))

	req := nextRequest(t, f)
	assert.Equal(t, methodSubscribe, req.Method)
	assert.Equal(t, []string{"btcusdt@aggTrade"}, req.Params)

	require.NoError(t, s.Subscribe(KlineStream("ETHUSDT", core.Interval1h), AggTradeStream("BTCUSDT")))
	req = nextRequest(t, f)
	assert.Equal(t, []string{"ethusdt@kline_1h"}, req.Params)
	assert.Equal(t, int64(2), req.ID)

	require.NoError(t, s.Unsubscribe("btcusdt@aggTrade", "unknown@trade"))
	req = nextRequest(t, f)
	assert.Equal(t, methodUnsubscribe, req.Method)
	assert.Equal(t, []string{"btcusdt@aggTrade"}, req.Params)
	assert.Equal(t, []string{"ethusdt@kline_1h"}, s.Streams())
}

func TestStream_SubscribeValidation(t *testing.T) {
	s, err := New("wss://stream.binance.com/ws")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Subscribe(), core.ErrInvalidParameter)
	assert.ErrorIs(t, s.Subscribe("btcusdt@trade", ""), core.ErrInvalidParameter)
	assert.Empty(t, s.Streams())

	names := make([]string, MaxStreams+1)
	for i := range names {
		names[i] = TradeStream("S" + itoa(int64(i)))
	}
	assert.ErrorIs(t, s.Subscribe(names...), core.ErrInvalidParameter)
}

func TestStream_DispatchesTypedEvents(t *testing.T) {
	f, url := newFakeExchange(t)

	s, err := New(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	trades := make(chan *AggTradeEvent, 1)
	marks := make(chan *MarkPriceEvent, 2)
	errs := make(chan error, 2)
	var (
		mu    sync.Mutex
		types []string
	)
	s.OnAggTrade(func(e *AggTradeEvent) { trades <- e })
	s.OnMarkPrice(func(e *MarkPriceEvent) { marks <- e })
	s.OnError(func(err error) { errs <- err })
	s.OnEvent(func(e Event) {
		mu.Lock()
		types = append(types, e.EventType())
		mu.Unlock()
	})

	require.NoError(t, s.Connect(context.Background()))
	require.Eventually(t, func() bool { return f.connections() == 1 }, 5*time.Second, 10*time.Millisecond)

	f.push(t, `{"stream":"btcusdt@aggTrade","data":{"e":"aggTrade","E":1,"s":"BTCUSDT","a":9,"p":"1","q":"2","f":1,"l":1,"T":1,"m":false}}`)
	select {
	case e := <-trades:
		assert.Equal(t, int64(9), e.AggTradeID)
	case <-time.After(5 * time.Second):
		t.Fatal("agg trade not dispatched")
	}

	f.push(t, `[{"e":"markPriceUpdate","E":1,"s":"BTCUSDT","p":"1","i":"1","P":"1","r":"0","T":2},{"e":"markPriceUpdate","E":1,"s":"ETHUSDT","p":"2","i":"2","P":"2","r":"0","T":2}]`)
	for _, want := range []string{"BTCUSDT", "ETHUSDT"} {
		select {
		case e := <-marks:
			assert.Equal(t, want, e.Symbol)
		case <-time.After(5 * time.Second):
			t.Fatal("mark price not dispatched")
		}
	}

	f.push(t, `{"error":{"code":2,"msg":"Invalid request"},"id":9}`)
	f.push(t, `garbage`)
	for range 2 {
		select {
		case err := <-errs:
			assert.Error(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("error not reported")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{EventAggTrade, EventMarkPrice, EventMarkPrice, EventResponse}, types)
}

func TestStream_ResubscribesAfterReconnect(t *testing.T) {
	f, url := newFakeExchange(t)

	s, err := New(url, WithReconnect(10*time.Millisecond, 50*time.Millisecond, 0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Connect(context.Background()))
	require.NoError(t, s.Subscribe(BookTickerStream("BTCUSDT"), DepthStream("BTCUSDT", 0, 100*time.Millisecond)))
	first := nextRequest(t, f)
	assert.Len(t, first.Params, 2)

	f.dropAll()

	replay := nextRequest(t, f)
	assert.Equal(t, methodSubscribe, replay.Method)
	assert.Equal(t, []string{"btcusdt@bookTicker", "btcusdt@depth@100ms"}, replay.Params)
	assert.Greater(t, replay.ID, first.ID)
	require.Eventually(t, func() bool { return s.State() == StateConnected }, 5*time.Second, 10*time.Millisecond)
}

func TestNewUserStream(t *testing.T) {
	f, url := newFakeExchange(t)

	_, err := NewUserStream(url, "")
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	s, err := NewUserStream(url+"/", "pqia91ma19a5s61cv6a81va65sdf19v8a65a1a5s61cv6a81va65sdf19v8a65a1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.True(t, strings.HasSuffix(s.URL(), "/ws/pqia91ma19a5s61cv6a81va65sdf19v8a65a1a5s61cv6a81va65sdf19v8a65a1"))

	updates := make(chan *OrderTradeUpdateEvent, 1)
	s.OnOrderTradeUpdate(func(e *OrderTradeUpdateEvent) { updates <- e })
	require.NoError(t, s.Connect(context.Background()))

	select {
	case path := <-f.paths:
		assert.Equal(t, "/ws/pqia91ma19a5s61cv6a81va65sdf19v8a65a1a5s61cv6a81va65sdf19v8a65a1", path)
	case <-time.After(5 * time.Second):
		t.Fatal("no connection")
	}

	f.push(t, `{"e":"ORDER_TRADE_UPDATE","E":1,"T":1,"o":{"s":"BTCUSDT","c":"x","S":"BUY","o":"MARKET","X":"FILLED","i":1,"ps":"BOTH"}}`)
	select {
	case e := <-updates:
		assert.Equal(t, core.StatusFilled, e.Order.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("order update not dispatched")
	}
}
