// Package binance is the entry point of the library. New builds one shared
// REST client and exposes every API family on top of it, plus constructors
// for market and user data streams.
package binance

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"

	"nakula/pkg/api"
	"nakula/pkg/client"
	"nakula/pkg/core"
	"nakula/pkg/futures"
	"nakula/pkg/futurescm"
	"nakula/pkg/margin"
	"nakula/pkg/portfoliomargin"
	"nakula/pkg/spot"
	"nakula/pkg/websocket"
)

type SpotAPI struct {
	Market     *spot.Market
	Account    *spot.Account
	UserStream *client.UserStream
}

type MarginAPI struct {
	Account    *margin.Account
	UserStream *client.UserStream
}

type FuturesAPI struct {
	Market     *futures.Market
	Account    *futures.Account
	UserStream *client.UserStream
}

type FuturesCMAPI struct {
	Market     *futurescm.Market
	Account    *futurescm.Account
	UserStream *client.UserStream
}

type PortfolioMarginAPI struct {
	Account    *portfoliomargin.Account
	UserStream *client.UserStream
}

// Binance groups the per-family services. All of them share one client, so
// rate limits, the response cache and credentials are common.
type Binance struct {
	Spot            SpotAPI
	Margin          MarginAPI
	Futures         FuturesAPI
	FuturesCM       FuturesCMAPI
	PortfolioMargin PortfolioMarginAPI

	client *client.Client

	mu      sync.Mutex
	streams []*websocket.Stream
}

// New validates config and wires every family to a single client.
func New(config *core.Config, opts ...client.Option) (*Binance, error) {
	c, err := client.New(config, opts...)
	if err != nil {
		return nil, err
	}

	return &Binance{
		client: c,
		Spot: SpotAPI{
			Market:     spot.NewMarket(c),
			Account:    spot.NewAccount(c),
			UserStream: spot.NewUserStream(c),
		},
		Margin: MarginAPI{
			Account:    margin.NewAccount(c),
			UserStream: margin.NewUserStream(c),
		},
		Futures: FuturesAPI{
			Market:     futures.NewMarket(c),
			Account:    futures.NewAccount(c),
			UserStream: futures.NewUserStream(c),
		},
		FuturesCM: FuturesCMAPI{
			Market:     futurescm.NewMarket(c),
			Account:    futurescm.NewAccount(c),
			UserStream: futurescm.NewUserStream(c),
		},
		PortfolioMargin: PortfolioMarginAPI{
			Account:    portfoliomargin.NewAccount(c),
			UserStream: portfoliomargin.NewUserStream(c),
		},
	}, nil
}

func (b *Binance) Client() *client.Client {
	return b.client
}

// MarketStream returns an unconnected stream on the websocket host of
// family. It inherits the client logger and metrics; opts are applied after.
func (b *Binance) MarketStream(family api.Family, opts ...websocket.Option) (*websocket.Stream, error) {
	return b.track(websocket.New(b.client.Config().StreamURL(family), b.streamOptions(opts)...))
}

// UserDataStream returns an unconnected stream for listenKey, obtained from
// the UserStream of the same family.
func (b *Binance) UserDataStream(family api.Family, listenKey string, opts ...websocket.Option) (*websocket.Stream, error) {
	return b.track(websocket.NewUserStream(b.client.Config().UserStreamURL(family), listenKey, b.streamOptions(opts)...))
}

func (b *Binance) streamOptions(opts []websocket.Option) []websocket.Option {
	base := []websocket.Option{
		websocket.WithLogger(b.client.Logger()),
		websocket.WithMetrics(b.client.Metrics()),
	}
	return append(base, opts...)
}

func (b *Binance) track(s *websocket.Stream, err error) (*websocket.Stream, error) {
	if err != nil {
		return nil, fmt.Errorf("new stream: %w", err)
	}
	b.mu.Lock()
	b.streams = append(slices.DeleteFunc(b.streams, closed), s)
	b.mu.Unlock()
	return s, nil
}

// closed matches streams the caller already closed; they are no longer
// tracked.
func closed(s *websocket.Stream) bool {
	return s.State() == websocket.StateClosed
}

// Close closes every stream created through b and then the client.
func (b *Binance) Close() error {
	b.mu.Lock()
	streams := b.streams
	b.streams = nil
	b.mu.Unlock()

	var err error
	for _, s := range slices.DeleteFunc(streams, closed) {
		err = multierr.Append(err, s.Close())
	}
	return multierr.Append(err, b.client.Close())
}
