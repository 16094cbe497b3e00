package spot

import (
	"context"
	"fmt"

	"nakula/pkg/api"
	"nakula/pkg/client"
	"nakula/pkg/core"
)

// Account serves signed trading and account endpoints.
type Account struct {
	client *client.Client
}

func NewAccount(c *client.Client) *Account {
	return &Account{client: c}
}

// NewUserStream returns the listen key manager for spot user data.
func NewUserStream(c *client.Client) *client.UserStream {
	return client.NewUserStream(c, api.SpotUserDataStream)
}

func (a *Account) Information(ctx context.Context) (*AccountInformation, error) {
	var info AccountInformation
	if err := a.client.Do(ctx, core.Get(api.SpotAccount).Signed().SetWeight(20), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (a *Account) PlaceOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	params, err := req.Params()
	if err != nil {
		return nil, err
	}

	var resp OrderResponse
	if err := a.client.PostSigned(ctx, api.SpotOrder, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestOrder validates req on the exchange without sending it to the matching
// engine.
func (a *Account) TestOrder(ctx context.Context, req *OrderRequest) error {
	params, err := req.Params()
	if err != nil {
		return err
	}
	return a.client.PostSigned(ctx, api.SpotOrderTest, params, nil)
}

func (a *Account) LimitBuy(ctx context.Context, symbol string, qty, price core.Number) (*OrderResponse, error) {
	return a.limit(ctx, symbol, core.SideBuy, qty, price)
}

func (a *Account) LimitSell(ctx context.Context, symbol string, qty, price core.Number) (*OrderResponse, error) {
	return a.limit(ctx, symbol, core.SideSell, qty, price)
}

func (a *Account) limit(ctx context.Context, symbol string, side core.OrderSide, qty, price core.Number) (*OrderResponse, error) {
	req := NewOrderRequest(symbol, side, core.TypeLimit).
		WithQuantity(qty).
		WithPrice(price).
		WithTimeInForce(core.GTC)
	return a.PlaceOrder(ctx, req)
}

func (a *Account) MarketBuy(ctx context.Context, symbol string, qty core.Number) (*OrderResponse, error) {
	return a.PlaceOrder(ctx, NewOrderRequest(symbol, core.SideBuy, core.TypeMarket).WithQuantity(qty))
}

func (a *Account) MarketSell(ctx context.Context, symbol string, qty core.Number) (*OrderResponse, error) {
	return a.PlaceOrder(ctx, NewOrderRequest(symbol, core.SideSell, core.TypeMarket).WithQuantity(qty))
}

func (a *Account) QueryOrder(ctx context.Context, symbol string, orderID int64) (*Order, error) {
	params := core.NewParams().Set("symbol", symbol).SetInt64("orderId", orderID)

	var order Order
	if err := a.client.Do(ctx, core.Get(api.SpotOrder).SetParams(params).Signed().SetWeight(4), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *Account) CancelOrder(ctx context.Context, symbol string, orderID int64) (*Order, error) {
	return a.cancel(ctx, core.NewParams().Set("symbol", symbol).SetInt64("orderId", orderID))
}

func (a *Account) CancelOrderByClientID(ctx context.Context, symbol, clientOrderID string) (*Order, error) {
	if clientOrderID == "" {
		return nil, fmt.Errorf("%w: client order id is required", core.ErrInvalidParameter)
	}
	return a.cancel(ctx, core.NewParams().Set("symbol", symbol).Set("origClientOrderId", clientOrderID))
}

func (a *Account) cancel(ctx context.Context, params core.Params) (*Order, error) {
	var order Order
	if err := a.client.DeleteSigned(ctx, api.SpotOrder, params, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelAllOpenOrders cancels every open order on symbol.
func (a *Account) CancelAllOpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	var orders []Order
	if err := a.client.DeleteSigned(ctx, api.SpotOpenOrders, core.NewParams().Set("symbol", symbol), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OpenOrders lists open orders on symbol, or on every symbol when symbol is
// empty.
func (a *Account) OpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	weight := 80
	if symbol != "" {
		weight = 6
	}
	req := core.Get(api.SpotOpenOrders).
		SetParams(core.NewParams().SetOptional("symbol", symbol)).
		Signed().
		SetWeight(weight)

	var orders []Order
	if err := a.client.Do(ctx, req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *Account) AllOrders(ctx context.Context, symbol string, opts ...core.QueryOption) ([]Order, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), opts...)

	var orders []Order
	if err := a.client.Do(ctx, core.Get(api.SpotAllOrders).SetParams(params).Signed().SetWeight(20), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *Account) MyTrades(ctx context.Context, symbol string, opts ...core.QueryOption) ([]MyTrade, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), opts...)

	var trades []MyTrade
	if err := a.client.Do(ctx, core.Get(api.SpotMyTrades).SetParams(params).Signed().SetWeight(20), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}
