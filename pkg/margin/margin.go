// Package margin wraps the cross and isolated margin endpoints under /sapi.
// Order parameters follow spot; isolated calls add isIsolated=TRUE.
package margin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nakula/pkg/api"
	"nakula/pkg/client"
	"nakula/pkg/core"
	"nakula/pkg/spot"
)

// SideEffectType controls automatic borrowing and repayment around an order.
type SideEffectType string

const (
	NoSideEffect    SideEffectType = "NO_SIDE_EFFECT"
	MarginBuy       SideEffectType = "MARGIN_BUY"
	AutoRepay       SideEffectType = "AUTO_REPAY"
	AutoBorrowRepay SideEffectType = "AUTO_BORROW_REPAY"
)

// OrderRequest is a spot order request with margin specific options. Build
// the order with the spot setters first, then wrap it.
type OrderRequest struct {
	*spot.OrderRequest
	Isolated   bool
	SideEffect SideEffectType
}

func NewOrderRequest(order *spot.OrderRequest) *OrderRequest {
	return &OrderRequest{OrderRequest: order}
}

func (r *OrderRequest) WithIsolated(isolated bool) *OrderRequest {
	r.Isolated = isolated
	return r
}

func (r *OrderRequest) WithSideEffect(effect SideEffectType) *OrderRequest {
	r.SideEffect = effect
	return r
}

func (r *OrderRequest) Params() (core.Params, error) {
	if r.OrderRequest == nil {
		return nil, fmt.Errorf("%w: empty order request", core.ErrInvalidParameter)
	}
	p, err := r.OrderRequest.Params()
	if err != nil {
		return nil, err
	}
	if r.Isolated {
		p.Set("isIsolated", "TRUE")
	}
	p.SetOptional("sideEffectType", string(r.SideEffect))
	return p, nil
}

// Account serves the signed margin endpoints.
type Account struct {
	client *client.Client
}

func NewAccount(c *client.Client) *Account {
	return &Account{client: c}
}

// NewUserStream returns the listen key manager for cross margin user data.
func NewUserStream(c *client.Client) *client.UserStream {
	return client.NewUserStream(c, api.MarginUserDataStream)
}

func isolatedParams(symbol string, isolated bool) core.Params {
	p := core.NewParams().Set("symbol", symbol)
	if isolated {
		p.Set("isIsolated", "TRUE")
	}
	return p
}

// Details returns the cross margin account.
func (a *Account) Details(ctx context.Context) (*CrossAccount, error) {
	var acc CrossAccount
	if err := a.client.Do(ctx, core.Get(api.MarginAccount).Signed().SetWeight(10), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// IsolatedDetails returns isolated margin accounts, limited to symbols when
// given (at most 5).
func (a *Account) IsolatedDetails(ctx context.Context, symbols ...string) (*IsolatedAccount, error) {
	if len(symbols) > 5 {
		return nil, fmt.Errorf("%w: at most 5 symbols", core.ErrInvalidParameter)
	}
	params := core.NewParams()
	if len(symbols) > 0 {
		params.Set("symbols", strings.Join(symbols, ","))
	}

	var acc IsolatedAccount
	if err := a.client.Do(ctx, core.Get(api.MarginIsolatedAccount).SetParams(params).Signed().SetWeight(10), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *Account) PlaceOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	params, err := req.Params()
	if err != nil {
		return nil, err
	}
	var resp OrderResponse
	if err := a.client.Do(ctx, core.Post(api.MarginOrder).SetParams(params).Signed().SetWeight(6), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *Account) CancelOrder(ctx context.Context, symbol string, orderID int64, isolated bool) (*Order, error) {
	params := isolatedParams(symbol, isolated).SetInt64("orderId", orderID)

	var order Order
	if err := a.client.Do(ctx, core.Delete(api.MarginOrder).SetParams(params).Signed().SetWeight(10), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *Account) QueryOrder(ctx context.Context, symbol string, orderID int64, isolated bool) (*Order, error) {
	params := isolatedParams(symbol, isolated).SetInt64("orderId", orderID)

	var order Order
	if err := a.client.Do(ctx, core.Get(api.MarginOrder).SetParams(params).Signed().SetWeight(10), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *Account) OpenOrders(ctx context.Context, symbol string, isolated bool) ([]Order, error) {
	if isolated && symbol == "" {
		return nil, fmt.Errorf("%w: isolated open orders need a symbol", core.ErrInvalidParameter)
	}
	params := core.NewParams().SetOptional("symbol", symbol)
	if isolated {
		params.Set("isIsolated", "TRUE")
	}

	var orders []Order
	if err := a.client.Do(ctx, core.Get(api.MarginOpenOrders).SetParams(params).Signed().SetWeight(10), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *Account) AllOrders(ctx context.Context, symbol string, isolated bool, opts ...core.QueryOption) ([]Order, error) {
	params := core.ApplyOptions(isolatedParams(symbol, isolated), opts...)

	var orders []Order
	if err := a.client.Do(ctx, core.Get(api.MarginAllOrders).SetParams(params).Signed().SetWeight(200), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *Account) MyTrades(ctx context.Context, symbol string, isolated bool, opts ...core.QueryOption) ([]Trade, error) {
	params := core.ApplyOptions(isolatedParams(symbol, isolated), opts...)

	var trades []Trade
	if err := a.client.Do(ctx, core.Get(api.MarginMyTrades).SetParams(params).Signed().SetWeight(10), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// Borrow takes a loan of amount in asset. isolatedSymbol selects an isolated
// pair; empty borrows on the cross account.
func (a *Account) Borrow(ctx context.Context, asset string, amount core.Number, isolatedSymbol string) (int64, error) {
	return a.borrowRepay(ctx, "BORROW", asset, amount, isolatedSymbol)
}

// Repay pays back amount of asset.
func (a *Account) Repay(ctx context.Context, asset string, amount core.Number, isolatedSymbol string) (int64, error) {
	return a.borrowRepay(ctx, "REPAY", asset, amount, isolatedSymbol)
}

func (a *Account) borrowRepay(ctx context.Context, kind, asset string, amount core.Number, isolatedSymbol string) (int64, error) {
	if asset == "" {
		return 0, fmt.Errorf("%w: asset is required", core.ErrInvalidParameter)
	}
	if amount.IsZero() || amount.Negative {
		return 0, fmt.Errorf("%w: amount must be positive", core.ErrInvalidParameter)
	}

	params := core.NewParams().
		Set("asset", asset).
		SetNumber("amount", amount).
		Set("type", kind).
		Set("isIsolated", "FALSE")
	if isolatedSymbol != "" {
		params.Set("isIsolated", "TRUE").Set("symbol", isolatedSymbol)
	}

	var tx Transaction
	if err := a.client.Do(ctx, core.Post(api.MarginBorrowRepay).SetParams(params).Signed().SetWeight(1500), &tx); err != nil {
		return 0, err
	}
	if tx.TranID == 0 {
		return 0, errors.New("missing tranId in response")
	}
	return tx.TranID, nil
}

func (a *Account) MaxBorrowable(ctx context.Context, asset, isolatedSymbol string) (*MaxBorrowable, error) {
	params := core.NewParams().Set("asset", asset).SetOptional("isolatedSymbol", isolatedSymbol)

	var out MaxBorrowable
	if err := a.client.Do(ctx, core.Get(api.MarginMaxBorrowable).SetParams(params).Signed().SetWeight(50), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Account) MaxTransferable(ctx context.Context, asset, isolatedSymbol string) (core.Number, error) {
	params := core.NewParams().Set("asset", asset).SetOptional("isolatedSymbol", isolatedSymbol)

	var out struct {
		Amount core.Number `json:"amount"`
	}
	if err := a.client.Do(ctx, core.Get(api.MarginMaxTransferable).SetParams(params).Signed().SetWeight(50), &out); err != nil {
		return core.Number{}, err
	}
	return out.Amount, nil
}

// PriceIndex needs an API key but no signature.
func (a *Account) PriceIndex(ctx context.Context, symbol string) (*PriceIndex, error) {
	var out PriceIndex
	if err := a.client.Do(ctx, core.Get(api.MarginPriceIndex).SetParam("symbol", symbol).Keyed().SetWeight(10), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
