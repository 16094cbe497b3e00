package futures

import (
	"context"
	"fmt"

	"nakula/pkg/client"
	"nakula/pkg/core"
)

// Account serves signed futures trading and account endpoints.
type Account struct {
	client    *client.Client
	endpoints Endpoints
}

// NewAccount returns the USD-M account service.
func NewAccount(c *client.Client) *Account {
	return NewAccountWith(c, USDM)
}

// NewAccountWith returns an account service bound to endpoints.
func NewAccountWith(c *client.Client, endpoints Endpoints) *Account {
	return &Account{client: c, endpoints: endpoints}
}

// NewUserStream returns the listen key manager for USD-M user data.
func NewUserStream(c *client.Client) *client.UserStream {
	return client.NewUserStream(c, USDM.ListenKey)
}

func (a *Account) PlaceOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil order request", core.ErrInvalidParameter)
	}
	if err := validateOrder(req); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err)
	}

	var order Order
	if err := a.client.Do(ctx, core.Post(a.endpoints.Order).SetParams(req.Params()).Signed().SetWeight(1), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *Account) QueryOrder(ctx context.Context, symbol string, orderID int64) (*Order, error) {
	params := core.NewParams().Set("symbol", symbol).SetInt64("orderId", orderID)

	var order Order
	if err := a.client.Do(ctx, core.Get(a.endpoints.Order).SetParams(params).Signed().SetWeight(1), &order); err != nil {
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
	if err := a.client.Do(ctx, core.Delete(a.endpoints.Order).SetParams(params).Signed().SetWeight(1), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelAllOpenOrders cancels every open order on symbol.
func (a *Account) CancelAllOpenOrders(ctx context.Context, symbol string) error {
	if symbol == "" {
		return fmt.Errorf("%w: symbol is required", core.ErrInvalidParameter)
	}
	return a.client.Do(ctx, core.Delete(a.endpoints.AllOpenOrders).SetParam("symbol", symbol).Signed().SetWeight(1), nil)
}

// OpenOrders lists open orders on symbol, or on every symbol when symbol is
// empty.
func (a *Account) OpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	weight := 40
	if symbol != "" {
		weight = 1
	}
	req := core.Get(a.endpoints.OpenOrders).
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
	if err := a.client.Do(ctx, core.Get(a.endpoints.AllOrders).SetParams(params).Signed().SetWeight(5), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PositionInformation returns positions on symbol, or on every symbol when
// symbol is empty.
func (a *Account) PositionInformation(ctx context.Context, symbol string) ([]PositionRisk, error) {
	var positions []PositionRisk
	req := core.Get(a.endpoints.PositionRisk).SetParams(core.NewParams().SetOptional("symbol", symbol)).Signed().SetWeight(5)
	if err := a.client.Do(ctx, req, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (a *Account) Information(ctx context.Context) (*AccountInformation, error) {
	var info AccountInformation
	if err := a.client.Do(ctx, core.Get(a.endpoints.Account).Signed().SetWeight(5), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (a *Account) Balance(ctx context.Context) ([]Balance, error) {
	var balances []Balance
	if err := a.client.Do(ctx, core.Get(a.endpoints.Balance).Signed().SetWeight(5), &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// ChangeInitialLeverage sets the leverage of symbol, from 1 to 125.
func (a *Account) ChangeInitialLeverage(ctx context.Context, symbol string, leverage int) (*Leverage, error) {
	if leverage < 1 || leverage > 125 {
		return nil, fmt.Errorf("%w: leverage %d out of range [1, 125]", core.ErrInvalidParameter, leverage)
	}
	params := core.NewParams().Set("symbol", symbol).SetInt("leverage", leverage)

	var out Leverage
	if err := a.client.Do(ctx, core.Post(a.endpoints.Leverage).SetParams(params).Signed().SetWeight(1), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeMarginType switches symbol between cross and isolated margin. Asking
// for the mode already in place is not an error.
func (a *Account) ChangeMarginType(ctx context.Context, symbol string, marginType core.MarginType) error {
	if err := core.CheckEnums(marginType); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidParameter, err)
	}
	params := core.NewParams().Set("symbol", symbol).Set("marginType", marginType.String())
	err := a.client.Do(ctx, core.Post(a.endpoints.MarginType).SetParams(params).Signed().SetWeight(1), nil)
	if core.IsErrorCode(err, core.CodeNoNeedToChangeMarginType) {
		return nil
	}
	return err
}

// ChangePositionMode switches between hedge mode (dualSide) and one-way mode.
// Asking for the mode already in place is not an error.
func (a *Account) ChangePositionMode(ctx context.Context, dualSide bool) error {
	if err := supported(a.endpoints.PositionSide); err != nil {
		return err
	}
	params := core.NewParams().SetBool("dualSidePosition", dualSide)
	err := a.client.Do(ctx, core.Post(a.endpoints.PositionSide).SetParams(params).Signed().SetWeight(1), nil)
	if core.IsErrorCode(err, core.CodeNoNeedToChangePositionSide) {
		return nil
	}
	return err
}

func (a *Account) UserTrades(ctx context.Context, symbol string, opts ...core.QueryOption) ([]UserTrade, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), opts...)

	var trades []UserTrade
	if err := a.client.Do(ctx, core.Get(a.endpoints.UserTrades).SetParams(params).Signed().SetWeight(5), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// Income returns income history. Filter with core.WithParam("incomeType", ...)
// and the time range options.
func (a *Account) Income(ctx context.Context, symbol string, opts ...core.QueryOption) ([]Income, error) {
	params := core.ApplyOptions(core.NewParams().SetOptional("symbol", symbol), opts...)

	var incomes []Income
	if err := a.client.Do(ctx, core.Get(a.endpoints.Income).SetParams(params).Signed().SetWeight(30), &incomes); err != nil {
		return nil, err
	}
	return incomes, nil
}
