// Package portfoliomargin wraps the portfolio margin API under /papi, which
// trades USD-M and COIN-M contracts from one unified account.
package portfoliomargin

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"nakula/pkg/api"
	"nakula/pkg/client"
	"nakula/pkg/core"
	"nakula/pkg/futures"
)

// route holds the UM and CM variants of one operation.
type route struct {
	um, cm api.PortfolioMargin
}

func (r route) pick(market Market) api.PortfolioMargin {
	if market == MarketInverse {
		return r.cm
	}
	return r.um
}

var (
	orderRoute                = route{api.PortfolioMarginOrderUM, api.PortfolioMarginOrderCM}
	conditionalOrderRoute     = route{api.PortfolioMarginConditionalOrderUM, api.PortfolioMarginConditionalOrderCM}
	openOrdersRoute           = route{api.PortfolioMarginOpenOrdersUM, api.PortfolioMarginOpenOrdersCM}
	conditionalOpenRoute      = route{api.PortfolioMarginConditionalOpenOrdersUM, api.PortfolioMarginConditionalOpenOrdersCM}
	cancelAllRoute            = route{api.PortfolioMarginCancelAllOpenOrdersUM, api.PortfolioMarginCancelAllOpenOrdersCM}
	cancelAllConditionalRoute = route{api.PortfolioMarginCancelAllConditionalOpenOrdersUM, api.PortfolioMarginCancelAllConditionalOpenOrdersCM}
	positionRiskRoute         = route{api.PortfolioMarginPositionRiskUM, api.PortfolioMarginPositionRiskCM}
	leverageRoute             = route{api.PortfolioMarginChangeInitialLeverageUM, api.PortfolioMarginChangeInitialLeverageCM}
)

// Account serves the signed portfolio margin endpoints.
type Account struct {
	client *client.Client
}

func NewAccount(c *client.Client) *Account {
	return &Account{client: c}
}

// NewUserStream returns the listen key manager for portfolio margin user
// data.
func NewUserStream(c *client.Client) *client.UserStream {
	return client.NewUserStream(c, api.PortfolioMarginListenKey)
}

func (a *Account) Ping(ctx context.Context) error {
	return a.client.Get(ctx, api.PortfolioMarginPing, nil, nil)
}

// PostOrder places req on market. Conditional types go to the conditional
// order endpoint.
func (a *Account) PostOrder(ctx context.Context, req *OrderRequest, market Market) (*Order, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil order request", core.ErrInvalidParameter)
	}
	params, err := req.Params()
	if err != nil {
		return nil, err
	}

	endpoint := orderRoute.pick(market)
	if req.IsConditional() {
		endpoint = conditionalOrderRoute.pick(market)
	}

	var order Order
	if err := a.client.Do(ctx, core.Post(endpoint).SetParams(params).Signed().SetWeight(1), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrderWithClientID cancels order by its client id. Conditional orders
// are cancelled through the conditional endpoint by newClientStrategyId.
func (a *Account) CancelOrderWithClientID(ctx context.Context, symbol string, order *Order, market Market) (*Order, error) {
	if order == nil || order.ClientOrderID == "" {
		return nil, fmt.Errorf("%w: order with a client id is required", core.ErrInvalidParameter)
	}

	params := core.NewParams().Set("symbol", symbol)
	endpoint := orderRoute.pick(market)
	if order.IsConditional() {
		params.Set("newClientStrategyId", order.ClientOrderID)
		endpoint = conditionalOrderRoute.pick(market)
	} else {
		params.Set("origClientOrderId", order.ClientOrderID)
	}

	var out Order
	if err := a.client.Do(ctx, core.Delete(endpoint).SetParams(params).Signed().SetWeight(1), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Account) PositionInformation(ctx context.Context, symbol string, market Market) ([]PositionRisk, error) {
	req := core.Get(positionRiskRoute.pick(market)).
		SetParams(core.NewParams().SetOptional("symbol", symbol)).
		Signed().
		SetWeight(5)

	var positions []PositionRisk
	if err := a.client.Do(ctx, req, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (a *Account) Information(ctx context.Context) (*AccountInformation, error) {
	var info AccountInformation
	if err := a.client.Do(ctx, core.Get(api.PortfolioMarginAccount).Signed().SetWeight(20), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (a *Account) Balance(ctx context.Context) ([]AccountBalance, error) {
	var balances []AccountBalance
	if err := a.client.Do(ctx, core.Get(api.PortfolioMarginBalance).Signed().SetWeight(20), &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// CancelAllOpenOrders cancels regular and conditional orders on symbol. Both
// requests are always sent; their errors are combined.
func (a *Account) CancelAllOpenOrders(ctx context.Context, symbol string, market Market) error {
	if symbol == "" {
		return fmt.Errorf("%w: symbol is required", core.ErrInvalidParameter)
	}
	params := core.NewParams().Set("symbol", symbol)

	regular := a.client.Do(ctx, core.Delete(cancelAllRoute.pick(market)).SetParams(params).Signed().SetWeight(1), nil)
	conditional := a.client.Do(ctx, core.Delete(cancelAllConditionalRoute.pick(market)).SetParams(params.Clone()).Signed().SetWeight(1), nil)
	return multierr.Combine(regular, conditional)
}

// AllOpenOrders returns regular and conditional open orders on symbol, or on
// every symbol when symbol is empty. Both lists are always requested; when
// either fails no orders are returned and the errors are combined.
func (a *Account) AllOpenOrders(ctx context.Context, symbol string, market Market) ([]Order, error) {
	weight := 40
	if symbol != "" {
		weight = 1
	}
	params := core.NewParams().SetOptional("symbol", symbol)

	var regular, conditional []Order
	err := multierr.Combine(
		a.client.Do(ctx, core.Get(openOrdersRoute.pick(market)).SetParams(params).Signed().SetWeight(weight), &regular),
		a.client.Do(ctx, core.Get(conditionalOpenRoute.pick(market)).SetParams(params.Clone()).Signed().SetWeight(weight), &conditional),
	)
	if err != nil {
		return nil, err
	}
	return append(regular, conditional...), nil
}

func (a *Account) ChangeInitialLeverage(ctx context.Context, symbol string, leverage int, market Market) (*futures.Leverage, error) {
	if leverage < 1 || leverage > 125 {
		return nil, fmt.Errorf("%w: leverage %d out of range [1, 125]", core.ErrInvalidParameter, leverage)
	}
	params := core.NewParams().Set("symbol", symbol).SetInt("leverage", leverage)

	var out futures.Leverage
	if err := a.client.Do(ctx, core.Post(leverageRoute.pick(market)).SetParams(params).Signed().SetWeight(1), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
