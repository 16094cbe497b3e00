package portfoliomargin

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nakula/pkg/core"
)

// OrderRequest is a new UM or CM order. LIMIT and MARKET orders go to the
// order endpoint; the stop, take profit and trailing types are conditional
// strategies.
type OrderRequest struct {
	ClientOrderID   string
	Symbol          string
	Side            core.OrderSide
	Type            core.OrderType
	PositionSide    *core.PositionSide
	TimeInForce     *core.TimeInForce
	Quantity        *core.Number
	ReduceOnly      *bool
	Price           *core.Number
	StopPrice       *core.Number
	ActivationPrice *core.Number
	CallbackRate    *core.Number
	WorkingType     *core.WorkingType
	PriceProtect    *bool
	ResponseType    *core.ResponseType
	STPMode         *core.SelfTradePreventionMode
}

// NewOrderRequest returns a request with every optional field unset. An
// empty clientID is replaced with a generated one.
func NewOrderRequest(clientID, symbol string, side core.OrderSide, orderType core.OrderType) *OrderRequest {
	if clientID == "" {
		clientID = uuid.NewString()
	}
	return &OrderRequest{
		ClientOrderID: clientID,
		Symbol:        symbol,
		Side:          side,
		Type:          orderType,
	}
}

func (r *OrderRequest) WithPositionSide(side core.PositionSide) *OrderRequest {
	r.PositionSide = &side
	return r
}

func (r *OrderRequest) WithTimeInForce(tif core.TimeInForce) *OrderRequest {
	r.TimeInForce = &tif
	return r
}

func (r *OrderRequest) WithQuantity(qty core.Number) *OrderRequest {
	r.Quantity = &qty
	return r
}

func (r *OrderRequest) WithReduceOnly(reduceOnly bool) *OrderRequest {
	r.ReduceOnly = &reduceOnly
	return r
}

func (r *OrderRequest) WithPrice(price core.Number) *OrderRequest {
	r.Price = &price
	return r
}

func (r *OrderRequest) WithStopPrice(price core.Number) *OrderRequest {
	r.StopPrice = &price
	return r
}

func (r *OrderRequest) WithActivationPrice(price core.Number) *OrderRequest {
	r.ActivationPrice = &price
	return r
}

func (r *OrderRequest) WithCallbackRate(rate core.Number) *OrderRequest {
	r.CallbackRate = &rate
	return r
}

func (r *OrderRequest) WithWorkingType(wt core.WorkingType) *OrderRequest {
	r.WorkingType = &wt
	return r
}

func (r *OrderRequest) WithPriceProtect(protect bool) *OrderRequest {
	r.PriceProtect = &protect
	return r
}

func (r *OrderRequest) WithResponseType(rt core.ResponseType) *OrderRequest {
	r.ResponseType = &rt
	return r
}

func (r *OrderRequest) WithSelfTradePrevention(mode core.SelfTradePreventionMode) *OrderRequest {
	r.STPMode = &mode
	return r
}

// IsConditional reports whether the request is sent as a conditional
// strategy.
func (r *OrderRequest) IsConditional() bool {
	return r.Type.IsConditional()
}

func (r *OrderRequest) validate() error {
	if r.Symbol == "" {
		return errors.New("symbol is required")
	}
	if err := core.CheckEnums(r.Side, core.Optional(r.PositionSide), core.Optional(r.TimeInForce),
		core.Optional(r.WorkingType), core.Optional(r.ResponseType), core.Optional(r.STPMode)); err != nil {
		return err
	}
	switch r.Type {
	case core.TypeLimit, core.TypeMarket, core.TypeStop, core.TypeStopMarket,
		core.TypeTakeProfit, core.TypeTakeProfitMarket, core.TypeTrailingStopMarket:
		return nil
	default:
		return fmt.Errorf("order type %s is not supported on portfolio margin", r.Type)
	}
}

// Params validates and serializes the request. Regular orders carry type and
// newClientOrderId; conditional ones carry strategyType and
// newClientStrategyId.
func (r *OrderRequest) Params() (core.Params, error) {
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err)
	}

	p := core.NewParams().
		Set("symbol", r.Symbol).
		Set("side", r.Side.String())
	if r.IsConditional() {
		p.Set("strategyType", r.Type.String()).Set("newClientStrategyId", r.ClientOrderID)
	} else {
		p.Set("type", r.Type.String()).Set("newClientOrderId", r.ClientOrderID)
	}

	if r.PositionSide != nil {
		p.Set("positionSide", r.PositionSide.String())
	}
	if r.TimeInForce != nil {
		p.Set("timeInForce", r.TimeInForce.String())
	}
	setNumber(p, "quantity", r.Quantity)
	setBool(p, "reduceOnly", r.ReduceOnly)
	setNumber(p, "price", r.Price)
	setNumber(p, "stopPrice", r.StopPrice)
	setNumber(p, "activationPrice", r.ActivationPrice)
	setNumber(p, "callbackRate", r.CallbackRate)
	if r.WorkingType != nil {
		p.Set("workingType", r.WorkingType.String())
	}
	setBool(p, "priceProtect", r.PriceProtect)
	if r.ResponseType != nil {
		p.Set("newOrderRespType", r.ResponseType.String())
	}
	if r.STPMode != nil {
		p.Set("selfTradePreventionMode", r.STPMode.String())
	}
	return p, nil
}

func setNumber(p core.Params, key string, n *core.Number) {
	if n != nil {
		p.SetNumber(key, *n)
	}
}

// setBool writes TRUE or FALSE.
func setBool(p core.Params, key string, b *bool) {
	if b == nil {
		return
	}
	if *b {
		p.Set(key, "TRUE")
	} else {
		p.Set(key, "FALSE")
	}
}
