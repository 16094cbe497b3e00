package futures

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nakula/pkg/core"
)

// OrderRequest is a validated futures order. Create one with NewOrder.
type OrderRequest struct {
	Symbol           string
	Side             core.OrderSide
	Type             core.OrderType
	PositionSide     *core.PositionSide
	TimeInForce      *core.TimeInForce
	Quantity         *core.Number
	Price            *core.Number
	StopPrice        *core.Number
	ActivationPrice  *core.Number
	CallbackRate     *core.Number
	WorkingType      *core.WorkingType
	PriceProtect     bool
	ReduceOnly       bool
	ClosePosition    bool
	NewClientOrderID string
	ResponseType     *core.ResponseType
	STPMode          *core.SelfTradePreventionMode
}

// Params serializes the request.
func (r *OrderRequest) Params() core.Params {
	p := core.NewParams().
		Set("symbol", r.Symbol).
		Set("side", r.Side.String()).
		Set("type", r.Type.String()).
		SetOptional("newClientOrderId", r.NewClientOrderID)

	if r.PositionSide != nil {
		p.Set("positionSide", r.PositionSide.String())
	}
	if r.TimeInForce != nil {
		p.Set("timeInForce", r.TimeInForce.String())
	}
	setNumber(p, "quantity", r.Quantity)
	setNumber(p, "price", r.Price)
	setNumber(p, "stopPrice", r.StopPrice)
	setNumber(p, "activationPrice", r.ActivationPrice)
	setNumber(p, "callbackRate", r.CallbackRate)
	if r.WorkingType != nil {
		p.Set("workingType", r.WorkingType.String())
	}
	if r.PriceProtect {
		p.Set("priceProtect", "TRUE")
	}
	if r.ReduceOnly {
		p.Set("reduceOnly", "true")
	}
	if r.ClosePosition {
		p.Set("closePosition", "true")
	}
	if r.ResponseType != nil {
		p.Set("newOrderRespType", r.ResponseType.String())
	}
	if r.STPMode != nil {
		p.Set("selfTradePreventionMode", r.STPMode.String())
	}
	return p
}

func setNumber(p core.Params, key string, n *core.Number) {
	if n != nil {
		p.SetNumber(key, *n)
	}
}

// OrderBuilder constructs an OrderRequest. It keeps the first error it meets
// and reports it from Build.
//
// Example:
//
//	req, err := futures.NewOrder("BTCUSDT", core.SideBuy, core.TypeLimit).
//	    Quantity("0.01").
//	    Price("60000").
//	    PositionSide(core.PositionLong).
//	    Build()
type OrderBuilder struct {
	req *OrderRequest
	err error
}

// NewOrder starts an order with a generated client order id.
func NewOrder(symbol string, side core.OrderSide, orderType core.OrderType) *OrderBuilder {
	return &OrderBuilder{
		req: &OrderRequest{
			Symbol:           symbol,
			Side:             side,
			Type:             orderType,
			NewClientOrderID: uuid.NewString(),
		},
	}
}

func (b *OrderBuilder) number(field, value string, dst **core.Number) *OrderBuilder {
	if b.err != nil {
		return b
	}
	n, err := core.NewNumber(value)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", field, err)
		return b
	}
	if n.IsZero() || n.Negative {
		b.err = fmt.Errorf("%s must be positive", field)
		return b
	}
	*dst = &n
	return b
}

// Quantity sets the order size in contracts or base asset.
func (b *OrderBuilder) Quantity(qty string) *OrderBuilder {
	return b.number("quantity", qty, &b.req.Quantity)
}

func (b *OrderBuilder) Price(price string) *OrderBuilder {
	return b.number("price", price, &b.req.Price)
}

func (b *OrderBuilder) StopPrice(price string) *OrderBuilder {
	return b.number("stopPrice", price, &b.req.StopPrice)
}

// ActivationPrice sets the trigger of a TRAILING_STOP_MARKET order.
func (b *OrderBuilder) ActivationPrice(price string) *OrderBuilder {
	return b.number("activationPrice", price, &b.req.ActivationPrice)
}

// CallbackRate sets the trailing distance in percent, from 0.1 to 10.
func (b *OrderBuilder) CallbackRate(rate string) *OrderBuilder {
	b.number("callbackRate", rate, &b.req.CallbackRate)
	if b.err == nil {
		f := b.req.CallbackRate.Float64()
		if f < 0.1 || f > 10 {
			b.err = fmt.Errorf("callbackRate %s out of range [0.1, 10]", rate)
		}
	}
	return b
}

func (b *OrderBuilder) PositionSide(side core.PositionSide) *OrderBuilder {
	if b.err == nil {
		b.req.PositionSide = &side
	}
	return b
}

func (b *OrderBuilder) TimeInForce(tif core.TimeInForce) *OrderBuilder {
	if b.err == nil {
		b.req.TimeInForce = &tif
	}
	return b
}

func (b *OrderBuilder) WorkingType(wt core.WorkingType) *OrderBuilder {
	if b.err == nil {
		b.req.WorkingType = &wt
	}
	return b
}

func (b *OrderBuilder) PriceProtect() *OrderBuilder {
	b.req.PriceProtect = true
	return b
}

func (b *OrderBuilder) ReduceOnly() *OrderBuilder {
	b.req.ReduceOnly = true
	return b
}

// ClosePosition closes the whole position when a STOP_MARKET or
// TAKE_PROFIT_MARKET order triggers.
func (b *OrderBuilder) ClosePosition() *OrderBuilder {
	b.req.ClosePosition = true
	return b
}

func (b *OrderBuilder) ClientOrderID(id string) *OrderBuilder {
	if b.err == nil {
		b.req.NewClientOrderID = id
	}
	return b
}

func (b *OrderBuilder) ResponseType(rt core.ResponseType) *OrderBuilder {
	if b.err == nil {
		b.req.ResponseType = &rt
	}
	return b
}

func (b *OrderBuilder) SelfTradePrevention(mode core.SelfTradePreventionMode) *OrderBuilder {
	if b.err == nil {
		b.req.STPMode = &mode
	}
	return b
}

// Build validates the order against its type and returns it. Errors wrap
// core.ErrInvalidParameter.
func (b *OrderBuilder) Build() (*OrderRequest, error) {
	if b.err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidParameter, b.err)
	}
	if err := validateOrder(b.req); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err)
	}
	if b.req.Type == core.TypeLimit && b.req.TimeInForce == nil {
		tif := core.GTC
		b.req.TimeInForce = &tif
	}
	return b.req, nil
}

func validateOrder(r *OrderRequest) error {
	if r.Symbol == "" {
		return errors.New("symbol is required")
	}
	if err := core.CheckEnums(r.Side, core.Optional(r.PositionSide), core.Optional(r.TimeInForce),
		core.Optional(r.WorkingType), core.Optional(r.ResponseType), core.Optional(r.STPMode)); err != nil {
		return err
	}
	if r.ClosePosition {
		if r.Type != core.TypeStopMarket && r.Type != core.TypeTakeProfitMarket {
			return fmt.Errorf("closePosition is not allowed on %s orders", r.Type)
		}
		if r.Quantity != nil || r.ReduceOnly {
			return errors.New("closePosition cannot be combined with quantity or reduceOnly")
		}
	}

	switch r.Type {
	case core.TypeLimit:
		if r.Quantity == nil || r.Price == nil {
			return errors.New("LIMIT orders need quantity and price")
		}
	case core.TypeMarket:
		if r.Quantity == nil {
			return errors.New("MARKET orders need quantity")
		}
	case core.TypeStop, core.TypeTakeProfit:
		if r.Quantity == nil || r.Price == nil || r.StopPrice == nil {
			return fmt.Errorf("%s orders need quantity, price and stopPrice", r.Type)
		}
	case core.TypeStopMarket, core.TypeTakeProfitMarket:
		if r.StopPrice == nil {
			return fmt.Errorf("%s orders need stopPrice", r.Type)
		}
		if r.Quantity == nil && !r.ClosePosition {
			return fmt.Errorf("%s orders need quantity or closePosition", r.Type)
		}
	case core.TypeTrailingStopMarket:
		if r.Quantity == nil || r.CallbackRate == nil {
			return errors.New("TRAILING_STOP_MARKET orders need quantity and callbackRate")
		}
	default:
		return fmt.Errorf("order type %s is not supported on futures", r.Type)
	}
	return nil
}
