package spot

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nakula/pkg/core"
)

// OrderRequest describes a new spot order. Setters return the request so
// calls can be chained; validation happens in Params.
type OrderRequest struct {
	Symbol           string
	Side             core.OrderSide
	Type             core.OrderType
	TimeInForce      *core.TimeInForce
	Quantity         *core.Number
	QuoteOrderQty    *core.Number
	Price            *core.Number
	StopPrice        *core.Number
	IcebergQty       *core.Number
	TrailingDelta    int64
	NewClientOrderID string
	ResponseType     *core.ResponseType
	STPMode          *core.SelfTradePreventionMode
}

// NewOrderRequest creates a request with a generated client order id.
func NewOrderRequest(symbol string, side core.OrderSide, orderType core.OrderType) *OrderRequest {
	return &OrderRequest{
		Symbol:           symbol,
		Side:             side,
		Type:             orderType,
		NewClientOrderID: uuid.NewString(),
	}
}

func (r *OrderRequest) WithTimeInForce(tif core.TimeInForce) *OrderRequest {
	r.TimeInForce = &tif
	return r
}

func (r *OrderRequest) WithQuantity(qty core.Number) *OrderRequest {
	r.Quantity = &qty
	return r
}

// WithQuoteOrderQty spends or receives a quote amount on MARKET orders.
func (r *OrderRequest) WithQuoteOrderQty(qty core.Number) *OrderRequest {
	r.QuoteOrderQty = &qty
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

func (r *OrderRequest) WithIcebergQty(qty core.Number) *OrderRequest {
	r.IcebergQty = &qty
	return r
}

func (r *OrderRequest) WithTrailingDelta(bips int64) *OrderRequest {
	r.TrailingDelta = bips
	return r
}

func (r *OrderRequest) WithClientOrderID(id string) *OrderRequest {
	r.NewClientOrderID = id
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

func (r *OrderRequest) validate() error {
	if r.Symbol == "" {
		return errors.New("symbol is required")
	}
	if err := core.CheckEnums(r.Side, core.Optional(r.TimeInForce),
		core.Optional(r.ResponseType), core.Optional(r.STPMode)); err != nil {
		return err
	}
	switch r.Type {
	case core.TypeLimit:
		if r.Price == nil || r.Quantity == nil {
			return errors.New("LIMIT orders need price and quantity")
		}
	case core.TypeMarket:
		if r.Quantity == nil && r.QuoteOrderQty == nil {
			return errors.New("MARKET orders need quantity or quoteOrderQty")
		}
	case core.TypeStopLoss, core.TypeTakeProfit:
		if r.Quantity == nil || (r.StopPrice == nil && r.TrailingDelta == 0) {
			return fmt.Errorf("%s orders need quantity and stopPrice or trailingDelta", r.Type)
		}
	case core.TypeStopLossLimit, core.TypeTakeProfitLimit:
		if r.Quantity == nil || r.Price == nil || (r.StopPrice == nil && r.TrailingDelta == 0) {
			return fmt.Errorf("%s orders need quantity, price and stopPrice or trailingDelta", r.Type)
		}
	case core.TypeLimitMaker:
		if r.Price == nil || r.Quantity == nil {
			return errors.New("LIMIT_MAKER orders need price and quantity")
		}
	default:
		return fmt.Errorf("order type %s is not supported on spot", r.Type)
	}
	return nil
}

// Params validates the request and serializes it.
func (r *OrderRequest) Params() (core.Params, error) {
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err)
	}

	p := core.NewParams().
		Set("symbol", r.Symbol).
		Set("side", r.Side.String()).
		Set("type", r.Type.String()).
		SetOptional("newClientOrderId", r.NewClientOrderID)

	switch {
	case r.TimeInForce != nil:
		p.Set("timeInForce", r.TimeInForce.String())
	case r.Type == core.TypeLimit || r.Type == core.TypeStopLossLimit || r.Type == core.TypeTakeProfitLimit:
		p.Set("timeInForce", core.GTC.String())
	}
	if r.Quantity != nil {
		p.SetNumber("quantity", *r.Quantity)
	}
	if r.QuoteOrderQty != nil {
		p.SetNumber("quoteOrderQty", *r.QuoteOrderQty)
	}
	if r.Price != nil {
		p.SetNumber("price", *r.Price)
	}
	if r.StopPrice != nil {
		p.SetNumber("stopPrice", *r.StopPrice)
	}
	if r.IcebergQty != nil {
		p.SetNumber("icebergQty", *r.IcebergQty)
	}
	if r.TrailingDelta > 0 {
		p.SetInt64("trailingDelta", r.TrailingDelta)
	}
	if r.ResponseType != nil {
		p.Set("newOrderRespType", r.ResponseType.String())
	}
	if r.STPMode != nil {
		p.Set("selfTradePreventionMode", r.STPMode.String())
	}
	return p, nil
}
