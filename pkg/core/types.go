package core

import (
	"fmt"
	"slices"
)

// Enum is a string-backed exchange value. Responses decode any string the
// exchange sends; IsValid reports whether a value may be sent in a request.
type Enum interface {
	fmt.Stringer
	IsValid() bool
}

// CheckEnums returns an error for the first value that is not valid in a
// request. Nil entries are skipped, see Optional.
func CheckEnums(values ...Enum) error {
	for _, v := range values {
		if v != nil && !v.IsValid() {
			return fmt.Errorf("invalid %T %q", v, v.String())
		}
	}
	return nil
}

// Optional turns an unset request field into a nil Enum.
func Optional[T Enum](v *T) Enum {
	if v == nil {
		return nil
	}
	return *v
}

// OrderSide represents the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

func (s OrderSide) String() string { return string(s) }

func (s OrderSide) IsValid() bool { return s == SideBuy || s == SideSell }

// OrderType covers spot and futures order types.
type OrderType string

const (
	TypeLimit              OrderType = "LIMIT"
	TypeMarket             OrderType = "MARKET"
	TypeStopLoss           OrderType = "STOP_LOSS"
	TypeStopLossLimit      OrderType = "STOP_LOSS_LIMIT"
	TypeTakeProfit         OrderType = "TAKE_PROFIT"
	TypeTakeProfitLimit    OrderType = "TAKE_PROFIT_LIMIT"
	TypeLimitMaker         OrderType = "LIMIT_MAKER"
	TypeStop               OrderType = "STOP"
	TypeStopMarket         OrderType = "STOP_MARKET"
	TypeTakeProfitMarket   OrderType = "TAKE_PROFIT_MARKET"
	TypeTrailingStopMarket OrderType = "TRAILING_STOP_MARKET"
)

var orderTypes = []OrderType{
	TypeLimit,
	TypeMarket,
	TypeStopLoss,
	TypeStopLossLimit,
	TypeTakeProfit,
	TypeTakeProfitLimit,
	TypeLimitMaker,
	TypeStop,
	TypeStopMarket,
	TypeTakeProfitMarket,
	TypeTrailingStopMarket,
}

func (t OrderType) String() string { return string(t) }

func (t OrderType) IsValid() bool { return slices.Contains(orderTypes, t) }

// IsConditional reports whether the type is a trigger order. Portfolio margin
// routes these to the conditional order endpoints.
func (t OrderType) IsConditional() bool {
	return t.IsValid() && t != TypeLimit && t != TypeMarket && t != TypeLimitMaker
}

// ParseOrderType resolves an exchange order type name.
func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("order type: unknown value %q", s)
	}
	return t, nil
}

// PositionSide is the futures position side in hedge mode.
type PositionSide string

const (
	PositionBoth  PositionSide = "BOTH"
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

func (p PositionSide) String() string { return string(p) }

func (p PositionSide) IsValid() bool {
	return p == PositionBoth || p == PositionLong || p == PositionShort
}

// WorkingType selects the price that triggers stop orders.
type WorkingType string

const (
	WorkingMarkPrice     WorkingType = "MARK_PRICE"
	WorkingContractPrice WorkingType = "CONTRACT_PRICE"
)

func (w WorkingType) String() string { return string(w) }

func (w WorkingType) IsValid() bool {
	return w == WorkingMarkPrice || w == WorkingContractPrice
}

// TimeInForce specifies how long an order remains active.
type TimeInForce string

const (
	// GTC (Good Till Cancelled) remains active until filled or cancelled.
	GTC TimeInForce = "GTC"
	// IOC (Immediate Or Cancel) fills what it can and cancels the rest.
	IOC TimeInForce = "IOC"
	// FOK (Fill Or Kill) fills completely or is cancelled.
	FOK TimeInForce = "FOK"
	// GTX (Good Till Crossing) is post-only.
	GTX TimeInForce = "GTX"
	// GTD (Good Till Date) expires at goodTillDate.
	GTD TimeInForce = "GTD"
	// GTE is reported on close-position TP/SL orders. It cannot be sent.
	GTE TimeInForce = "GTE_GTC"
)

func (t TimeInForce) String() string { return string(t) }

func (t TimeInForce) IsValid() bool {
	switch t {
	case GTC, IOC, FOK, GTX, GTD:
		return true
	}
	return false
}

// ResponseType selects the amount of detail in order placement responses.
type ResponseType string

const (
	ResponseAck    ResponseType = "ACK"
	ResponseResult ResponseType = "RESULT"
	ResponseFull   ResponseType = "FULL"
)

func (r ResponseType) String() string { return string(r) }

func (r ResponseType) IsValid() bool {
	return r == ResponseAck || r == ResponseResult || r == ResponseFull
}

// SelfTradePreventionMode decides which side expires on a self trade.
type SelfTradePreventionMode string

const (
	STPNone        SelfTradePreventionMode = "NONE"
	STPExpireTaker SelfTradePreventionMode = "EXPIRE_TAKER"
	STPExpireMaker SelfTradePreventionMode = "EXPIRE_MAKER"
	STPExpireBoth  SelfTradePreventionMode = "EXPIRE_BOTH"
)

func (m SelfTradePreventionMode) String() string { return string(m) }

func (m SelfTradePreventionMode) IsValid() bool {
	switch m {
	case STPNone, STPExpireTaker, STPExpireMaker, STPExpireBoth:
		return true
	}
	return false
}

// MarginType is the futures margin mode of a symbol.
type MarginType string

const (
	MarginCrossed  MarginType = "CROSSED"
	MarginIsolated MarginType = "ISOLATED"
)

func (m MarginType) String() string { return string(m) }

func (m MarginType) IsValid() bool { return m == MarginCrossed || m == MarginIsolated }

// OrderStatus is kept as a string because each API family reports its own
// set of states (regular orders and conditional strategies differ).
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusPendingCancel   OrderStatus = "PENDING_CANCEL"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
	StatusExpiredInMatch  OrderStatus = "EXPIRED_IN_MATCH"
)

// IsOpen reports whether the order can still trade.
func (s OrderStatus) IsOpen() bool {
	return s == StatusNew || s == StatusPartiallyFilled || s == StatusPendingCancel
}

// KlineInterval is a candlestick interval such as "1m" or "1d".
type KlineInterval string

const (
	Interval1s  KlineInterval = "1s"
	Interval1m  KlineInterval = "1m"
	Interval3m  KlineInterval = "3m"
	Interval5m  KlineInterval = "5m"
	Interval15m KlineInterval = "15m"
	Interval30m KlineInterval = "30m"
	Interval1h  KlineInterval = "1h"
	Interval2h  KlineInterval = "2h"
	Interval4h  KlineInterval = "4h"
	Interval6h  KlineInterval = "6h"
	Interval8h  KlineInterval = "8h"
	Interval12h KlineInterval = "12h"
	Interval1d  KlineInterval = "1d"
	Interval3d  KlineInterval = "3d"
	Interval1w  KlineInterval = "1w"
	Interval1M  KlineInterval = "1M"
)
