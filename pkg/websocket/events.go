package websocket

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/valyala/fastjson"

	"nakula/pkg/core"
)

// Event type names as carried in the "e" field. EventDepthSnapshot and
// EventResponse have no "e" on the wire.
const (
	EventKline                   = "kline"
	EventAggTrade                = "aggTrade"
	EventTrade                   = "trade"
	EventDepthUpdate             = "depthUpdate"
	EventDepthSnapshot           = "depthSnapshot"
	EventBookTicker              = "bookTicker"
	EventMarkPrice               = "markPriceUpdate"
	EventAccountUpdate           = "ACCOUNT_UPDATE"
	EventOrderTradeUpdate        = "ORDER_TRADE_UPDATE"
	EventExecutionReport         = "executionReport"
	EventOutboundAccountPosition = "outboundAccountPosition"
	EventBalanceUpdate           = "balanceUpdate"
	EventListenKeyExpired        = "listenKeyExpired"
	EventResponse                = "response"
)

// ErrUnsupportedFrame is returned by ParseEvent for frames that are neither
// an event, a batch, nor a method response.
var ErrUnsupportedFrame = errors.New("unsupported stream frame")

// Event is a decoded stream frame.
type Event interface {
	EventType() string
}

// EventBase holds the fields every pushed event carries. Payload structs
// declare both members of every upper/lower case key pair so that decoding
// never folds one key into the other's field.
type EventBase struct {
	Type string         `json:"e"`
	Time core.Timestamp `json:"E"`
}

func (e EventBase) EventType() string { return e.Type }

// EventBatch is an array frame such as !markPrice@arr.
type EventBatch []Event

func (EventBatch) EventType() string { return "batch" }

// RawEvent is an event with a type this package does not model.
type RawEvent struct {
	EventBase
	Data []byte
}

type KlineEvent struct {
	EventBase
	Symbol string `json:"s"`
	Kline  Kline  `json:"k"`
}

type Kline struct {
	StartTime            core.Timestamp     `json:"t"`
	CloseTime            core.Timestamp     `json:"T"`
	Symbol               string             `json:"s"`
	Interval             core.KlineInterval `json:"i"`
	FirstTradeID         int64              `json:"f"`
	LastTradeID          int64              `json:"L"`
	Open                 core.Number        `json:"o"`
	Close                core.Number        `json:"c"`
	High                 core.Number        `json:"h"`
	Low                  core.Number        `json:"l"`
	Volume               core.Number        `json:"v"`
	NumberOfTrades       int64              `json:"n"`
	IsFinal              bool               `json:"x"`
	QuoteVolume          core.Number        `json:"q"`
	ActiveBuyVolume      core.Number        `json:"V"`
	ActiveBuyQuoteVolume core.Number        `json:"Q"`
}

type AggTradeEvent struct {
	EventBase
	Symbol       string         `json:"s"`
	AggTradeID   int64          `json:"a"`
	Price        core.Number    `json:"p"`
	Quantity     core.Number    `json:"q"`
	FirstTradeID int64          `json:"f"`
	LastTradeID  int64          `json:"l"`
	TradeTime    core.Timestamp `json:"T"`
	IsBuyerMaker bool           `json:"m"`
	IsBestMatch  bool           `json:"M"`
}

type TradeEvent struct {
	EventBase
	Symbol       string         `json:"s"`
	TradeID      int64          `json:"t"`
	Price        core.Number    `json:"p"`
	Quantity     core.Number    `json:"q"`
	TradeTime    core.Timestamp `json:"T"`
	IsBuyerMaker bool           `json:"m"`
	IsBestMatch  bool           `json:"M"`
}

// DepthEvent is a diff depth update. Futures fill TransactionTime and
// PrevFinalUpdateID; spot leaves them zero.
type DepthEvent struct {
	EventBase
	TransactionTime   core.Timestamp    `json:"T"`
	Symbol            string            `json:"s"`
	FirstUpdateID     int64             `json:"U"`
	FinalUpdateID     int64             `json:"u"`
	PrevFinalUpdateID int64             `json:"pu"`
	Bids              []core.PriceLevel `json:"b"`
	Asks              []core.PriceLevel `json:"a"`
}

// DepthSnapshotEvent is a spot partial book depth frame.
type DepthSnapshotEvent struct {
	LastUpdateID int64             `json:"lastUpdateId"`
	Bids         []core.PriceLevel `json:"bids"`
	Asks         []core.PriceLevel `json:"asks"`
}

func (*DepthSnapshotEvent) EventType() string { return EventDepthSnapshot }

// BookTickerEvent is a best bid/ask update. Spot frames carry no "e" and no
// times.
type BookTickerEvent struct {
	EventBase
	UpdateID        int64          `json:"u"`
	TransactionTime core.Timestamp `json:"T"`
	Symbol          string         `json:"s"`
	BidPrice        core.Number    `json:"b"`
	BidQuantity     core.Number    `json:"B"`
	AskPrice        core.Number    `json:"a"`
	AskQuantity     core.Number    `json:"A"`
}

func (*BookTickerEvent) EventType() string { return EventBookTicker }

type MarkPriceEvent struct {
	EventBase
	Symbol               string         `json:"s"`
	MarkPrice            core.Number    `json:"p"`
	IndexPrice           core.Number    `json:"i"`
	EstimatedSettlePrice core.Number    `json:"P"`
	FundingRate          core.Number    `json:"r"`
	NextFundingTime      core.Timestamp `json:"T"`
}

// AccountUpdateEvent is the futures balance and position push.
type AccountUpdateEvent struct {
	EventBase
	TransactionTime core.Timestamp `json:"T"`
	Update          AccountUpdate  `json:"a"`
}

type AccountUpdate struct {
	Reason    string                  `json:"m"`
	Balances  []AccountBalanceUpdate  `json:"B"`
	Positions []AccountPositionUpdate `json:"P"`
}

type AccountBalanceUpdate struct {
	Asset              string      `json:"a"`
	WalletBalance      core.Number `json:"wb"`
	CrossWalletBalance core.Number `json:"cw"`
	BalanceChange      core.Number `json:"bc"`
}

type AccountPositionUpdate struct {
	Symbol              string            `json:"s"`
	PositionAmount      core.Number       `json:"pa"`
	EntryPrice          core.Number       `json:"ep"`
	BreakEvenPrice      core.Number       `json:"bep"`
	AccumulatedRealized core.Number       `json:"cr"`
	UnrealizedPnL       core.Number       `json:"up"`
	MarginType          string            `json:"mt"`
	IsolatedWallet      core.Number       `json:"iw"`
	PositionSide        core.PositionSide `json:"ps"`
}

// OrderTradeUpdateEvent is the futures order push.
type OrderTradeUpdateEvent struct {
	EventBase
	TransactionTime core.Timestamp `json:"T"`
	Order           OrderUpdate    `json:"o"`
}

type OrderUpdate struct {
	Symbol               string            `json:"s"`
	ClientOrderID        string            `json:"c"`
	Side                 core.OrderSide    `json:"S"`
	Type                 core.OrderType    `json:"o"`
	TimeInForce          string            `json:"f"`
	OrigQty              core.Number       `json:"q"`
	Price                core.Number       `json:"p"`
	AvgPrice             core.Number       `json:"ap"`
	StopPrice            core.Number       `json:"sp"`
	ExecutionType        string            `json:"x"`
	Status               core.OrderStatus  `json:"X"`
	OrderID              int64             `json:"i"`
	LastFilledQty        core.Number       `json:"l"`
	FilledAccumulatedQty core.Number       `json:"z"`
	LastFilledPrice      core.Number       `json:"L"`
	CommissionAsset      string            `json:"N"`
	Commission           core.Number       `json:"n"`
	TradeTime            core.Timestamp    `json:"T"`
	TradeID              int64             `json:"t"`
	BidsNotional         core.Number       `json:"b"`
	AsksNotional         core.Number       `json:"a"`
	IsMaker              bool              `json:"m"`
	IsReduceOnly         bool              `json:"R"`
	WorkingType          string            `json:"wt"`
	OrigType             string            `json:"ot"`
	PositionSide         core.PositionSide `json:"ps"`
	IsClosePosition      bool              `json:"cp"`
	ActivationPrice      core.Number       `json:"AP"`
	CallbackRate         core.Number       `json:"cr"`
	PriceProtect         bool              `json:"pP"`
	RealizedProfit       core.Number       `json:"rp"`
	STPMode              string            `json:"V"`
	PriceMatch           string            `json:"pm"`
	GoodTillDate         core.Timestamp    `json:"gtd"`
}

// ExecutionReportEvent is the spot and margin order push.
type ExecutionReportEvent struct {
	EventBase
	Symbol              string           `json:"s"`
	ClientOrderID       string           `json:"c"`
	Side                core.OrderSide   `json:"S"`
	Type                core.OrderType   `json:"o"`
	TimeInForce         core.TimeInForce `json:"f"`
	Quantity            core.Number      `json:"q"`
	Price               core.Number      `json:"p"`
	StopPrice           core.Number      `json:"P"`
	IcebergQuantity     core.Number      `json:"F"`
	OrderListID         int64            `json:"g"`
	OrigClientOrderID   string           `json:"C"`
	ExecutionType       string           `json:"x"`
	Status              core.OrderStatus `json:"X"`
	RejectReason        string           `json:"r"`
	OrderID             int64            `json:"i"`
	LastExecutedQty     core.Number      `json:"l"`
	CumulativeFilledQty core.Number      `json:"z"`
	LastExecutedPrice   core.Number      `json:"L"`
	Commission          core.Number      `json:"n"`
	CommissionAsset     string           `json:"N"`
	TransactionTime     core.Timestamp   `json:"T"`
	TradeID             int64            `json:"t"`
	ExecutionID         int64            `json:"I"`
	IsOnBook            bool             `json:"w"`
	IsMaker             bool             `json:"m"`
	Ignore              bool             `json:"M"`
	CreationTime        core.Timestamp   `json:"O"`
	CumulativeQuoteQty  core.Number      `json:"Z"`
	LastQuoteQty        core.Number      `json:"Y"`
	QuoteOrderQty       core.Number      `json:"Q"`
	WorkingTime         core.Timestamp   `json:"W"`
	STPMode             string           `json:"V"`
	PreventedMatchID    int64            `json:"v"`
}

type OutboundAccountPositionEvent struct {
	EventBase
	LastUpdateTime core.Timestamp   `json:"u"`
	Balances       []AccountBalance `json:"B"`
}

type AccountBalance struct {
	Asset  string      `json:"a"`
	Free   core.Number `json:"f"`
	Locked core.Number `json:"l"`
}

type BalanceUpdateEvent struct {
	EventBase
	Asset        string         `json:"a"`
	Delta        core.Number    `json:"d"`
	ClearingTime core.Timestamp `json:"T"`
}

type ListenKeyExpiredEvent struct {
	EventBase
	ListenKey string `json:"listenKey"`
}

// Response answers a SUBSCRIBE, UNSUBSCRIBE or LIST_SUBSCRIPTIONS request.
type Response struct {
	ID     int64          `json:"id"`
	Result any            `json:"result"`
	Error  *ResponseError `json:"error"`
}

func (*Response) EventType() string { return EventResponse }

type ResponseError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("stream request rejected: code=%d msg=%s", e.Code, e.Msg)
}

// ParseEvent decodes one frame. Combined stream envelopes are unwrapped and
// the routing uses the "e" field of the payload.
func ParseEvent(data []byte) (Event, error) {
	_, event, err := ParseStreamEvent(data)
	return event, err
}

// ParseStreamEvent is ParseEvent that also returns the stream name of a
// combined stream envelope, or "" for a raw frame.
func ParseStreamEvent(data []byte) (string, Event, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return "", nil, fmt.Errorf("parse stream frame: %w", err)
	}

	if v.Type() == fastjson.TypeObject && v.Exists("stream") && v.Exists("data") {
		inner := v.Get("data")
		event, err := parseValue(inner, inner.MarshalTo(nil))
		return string(v.GetStringBytes("stream")), event, err
	}
	event, err := parseValue(v, data)
	return "", event, err
}

func parseValue(v *fastjson.Value, data []byte) (Event, error) {
	switch v.Type() {
	case fastjson.TypeArray:
		items := v.GetArray()
		batch := make(EventBatch, 0, len(items))
		for _, item := range items {
			event, err := parseValue(item, item.MarshalTo(nil))
			if err != nil {
				return nil, err
			}
			batch = append(batch, event)
		}
		return batch, nil
	case fastjson.TypeObject:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFrame, v.Type())
	}

	eventType := string(v.GetStringBytes("e"))
	switch eventType {
	case EventKline:
		return decodeEvent(eventType, data, &KlineEvent{})
	case EventAggTrade:
		return decodeEvent(eventType, data, &AggTradeEvent{})
	case EventTrade:
		return decodeEvent(eventType, data, &TradeEvent{})
	case EventDepthUpdate:
		return decodeEvent(eventType, data, &DepthEvent{})
	case EventBookTicker:
		return decodeEvent(eventType, data, &BookTickerEvent{})
	case EventMarkPrice:
		return decodeEvent(eventType, data, &MarkPriceEvent{})
	case EventAccountUpdate:
		return decodeEvent(eventType, data, &AccountUpdateEvent{})
	case EventOrderTradeUpdate:
		return decodeEvent(eventType, data, &OrderTradeUpdateEvent{})
	case EventExecutionReport:
		return decodeEvent(eventType, data, &ExecutionReportEvent{})
	case EventOutboundAccountPosition:
		return decodeEvent(eventType, data, &OutboundAccountPositionEvent{})
	case EventBalanceUpdate:
		return decodeEvent(eventType, data, &BalanceUpdateEvent{})
	case EventListenKeyExpired:
		return decodeEvent(eventType, data, &ListenKeyExpiredEvent{})
	case "":
		switch {
		case v.Exists("id") && (v.Exists("result") || v.Exists("error")):
			return decodeEvent(EventResponse, data, &Response{})
		case v.Exists("lastUpdateId"):
			return decodeEvent(EventDepthSnapshot, data, &DepthSnapshotEvent{})
		case v.Exists("u") && v.Exists("b") && v.Exists("a"):
			return decodeEvent(EventBookTicker, data, &BookTickerEvent{})
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFrame, data)
	default:
		return &RawEvent{
			EventBase: EventBase{Type: eventType, Time: core.Timestamp(v.GetInt64("E"))},
			Data:      data,
		}, nil
	}
}

func decodeEvent(eventType string, data []byte, event Event) (Event, error) {
	if err := sonic.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", eventType, err)
	}
	return event, nil
}
