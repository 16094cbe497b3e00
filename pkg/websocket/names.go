package websocket

import (
	"strconv"
	"strings"
	"time"

	"nakula/pkg/core"
)

func streamSymbol(symbol string) string {
	return strings.ToLower(symbol)
}

// KlineStream is <symbol>@kline_<interval>.
func KlineStream(symbol string, interval core.KlineInterval) string {
	return streamSymbol(symbol) + "@kline_" + string(interval)
}

func AggTradeStream(symbol string) string {
	return streamSymbol(symbol) + "@aggTrade"
}

func TradeStream(symbol string) string {
	return streamSymbol(symbol) + "@trade"
}

// DepthStream names a diff depth stream when levels is 0 and a partial book
// stream (5, 10 or 20 levels) otherwise. A non-zero speed appends the update
// speed suffix, e.g. @100ms.
func DepthStream(symbol string, levels int, speed time.Duration) string {
	name := streamSymbol(symbol) + "@depth"
	if levels > 0 {
		name += strconv.Itoa(levels)
	}
	if speed > 0 {
		name += "@" + strconv.FormatInt(speed.Milliseconds(), 10) + "ms"
	}
	return name
}

// BookTickerStream names the per-symbol stream, or !bookTicker for every
// symbol when symbol is empty.
func BookTickerStream(symbol string) string {
	if symbol == "" {
		return "!bookTicker"
	}
	return streamSymbol(symbol) + "@bookTicker"
}

// MarkPriceStream names the futures mark price stream of symbol, or the
// all-market array stream when symbol is empty. everySecond selects the 1s
// update speed instead of 3s.
func MarkPriceStream(symbol string, everySecond bool) string {
	name := "!markPrice@arr"
	if symbol != "" {
		name = streamSymbol(symbol) + "@markPrice"
	}
	if everySecond {
		name += "@1s"
	}
	return name
}
