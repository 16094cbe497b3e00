package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nakula/pkg/core"
)

func TestStreamNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{KlineStream("BTCUSDT", core.Interval1m), "btcusdt@kline_1m"},
		{AggTradeStream("BNBBTC"), "bnbbtc@aggTrade"},
		{TradeStream("BNBBTC"), "bnbbtc@trade"},
		{DepthStream("BTCUSDT", 0, 0), "btcusdt@depth"},
		{DepthStream("BTCUSDT", 0, 100*time.Millisecond), "btcusdt@depth@100ms"},
		{DepthStream("BTCUSDT", 20, 0), "btcusdt@depth20"},
		{DepthStream("BTCUSDT", 5, 500*time.Millisecond), "btcusdt@depth5@500ms"},
		{BookTickerStream("ETHUSDT"), "ethusdt@bookTicker"},
		{BookTickerStream(""), "!bookTicker"},
		{MarkPriceStream("BTCUSDT", false), "btcusdt@markPrice"},
		{MarkPriceStream("BTCUSDT", true), "btcusdt@markPrice@1s"},
		{MarkPriceStream("", true), "!markPrice@arr@1s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
