package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

const (
	docSecret  = "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	docPayload = "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	docSig     = "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestSigner_SignMatchesDocumentedVector(t *testing.T) {
	signer := NewSigner(docSecret, 5000)
	assert.Equal(t, docSig, signer.Sign(docPayload))
}

func TestSigner_SignIsDeterministic(t *testing.T) {
	signer := NewSigner("secret", 0)

	first := signer.Sign("symbol=BTCUSDT&timestamp=1")
	for range 5 {
		assert.Equal(t, first, signer.Sign("symbol=BTCUSDT&timestamp=1"))
	}
	assert.NotEqual(t, first, signer.Sign("symbol=BTCUSDT&timestamp=2"))
	assert.NotEqual(t, first, NewSigner("other", 0).Sign("symbol=BTCUSDT&timestamp=1"))
	assert.Len(t, first, 64)
}

func TestSigner_SignParams(t *testing.T) {
	signer := NewSigner(docSecret, 5000)
	signer.SetClock(fixedClock(1499827319559))

	params := core.NewParams().
		Set("symbol", "LTCBTC").
		Set("side", "BUY").
		Set("type", "LIMIT").
		Set("timeInForce", "GTC").
		Set("quantity", "1").
		Set("price", "0.1")

	query := signer.SignParams(params)

	unsigned := "price=0.1&quantity=1&recvWindow=5000&side=BUY&symbol=LTCBTC&timeInForce=GTC&timestamp=1499827319559&type=LIMIT"
	assert.Equal(t, unsigned+"&signature="+signer.Sign(unsigned), query)
	assert.NotContains(t, params, "timestamp", "input params must not be mutated")
	assert.NotContains(t, params, "recvWindow")
}

func TestSigner_SignatureIsLastParameter(t *testing.T) {
	signer := NewSigner("secret", 0)
	signer.SetClock(fixedClock(1700000000000))

	query := signer.SignParams(core.NewParams().Set("zzz", "1").Set("symbol", "BTCUSDT"))

	idx := strings.LastIndex(query, "&signature=")
	require.Positive(t, idx)
	assert.Len(t, query[idx+len("&signature="):], 64)
	assert.NotContains(t, query[:idx], "signature")
}

func TestSigner_RecvWindowOmittedWhenZero(t *testing.T) {
	signer := NewSigner("secret", 0)
	signer.SetClock(fixedClock(1700000000000))

	query := signer.SignParams(core.NewParams())
	assert.True(t, strings.HasPrefix(query, "timestamp=1700000000000&signature="))
	assert.NotContains(t, query, "recvWindow")
}

func TestSigner_TimeOffset(t *testing.T) {
	signer := NewSigner("secret", 5000)
	signer.SetClock(fixedClock(1700000000000))
	signer.SetTimeOffset(-1500 * time.Millisecond)

	assert.Equal(t, int64(1699999998500), signer.Timestamp())
	assert.Equal(t, -1500*time.Millisecond, signer.TimeOffset())
	assert.Contains(t, signer.SignParams(nil), "timestamp=1699999998500")
}

func TestSigner_Concurrent(t *testing.T) {
	signer := NewSigner("secret", 5000)
	params := core.NewParams().Set("symbol", "BTCUSDT")

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			query := signer.SignParams(params)
			assert.Contains(t, query, "symbol=BTCUSDT")
		})
	}
	wg.Wait()
}
