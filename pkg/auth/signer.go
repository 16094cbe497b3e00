// Package auth signs request payloads the way Binance expects: HMAC-SHA256
// over the exact query string, hex encoded, appended as the last parameter.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"nakula/pkg/core"
)

// HeaderAPIKey carries the API key on keyed and signed requests.
const HeaderAPIKey = "X-MBX-APIKEY"

// Signer computes request signatures and stamps timestamps.
// It is safe for concurrent use.
type Signer struct {
	secret     []byte
	recvWindow int64

	mu     sync.RWMutex
	now    func() time.Time
	offset atomic.Int64
}

// NewSigner creates a signer for secret. recvWindow is added to signed
// payloads when positive.
func NewSigner(secret string, recvWindow int64) *Signer {
	return &Signer{
		secret:     []byte(secret),
		recvWindow: recvWindow,
		now:        time.Now,
	}
}

// SetClock replaces the time source.
func (s *Signer) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// SetTimeOffset sets the difference between server and local time, applied
// to every timestamp.
func (s *Signer) SetTimeOffset(offset time.Duration) {
	s.offset.Store(int64(offset))
}

// TimeOffset returns the current server time offset.
func (s *Signer) TimeOffset() time.Duration {
	return time.Duration(s.offset.Load())
}

// Timestamp returns the current request timestamp in milliseconds.
func (s *Signer) Timestamp() int64 {
	s.mu.RLock()
	now := s.now
	s.mu.RUnlock()
	return now().Add(s.TimeOffset()).UnixMilli()
}

// Sign returns the lowercase hex HMAC-SHA256 of payload.
func (s *Signer) Sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams adds recvWindow and timestamp to a copy of params, encodes it in
// key order and appends the signature as the final parameter.
func (s *Signer) SignParams(params core.Params) string {
	signed := params.Clone()
	if s.recvWindow > 0 {
		signed.SetInt64("recvWindow", s.recvWindow)
	}
	signed.SetInt64("timestamp", s.Timestamp())

	query := signed.Encode()
	return query + "&signature=" + s.Sign(query)
}
