// Package ratelimit paces requests by Binance request weight. Each API family
// (spot, futures, ...) has its own weight budget, so limits are kept per
// bucket and created lazily on first use.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a set of weight buckets sharing a default budget.
type Limiter struct {
	mu      sync.RWMutex
	weight  int
	period  time.Duration
	buckets map[string]*rate.Limiter
}

// New returns a limiter granting weight units per period to every bucket.
func New(weight int, period time.Duration) *Limiter {
	return &Limiter{
		weight:  weight,
		period:  period,
		buckets: make(map[string]*rate.Limiter),
	}
}

func every(weight int, period time.Duration) rate.Limit {
	return rate.Limit(float64(weight) / period.Seconds())
}

func (l *Limiter) bucket(name string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[name]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.buckets[name]; ok {
		return b
	}
	b = rate.NewLimiter(every(l.weight, l.period), l.weight)
	l.buckets[name] = b
	return b
}

// WaitN blocks until weight units are available in the named bucket.
// Weights above the bucket burst are clamped so heavy endpoints still pass.
func (l *Limiter) WaitN(ctx context.Context, name string, weight int) error {
	if weight <= 0 {
		weight = 1
	}
	b := l.bucket(name)
	if burst := b.Burst(); weight > burst {
		weight = burst
	}
	if err := b.WaitN(ctx, weight); err != nil {
		return fmt.Errorf("rate limit %s: %w", name, err)
	}
	return nil
}

// SetLimit replaces the budget of one bucket, for example after reading the
// REQUEST_WEIGHT entry of exchangeInfo. Weight already spent in the current
// window carries over. It reports whether anything changed.
func (l *Limiter) SetLimit(name string, weight int, period time.Duration) bool {
	if weight <= 0 || period <= 0 {
		return false
	}
	limit := every(weight, period)
	old := l.bucket(name)
	if old.Burst() == weight && old.Limit() == limit {
		return false
	}

	now := time.Now()
	b := rate.NewLimiter(limit, weight)
	if spent := int(math.Ceil(float64(old.Burst()) - old.TokensAt(now))); spent > 0 {
		b.ReserveN(now, min(spent, weight))
	}

	l.mu.Lock()
	l.buckets[name] = b
	l.mu.Unlock()
	return true
}

// Observe reconciles a bucket with the weight the server reports as used in
// the current window. Weight spent outside this process (other clients on the
// same IP) is drained from the bucket so later calls wait for it.
func (l *Limiter) Observe(name string, used int64) {
	if used <= 0 {
		return
	}
	b := l.bucket(name)
	now := time.Now()
	burst := b.Burst()
	local := float64(burst) - b.TokensAt(now)
	excess := int(math.Ceil(float64(used) - local))
	if excess <= 0 {
		return
	}
	excess = min(excess, burst)
	b.ReserveN(now, excess)
}

// Tokens returns the units currently available in a bucket.
func (l *Limiter) Tokens(name string) float64 {
	return l.bucket(name).TokensAt(time.Now())
}
