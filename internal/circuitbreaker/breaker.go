// Package circuitbreaker stops sending requests to a host that keeps failing
// at the transport or server level, and probes it again after a cool-down.
package circuitbreaker

import (
	"sync"
	"time"
)

type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

type Config struct {
	FailThreshold    int           `json:"fail_threshold"`
	SuccessThreshold int           `json:"success_threshold"`
	Timeout          time.Duration `json:"timeout"`

	// OnStateChange is called outside the breaker lock on every transition.
	OnStateChange func(from, to State) `json:"-"`
}

type Breaker struct {
	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
	config    Config
	now       func() time.Time
}

func New(config Config) *Breaker {
	if config.FailThreshold <= 0 {
		config.FailThreshold = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	return &Breaker{config: config, now: time.Now}
}

// SetClock replaces the time source.
func (b *Breaker) SetClock(now func() time.Time) {
	b.mu.Lock()
	b.now = now
	b.mu.Unlock()
}

// Allow reports whether a call may proceed. An open breaker whose timeout has
// elapsed moves to half-open and lets the probe through.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	var from State
	changed := false
	allowed := true
	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) >= b.config.Timeout {
			from, changed = b.transition(StateHalfOpen)
		} else {
			allowed = false
		}
	}
	b.mu.Unlock()

	if changed {
		b.notify(from, StateHalfOpen)
	}
	return allowed
}

// Record reports the outcome of a call admitted by Allow.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	var (
		from    State
		to      State
		changed bool
	)
	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			break
		}
		b.failures++
		if b.failures >= b.config.FailThreshold {
			to = StateOpen
			from, changed = b.transition(to)
		}
	case StateHalfOpen:
		if !success {
			to = StateOpen
			from, changed = b.transition(to)
			break
		}
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			to = StateClosed
			from, changed = b.transition(to)
		}
	case StateOpen:
		// Late results from calls admitted before the breaker opened.
	}
	b.mu.Unlock()

	if changed {
		b.notify(from, to)
	}
}

func (b *Breaker) transition(to State) (State, bool) {
	from := b.state
	if from == to {
		return from, false
	}
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == StateOpen {
		b.openedAt = b.now()
	}
	return from, true
}

func (b *Breaker) notify(from, to State) {
	if b.config.OnStateChange != nil {
		b.config.OnStateChange(from, to)
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset closes the breaker regardless of its state.
func (b *Breaker) Reset() {
	b.mu.Lock()
	from, changed := b.transition(StateClosed)
	b.mu.Unlock()
	if changed {
		b.notify(from, StateClosed)
	}
}
