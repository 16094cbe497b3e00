package ws

import "sync/atomic"

// ConnState is the lifecycle state of a Client.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	// StateReconnecting is held for the whole backoff cycle after an
	// unexpected close.
	StateReconnecting
	// StateClosed is terminal.
	StateClosed
)

var connStateNames = [...]string{
	"disconnected",
	"connecting",
	"connected",
	"reconnecting",
	"closed",
}

func (s ConnState) String() string {
	if s < 0 || int(s) >= len(connStateNames) {
		return "unknown"
	}
	return connStateNames[s]
}

// State is an atomically updated ConnState.
type State struct {
	state atomic.Int32
}

func (s *State) Load() ConnState {
	return ConnState(s.state.Load())
}

func (s *State) Store(state ConnState) {
	s.state.Store(int32(state))
}

// Swap stores state and returns the previous value.
func (s *State) Swap(state ConnState) ConnState {
	return ConnState(s.state.Swap(int32(state)))
}

// CompareAndSwap moves from old to new and reports whether it did.
func (s *State) CompareAndSwap(old, new ConnState) bool {
	return s.state.CompareAndSwap(int32(old), int32(new))
}
