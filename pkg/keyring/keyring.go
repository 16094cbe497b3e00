// Package keyring holds a set of Binance API credentials and picks the one to
// use for the next signed request.
package keyring

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrNoKeys = errors.New("keyring: no enabled keys")

// Key is one API key and secret pair.
type Key struct {
	ID        string
	APIKey    string
	SecretKey string
	Disabled  bool
	LastUsed  time.Time
	Errors    int
}

func (k Key) String() string {
	return fmt.Sprintf("Key{ID:%s, APIKey:%s}", k.ID, maskKey(k.APIKey))
}

type RotationStrategy int

const (
	// RotateNever keeps the current key until it is disabled.
	RotateNever RotationStrategy = iota
	// RotateRoundRobin advances after every use.
	RotateRoundRobin
	// RotateOnError advances when a request with the current key is rejected.
	RotateOnError
)

type KeyRing struct {
	mu       sync.RWMutex
	keys     []*Key
	current  int
	strategy RotationStrategy
	logger   zerolog.Logger
}

func New(keys []Key, strategy RotationStrategy, logger zerolog.Logger) *KeyRing {
	k := &KeyRing{
		keys:     make([]*Key, 0, len(keys)),
		strategy: strategy,
		logger:   logger.With().Str("component", "keyring").Logger(),
	}
	for _, key := range keys {
		k.keys = append(k.keys, &key)
	}
	return k
}

// Next returns the key for the next request and marks it used.
func (k *KeyRing) Next() (Key, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	idx, ok := k.enabledFrom(k.current)
	if !ok {
		return Key{}, ErrNoKeys
	}
	k.current = idx
	key := k.keys[idx]
	key.LastUsed = time.Now()
	out := *key

	if k.strategy == RotateRoundRobin {
		k.advance()
	}
	return out, nil
}

// Current returns the selected key without marking it used.
func (k *KeyRing) Current() (Key, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	idx, ok := k.enabledFrom(k.current)
	if !ok {
		return Key{}, ErrNoKeys
	}
	return *k.keys[idx], nil
}

// Rotate moves to the next enabled key.
func (k *KeyRing) Rotate() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.advance()
}

// ReportError records a rejected request for the key with the given id and
// rotates away from it under RotateOnError.
func (k *KeyRing) ReportError(id string, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i, key := range k.keys {
		if key.ID != id {
			continue
		}
		key.Errors++
		k.logger.Warn().Err(err).Str("key", key.String()).Int("errors", key.Errors).Msg("key rejected")
		if k.strategy == RotateOnError && i == k.current {
			k.advance()
		}
		return
	}
}

func (k *KeyRing) Disable(id string) {
	k.setDisabled(id, true)
}

func (k *KeyRing) Enable(id string) {
	k.setDisabled(id, false)
}

func (k *KeyRing) setDisabled(id string, disabled bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, key := range k.keys {
		if key.ID == id {
			key.Disabled = disabled
			if !disabled {
				key.Errors = 0
			}
			return
		}
	}
}

// Add appends a key unless one with the same id exists.
func (k *KeyRing) Add(key Key) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, existing := range k.keys {
		if existing.ID == key.ID {
			return false
		}
	}
	k.keys = append(k.keys, &key)
	return true
}

func (k *KeyRing) Remove(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i, key := range k.keys {
		if key.ID != id {
			continue
		}
		k.keys = append(k.keys[:i], k.keys[i+1:]...)
		if i < k.current {
			k.current--
		}
		if k.current >= len(k.keys) {
			k.current = 0
		}
		return
	}
}

func (k *KeyRing) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

// advance must be called with the write lock held.
func (k *KeyRing) advance() {
	if len(k.keys) == 0 {
		return
	}
	if idx, ok := k.enabledFrom(k.current + 1); ok {
		k.current = idx
	}
}

func (k *KeyRing) enabledFrom(start int) (int, bool) {
	n := len(k.keys)
	for i := range n {
		idx := (start + i) % n
		if !k.keys[idx].Disabled {
			return idx, true
		}
	}
	return 0, false
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
