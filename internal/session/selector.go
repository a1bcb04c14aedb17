package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrSelectorUnavailable is returned by selectors that cannot open a key
	// picker in the current environment.
	ErrSelectorUnavailable = errors.New("session: key selector unavailable")

	// ErrSelectionCancelled is returned when the user closes the picker
	// without choosing a key.
	ErrSelectionCancelled = errors.New("session: key selection cancelled")
)

// KeySelector is the host capability for choosing an API key.
type KeySelector interface {
	HasSelectedKey(ctx context.Context) (bool, error)
	OpenSelectKey(ctx context.Context) error
}

// Fallback is used when the host offers no selector. It assumes a key is
// present and cannot open a picker.
type Fallback struct{}

func (Fallback) HasSelectedKey(context.Context) (bool, error) { return true, nil }

func (Fallback) OpenSelectKey(context.Context) error { return ErrSelectorUnavailable }

// Resolve returns sel, or Fallback when sel is nil.
func Resolve(sel KeySelector) KeySelector {
	if sel == nil {
		return Fallback{}
	}
	return sel
}

// EnvSelector reports a key as selected when Lookup resolves a non-empty
// value. Prompt, when set, lets the user enter one (the setup form).
type EnvSelector struct {
	Lookup func() string
	Prompt func(ctx context.Context) error
}

func (s EnvSelector) HasSelectedKey(context.Context) (bool, error) {
	if s.Lookup == nil {
		return false, nil
	}
	return strings.TrimSpace(s.Lookup()) != "", nil
}

func (s EnvSelector) OpenSelectKey(ctx context.Context) error {
	if s.Prompt == nil {
		return ErrSelectorUnavailable
	}
	return s.Prompt(ctx)
}

// ChosenKey holds a key picked during this run. It outranks the environment
// and the config file, so a key chosen after a rejection is the one sent.
// The zero value is empty; a nil *ChosenKey is always empty.
type ChosenKey struct {
	mu  sync.RWMutex
	key string
}

// Set records key, trimmed.
func (c *ChosenKey) Set(key string) {
	c.mu.Lock()
	c.key = strings.TrimSpace(key)
	c.mu.Unlock()
}

// Get returns the chosen key, or "".
func (c *ChosenKey) Get() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key
}

// Or returns a lookup that prefers the chosen key over fallback.
func (c *ChosenKey) Or(fallback func() string) func() string {
	return func() string {
		if k := c.Get(); k != "" {
			return k
		}
		if fallback == nil {
			return ""
		}
		return fallback()
	}
}
