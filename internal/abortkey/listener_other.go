//go:build !windows

package abortkey

import "errors"

// Listener watches one key system-wide.
type Listener struct{}

// New creates a new abort key listener.
func New() *Listener {
	return &Listener{}
}

// Start reports ErrUnsupported: no global key hook exists on this platform.
// Callers are expected to fall back to an in-window key binding.
func (l *Listener) Start(key string, onTrigger func()) error {
	if onTrigger == nil {
		return errors.New("onTrigger callback is required")
	}
	if NormalizeKey(key) == "" {
		return errors.New("abort key is empty")
	}
	return ErrUnsupported
}

// Stop is a no-op; nothing is ever registered on this platform.
func (l *Listener) Stop() error {
	return nil
}

// ActiveKey returns "" on platforms without a global hook.
func (l *Listener) ActiveKey() string {
	return ""
}
