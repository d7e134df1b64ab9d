// Package abortkey watches a single key system-wide and fires a callback
// when it is pressed, no matter which application has focus. Only Windows
// has a global hook implementation; other platforms report ErrUnsupported
// and callers fall back to an in-window key binding.
package abortkey

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned by Start on platforms without a global key hook
var ErrUnsupported = errors.New("global key listening not supported on this platform")

// NormalizeKey canonicalizes a user-entered key name: trimmed and
// lower-cased, so "Esc", " ESC " and "esc" all name the same key. Printable
// characters stand for themselves; anything else is a symbolic name like
// "esc" or "f12".
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
