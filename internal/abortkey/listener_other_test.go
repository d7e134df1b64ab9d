//go:build !windows

package abortkey

import (
	"errors"
	"testing"
)

func TestStart_ReportsUnsupported(t *testing.T) {
	l := New()

	err := l.Start("esc", func() {})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestStart_RejectsMissingCallback(t *testing.T) {
	l := New()

	if err := l.Start("esc", nil); errors.Is(err, ErrUnsupported) || err == nil {
		t.Errorf("Expected a callback validation error, got %v", err)
	}
}

func TestStop_IsIdempotent(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		if err := l.Stop(); err != nil {
			t.Fatalf("Stop #%d failed: %v", i+1, err)
		}
	}
	if l.ActiveKey() != "" {
		t.Errorf("Expected no active key, got %q", l.ActiveKey())
	}
}
