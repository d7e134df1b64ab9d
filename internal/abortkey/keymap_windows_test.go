//go:build windows

package abortkey

import "testing"

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		want uint32
	}{
		{"esc", 0x1B},
		{"escape", 0x1B},
		{"space", 0x20},
		{"enter", 0x0D},
		{"delete", 0x2E},
		{"f1", 0x70},
		{"f12", 0x7B},
		{"f24", 0x87},
		{"a", 0x41},
		{"z", 0x5A},
		{"0", 0x30},
		{"9", 0x39},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := keyCode(tt.name)
			if err != nil {
				t.Fatalf("keyCode(%q) failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("keyCode(%q) = %#x; want %#x", tt.name, got, tt.want)
			}
		})
	}
}

func TestKeyCode_Unknown(t *testing.T) {
	for _, bad := range []string{"", "f0", "f25", "fn", "meta", "??", "aa"} {
		if _, err := keyCode(bad); err == nil {
			t.Errorf("Expected error for %q, got none", bad)
		}
	}
}
