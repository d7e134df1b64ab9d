package abortkey

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"esc", "esc"},
		{"ESC", "esc"},
		{"  Esc  ", "esc"},
		{"F12", "f12"},
		{"A", "a"},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
