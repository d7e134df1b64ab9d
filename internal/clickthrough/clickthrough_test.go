package clickthrough

import "testing"

func TestLayeredAlpha(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		want  byte
	}{
		{"default fill", 0.3, 76},
		{"opaque", 1.0, 255},
		{"minimum fill", 0.05, 12},
		{"half", 0.5, 127},
		{"clamped below", -1, 0},
		{"clamped above", 2, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layeredAlpha(tt.alpha); got != tt.want {
				t.Errorf("layeredAlpha(%v) = %d; want %d", tt.alpha, got, tt.want)
			}
		})
	}
}
