package screen

import "testing"

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 100, Y: 0, Width: 800, Height: 600}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{X: 400, Y: 300}, true},
		{"top-left corner", Point{X: 100, Y: 0}, true},
		{"right edge is exclusive", Point{X: 900, Y: 300}, false},
		{"bottom edge is exclusive", Point{X: 400, Y: 600}, false},
		{"left of rect", Point{X: 99, Y: 300}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v; want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDisplayAt_PicksContainingDisplay(t *testing.T) {
	displays := []Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 2560, Height: 1440},
	}

	got := DisplayAt(Point{X: 2000, Y: 500}, displays)
	if got.X != 1920 || got.Width != 2560 {
		t.Errorf("Expected the second display, got %+v", got)
	}

	got = DisplayAt(Point{X: 100, Y: 100}, displays)
	if got.X != 0 || got.Width != 1920 {
		t.Errorf("Expected the first display, got %+v", got)
	}
}

func TestDisplayAt_UnresolvedFallsBackToPrimaryAtOriginZero(t *testing.T) {
	displays := []Rect{
		{X: 2560, Y: 0, Width: 1920, Height: 1080},
		{X: 0, Y: 0, Width: 2560, Height: 1440},
	}

	// A point in dead space between mismatched display heights.
	got := DisplayAt(Point{X: -50, Y: 5000}, displays)
	if got.X != 0 {
		t.Errorf("Fallback display X = %d; want 0", got.X)
	}
	if got.Width != 1920 {
		t.Errorf("Fallback should keep the primary display's width, got %d", got.Width)
	}
}

func TestDisplayAt_NoDisplays(t *testing.T) {
	got := DisplayAt(Point{X: 10, Y: 10}, nil)
	if got.Width != fallbackWidth || got.Height != fallbackHeight {
		t.Errorf("Expected the conventional fallback size, got %+v", got)
	}
}
