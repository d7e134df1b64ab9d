// Package screen answers two questions the overlay asks constantly: where is
// the mouse cursor, and what display is it on. Each platform has its own
// provider; the geometry math is shared.
package screen

// Point is a position in global (virtual desktop) coordinates
type Point struct {
	X int
	Y int
}

// Rect is a display's bounds in global coordinates
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p falls inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Provider supplies cursor position and display geometry queries
type Provider interface {
	// CursorPosition returns the global cursor position
	CursorPosition() (Point, error)
	// Displays returns the bounds of every attached display, primary first
	Displays() ([]Rect, error)
}

// New returns the provider for the current platform
func New() Provider {
	return newPlatformProvider()
}

// Dimensions assumed when not a single display can be enumerated
const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// DisplayAt resolves the display containing p. When no display contains the
// point the primary display is assumed, anchored at x 0 so the bar stays
// reachable; with no displays at all a conventional desktop size is used.
func DisplayAt(p Point, displays []Rect) Rect {
	for _, d := range displays {
		if d.Contains(p) {
			return d
		}
	}
	if len(displays) > 0 {
		primary := displays[0]
		primary.X = 0
		return primary
	}
	return Rect{Width: fallbackWidth, Height: fallbackHeight}
}
