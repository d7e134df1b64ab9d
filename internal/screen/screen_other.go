//go:build !windows && !darwin && !linux

package screen

import "fmt"

type stubProvider struct{}

func newPlatformProvider() Provider {
	return stubProvider{}
}

func (stubProvider) CursorPosition() (Point, error) {
	return Point{}, fmt.Errorf("cursor tracking not supported on this platform")
}

func (stubProvider) Displays() ([]Rect, error) {
	return nil, fmt.Errorf("display enumeration not supported on this platform")
}
