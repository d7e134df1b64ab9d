// Package clickthrough makes the overlay window transparent to mouse input.
// Each platform does this with a different native API; all variants locate
// the window by its title because the webview runtime never exposes a raw
// window handle.
package clickthrough

// Target identifies the overlay window for the platform adapter
type Target struct {
	// Title is the native window title to look up
	Title string
	// Alpha is the overlay fill opacity, used where the platform couples
	// input transparency with visual transparency
	Alpha float64
}

// Set marks the window transparent to mouse input, or restores normal input
// handling when enabled is false. Failures are reported for logging only;
// the overlay keeps running without click-through rather than aborting.
func Set(t Target, enabled bool) error {
	return platformSet(t, enabled)
}

// layeredAlpha converts a fill opacity to the 0-255 alpha byte used by
// layered windows. Truncation, not rounding, matches what the bar has
// always looked like on Windows.
func layeredAlpha(alpha float64) byte {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return byte(alpha * 255)
}
