package clickthrough

import (
	"fmt"

	"github.com/ebitengine/purego/objc"
)

// platformSet flips ignoresMouseEvents on every window of the application.
// The webview runtime owns a single window, so matching by title is not
// needed here; iterating [NSApp windows] reaches it regardless of ordering.
// objc.Send panics on a bad selector, hence the recover.
func platformSet(t Target, enabled bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AppKit call failed: %v", r)
		}
	}()

	app := objc.ID(objc.GetClass("NSApplication")).Send(objc.RegisterName("sharedApplication"))
	if app == 0 {
		return fmt.Errorf("no shared NSApplication")
	}

	windows := app.Send(objc.RegisterName("windows"))
	count := int(windows.Send(objc.RegisterName("count")))
	if count == 0 {
		return fmt.Errorf("application has no windows")
	}

	setIgnores := objc.RegisterName("setIgnoresMouseEvents:")
	objectAtIndex := objc.RegisterName("objectAtIndex:")
	for i := 0; i < count; i++ {
		win := windows.Send(objectAtIndex, i)
		win.Send(setIgnores, enabled)
	}

	return nil
}
