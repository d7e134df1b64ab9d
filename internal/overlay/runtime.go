package overlay

import (
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ElMotaso/LineHighlighter/internal/clickthrough"
)

// Webview runtime and native adapter calls behind package seams so the
// lifecycle logic is testable without a live window.
var (
	windowSetPosition    = runtime.WindowSetPosition
	windowSetSize        = runtime.WindowSetSize
	windowShow           = runtime.WindowShow
	windowCenter         = runtime.WindowCenter
	windowSetAlwaysOnTop = runtime.WindowSetAlwaysOnTop
	eventsEmit           = runtime.EventsEmit

	clickThroughSet = clickthrough.Set
)
