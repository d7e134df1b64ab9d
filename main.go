package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"

	"github.com/ElMotaso/LineHighlighter/internal/abortkey"
	"github.com/ElMotaso/LineHighlighter/internal/overlay"
	"github.com/ElMotaso/LineHighlighter/internal/screen"
	"github.com/ElMotaso/LineHighlighter/internal/settings"
)

//go:embed all:frontend/dist
var assets embed.FS

// appTitle doubles as the native window title the click-through adapters
// look up, so it must match what the platform reports for our window.
const appTitle = "Line Highlighter"

// App wires the settings surface to the overlay lifecycle
type App struct {
	ctx     context.Context
	overlay *overlay.Service
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx

	// A broken preference store is never a reason to refuse to start;
	// fall back to a throwaway file and keep going.
	store, err := settings.NewStore()
	if err != nil {
		slog.Warn("settings store unavailable, preferences will not survive restarts", "error", err)
		store = settings.NewStoreAt(filepath.Join(os.TempDir(), "linehighlighter-settings.json"))
	}

	a.overlay = overlay.New(store, screen.New(), abortkey.New(), appTitle)
	a.overlay.Startup(ctx)
}

// OnShutdown is called when the app is shutting down
func (a *App) OnShutdown(ctx context.Context) {
	if a.overlay != nil {
		a.overlay.Shutdown()
	}
}

// GetSettings returns the current highlighter preferences
func (a *App) GetSettings() settings.Settings {
	if a.overlay == nil {
		return settings.Default()
	}
	return a.overlay.Settings()
}

// ApplySettings takes an edit from the settings form. Changes land on the
// running overlay immediately and are persisted.
func (a *App) ApplySettings(cfg settings.Settings) error {
	if a.overlay == nil {
		return nil
	}
	return a.overlay.Apply(cfg)
}

// StartHighlighter brings the bar up with the current settings
func (a *App) StartHighlighter() error {
	if a.overlay == nil {
		return nil
	}
	return a.overlay.Start(a.overlay.Settings())
}

// StopHighlighter tears the bar down and restores the settings surface
func (a *App) StopHighlighter() error {
	if a.overlay == nil {
		return nil
	}
	return a.overlay.Stop()
}

// ToggleHighlighter flips between idle and active and reports the new state
func (a *App) ToggleHighlighter() (bool, error) {
	if a.overlay == nil {
		return false, nil
	}
	return a.overlay.Toggle(a.overlay.Settings())
}

// IsActive reports whether the highlighter bar is currently up
func (a *App) IsActive() bool {
	if a.overlay == nil {
		return false
	}
	return a.overlay.Active()
}

// AbortKeyCaptured reports whether the system-wide abort key hook is armed.
// When false the frontend shows the in-window fallback hint instead.
func (a *App) AbortKeyCaptured() bool {
	if a.overlay == nil {
		return false
	}
	return a.overlay.AbortCaptured()
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// Create an instance of the app structure
	app := NewApp()

	// Create application with options
	err := wails.Run(&options.App{
		Title:  appTitle,
		Width:  overlay.SettingsSurfaceWidth,
		Height: overlay.SettingsSurfaceHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Frameless:        true,
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0}, // Transparent
		Windows: &wailswindows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
			DisableWindowIcon:    true,
		},
		Mac: &mac.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: true,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyOnDemand,
		},
		OnStartup:  app.OnStartup,
		OnShutdown: app.OnShutdown,
		Bind:       []interface{}{app},
	})

	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}
}
