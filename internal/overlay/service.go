package overlay

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/ElMotaso/LineHighlighter/internal/abortkey"
	"github.com/ElMotaso/LineHighlighter/internal/clickthrough"
	"github.com/ElMotaso/LineHighlighter/internal/screen"
	"github.com/ElMotaso/LineHighlighter/internal/settings"
)

// Settings surface dimensions, also used to restore the window after the
// overlay is torn down
const (
	SettingsSurfaceWidth  = 420
	SettingsSurfaceHeight = 560
)

// persistDelay coalesces bursts of live edits into one disk write
const persistDelay = 300 * time.Millisecond

// KeyListener is the system-wide abort key hook driven by the controller
type KeyListener interface {
	Start(key string, onTrigger func()) error
	Stop() error
}

// StateInfo mirrors the controller state to the settings surface
type StateInfo struct {
	Active           bool              `json:"active"`
	AbortKeyCaptured bool              `json:"abort_key_captured"`
	Settings         settings.Settings `json:"settings"`
}

// Service owns the highlighter lifecycle. It is either idle (no overlay,
// settings surface interactive) or active (one Window incarnation chasing
// the cursor). Every transition is safe to call from any goroutine,
// including the abort key listener's.
type Service struct {
	store    *settings.Store
	screens  screen.Provider
	listener KeyListener
	title    string

	mu            sync.Mutex
	ctx           context.Context
	current       settings.Settings
	win           *Window
	abortCaptured bool

	tick    time.Duration
	persist func(func())
}

// New creates the overlay controller
func New(store *settings.Store, screens screen.Provider, listener KeyListener, title string) *Service {
	return &Service{
		store:    store,
		screens:  screens,
		listener: listener,
		title:    title,
		tick:     followInterval,
		persist:  debounce.New(persistDelay),
	}
}

// Startup captures the runtime context and loads persisted preferences.
// The built-in default width follows the display under the cursor when the
// platform can resolve one; a persisted width, if any, wins afterwards.
func (s *Service) Startup(ctx context.Context) {
	defaults := settings.Default()
	if cur, err := s.screens.CursorPosition(); err == nil {
		if displays, derr := s.screens.Displays(); derr == nil && len(displays) > 0 {
			defaults.Width = screen.DisplayAt(cur, displays).Width
		}
	}
	cfg := s.store.Load(defaults)

	s.mu.Lock()
	s.ctx = ctx
	s.current = cfg
	s.mu.Unlock()

	slog.Info("settings loaded", "path", s.store.Path(), "width", cfg.Width, "height", cfg.Height)
}

// Settings returns the current preferences
func (s *Service) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Active reports whether the highlighter bar is up
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.win != nil
}

// AbortCaptured reports whether the global abort key hook is armed
func (s *Service) AbortCaptured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abortCaptured
}

// Start brings the overlay up with the given settings. No-op when already
// active.
func (s *Service) Start(cfg settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.win != nil {
		return nil
	}

	cfg = cfg.Normalized()
	s.current = cfg

	if err := s.store.Save(cfg); err != nil {
		slog.Warn("failed to persist settings", "error", err)
	}

	win := newWindow(s.ctx, s.screens, s.title, cfg)
	win.tick = s.tick
	s.win = win
	win.show(nil)
	win.applyClickThrough()
	s.startListenerLocked(cfg.AbortKey)
	s.emitStateLocked()

	slog.Info("highlighter started", "window", win.ID(), "width", cfg.Width, "height", cfg.Height, "alpha", cfg.Alpha)
	return nil
}

// Stop tears the overlay down and restores the settings surface. Idempotent;
// stopping an idle controller just re-asserts that no listener is armed.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *Service) stopLocked() error {
	// Listener first: once the overlay is gone the key must do nothing.
	if err := s.listener.Stop(); err != nil {
		slog.Warn("abort key listener did not stop cleanly", "error", err)
	}
	s.abortCaptured = false

	win := s.win
	s.win = nil
	if win == nil {
		return nil
	}

	win.close()

	if err := clickThroughSet(clickthrough.Target{Title: s.title, Alpha: 1}, false); err != nil {
		slog.Warn("failed to restore window input handling", "error", err)
	}

	windowSetAlwaysOnTop(s.ctx, false)
	windowSetSize(s.ctx, SettingsSurfaceWidth, SettingsSurfaceHeight)
	windowCenter(s.ctx)
	windowShow(s.ctx)
	s.emitStateLocked()

	if err := s.store.Save(s.current); err != nil {
		slog.Warn("failed to persist settings", "error", err)
	}

	slog.Info("highlighter stopped", "window", win.ID())
	return nil
}

// Apply takes a settings edit from the surface. When the overlay is active
// the change lands live: geometry and opacity mutate the running window, a
// color change replaces the incarnation at its last position. The edit is
// persisted either way.
func (s *Service) Apply(cfg settings.Settings) error {
	cfg = cfg.Normalized()

	s.mu.Lock()
	prev := s.current
	s.current = cfg

	if s.win != nil {
		if cfg.Color != prev.Color {
			s.recreateLocked(s.win, cfg)
		} else {
			s.win.update(cfg)
		}
		if cfg.AbortKey != prev.AbortKey {
			s.startListenerLocked(cfg.AbortKey)
		}
		s.emitStateLocked()
	}
	s.mu.Unlock()

	s.persistLater(cfg)
	return nil
}

// Toggle flips between idle and active, reporting the resulting state
func (s *Service) Toggle(cfg settings.Settings) (bool, error) {
	s.mu.Lock()
	active := s.win != nil
	s.mu.Unlock()

	if active {
		return false, s.Stop()
	}
	if err := s.Start(cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Shutdown stops the overlay and flushes preferences to disk
func (s *Service) Shutdown() {
	if err := s.Stop(); err != nil {
		slog.Warn("failed to stop overlay on shutdown", "error", err)
	}

	s.mu.Lock()
	cfg := s.current
	s.mu.Unlock()
	if err := s.store.Save(cfg); err != nil {
		slog.Warn("failed to persist settings on shutdown", "error", err)
	}
}

// recreateLocked replaces the running incarnation with a fresh one wearing
// the new settings, keeping the bar where it was.
func (s *Service) recreateLocked(old *Window, cfg settings.Settings) {
	x, y := old.Position()
	old.close()

	win := newWindow(s.ctx, s.screens, s.title, cfg)
	win.tick = s.tick
	s.win = win
	win.show(&screen.Point{X: x, Y: y})
	win.applyClickThrough()

	slog.Info("overlay recreated for color change", "window", win.ID(), "replaced", old.ID())
}

// startListenerLocked (re)arms the abort key. An unsupported platform is
// expected and only downgrades to the in-window key binding; the webview
// keeps its fallback handler armed at all times regardless.
func (s *Service) startListenerLocked(key string) {
	captured := false
	err := s.listener.Start(key, func() { s.Stop() })
	switch {
	case err == nil:
		captured = true
		slog.Info("abort key armed", "key", key)
	case errors.Is(err, abortkey.ErrUnsupported):
		slog.Info("global abort key unavailable, relying on the in-window binding", "key", key)
	default:
		slog.Warn("abort key registration failed, relying on the in-window binding", "key", key, "error", err)
	}
	s.abortCaptured = captured
}

func (s *Service) emitStateLocked() {
	eventsEmit(s.ctx, EventState, StateInfo{
		Active:           s.win != nil,
		AbortKeyCaptured: s.abortCaptured,
		Settings:         s.current,
	})
}

func (s *Service) persistLater(cfg settings.Settings) {
	s.persist(func() {
		if err := s.store.Save(cfg); err != nil {
			slog.Warn("failed to persist settings", "error", err)
		}
	})
}
