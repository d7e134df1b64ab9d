package overlay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ElMotaso/LineHighlighter/internal/clickthrough"
	"github.com/ElMotaso/LineHighlighter/internal/screen"
	"github.com/ElMotaso/LineHighlighter/internal/settings"
)

const (
	// followInterval is how often the bar chases the cursor
	followInterval = 10 * time.Millisecond

	// displayRefreshEvery is how many ticks pass between display geometry
	// refreshes. Geometry only changes on monitor hotplug, so roughly once
	// a second is plenty; which display the cursor is on is still resolved
	// on every tick from the cached set.
	displayRefreshEvery = 100
)

// Event names emitted to the webview
const (
	EventPaint = "highlighter:paint"
	EventState = "highlighter:state"
)

// PaintState carries everything the webview needs to fill the bar. The CSS
// value is recomputed from the color components and alpha on every emit;
// no blended value is ever cached.
type PaintState struct {
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
	CSS   string  `json:"css"`
}

// Window is one overlay incarnation: the native window dressed up as the
// highlighter bar, plus the goroutine that keeps it glued to the cursor.
// A color change ends an incarnation and starts a fresh one; everything
// else mutates in place.
type Window struct {
	id      string
	ctx     context.Context
	screens screen.Provider
	title   string
	tick    time.Duration

	mu                  sync.Mutex
	cfg                 settings.Settings
	effWidth            int
	posX, posY          int
	clickThroughApplied bool
	started             bool
	closed              bool

	stopCh chan struct{}
	doneCh chan struct{}
}

func newWindow(ctx context.Context, screens screen.Provider, title string, cfg settings.Settings) *Window {
	return &Window{
		id:      uuid.NewString(),
		ctx:     ctx,
		screens: screens,
		title:   title,
		tick:    followInterval,
		cfg:     cfg,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// ID returns the incarnation identity. Two windows never share an ID, even
// across recreations with identical settings.
func (w *Window) ID() string {
	return w.id
}

// Settings returns the incarnation's current settings.
func (w *Window) Settings() settings.Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// Position returns the bar's last placed top-left corner.
func (w *Window) Position() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.posX, w.posY
}

// show sizes and places the bar, paints it, and starts the follow loop.
// startAt places the bar before the first tick, used to keep the position
// stable across a recreation; nil means start under the cursor.
func (w *Window) show(startAt *screen.Point) {
	displays, err := w.screens.Displays()
	if err != nil {
		slog.Warn("display enumeration failed, assuming a single screen", "error", err)
	}

	var at screen.Point
	if startAt != nil {
		at = *startAt
	} else if cur, err := w.screens.CursorPosition(); err == nil {
		at = cur
	}
	disp := screen.DisplayAt(at, displays)

	w.mu.Lock()
	cfg := w.cfg
	w.effWidth = min(cfg.Width, disp.Width)
	if startAt != nil {
		w.posX, w.posY = startAt.X, startAt.Y
	} else {
		w.posX, w.posY = disp.X, at.Y-cfg.Height/2
	}
	eff, x, y := w.effWidth, w.posX, w.posY
	w.started = true
	w.mu.Unlock()

	windowSetAlwaysOnTop(w.ctx, true)
	windowSetSize(w.ctx, eff, cfg.Height)
	windowSetPosition(w.ctx, x, y)
	windowShow(w.ctx)
	w.repaint()

	go w.run()
}

func (w *Window) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	displays, _ := w.screens.Displays()
	sinceRefresh := 0

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			sinceRefresh++
			if sinceRefresh >= displayRefreshEvery {
				if d, err := w.screens.Displays(); err == nil {
					displays = d
				}
				sinceRefresh = 0
			}
			w.step(displays)
		}
	}
}

// step moves the bar onto the cursor's line. A failed cursor read skips the
// tick. The effective width is re-evaluated every time so dragging the
// cursor onto a narrower screen shrinks the bar without any settings change.
func (w *Window) step(displays []screen.Rect) {
	cur, err := w.screens.CursorPosition()
	if err != nil {
		return
	}
	disp := screen.DisplayAt(cur, displays)

	w.mu.Lock()
	cfg := w.cfg
	eff := min(cfg.Width, disp.Width)
	resized := eff != w.effWidth
	w.effWidth = eff
	x := disp.X
	y := cur.Y - cfg.Height/2
	w.posX, w.posY = x, y
	w.mu.Unlock()

	if resized {
		windowSetSize(w.ctx, eff, cfg.Height)
	}
	windowSetPosition(w.ctx, x, y)
}

// update mutates width, height and alpha in place. Callers guarantee the
// color is unchanged; a color change needs a new incarnation instead.
func (w *Window) update(cfg settings.Settings) {
	displays, _ := w.screens.Displays()
	var at screen.Point
	if cur, err := w.screens.CursorPosition(); err == nil {
		at = cur
	}
	disp := screen.DisplayAt(at, displays)

	w.mu.Lock()
	w.cfg = cfg
	w.effWidth = min(cfg.Width, disp.Width)
	eff := w.effWidth
	applied := w.clickThroughApplied
	w.mu.Unlock()

	windowSetSize(w.ctx, eff, cfg.Height)
	w.repaint()

	if applied {
		// The layered alpha lives in the native window style, so it has to
		// be pushed again; that touch can reset the size, so re-assert it.
		if err := clickThroughSet(clickthrough.Target{Title: w.title, Alpha: cfg.Alpha}, true); err != nil {
			slog.Warn("failed to refresh click-through state", "window", w.id, "error", err)
		}
		windowSetSize(w.ctx, eff, cfg.Height)
	}
}

// repaint pushes a fresh paint state to the webview, recomputed from the
// stored components.
func (w *Window) repaint() {
	w.mu.Lock()
	cfg := w.cfg
	w.mu.Unlock()

	eventsEmit(w.ctx, EventPaint, PaintState{
		Color: cfg.Color.Hex(),
		Alpha: cfg.Alpha,
		CSS:   cfg.Color.RGBA(cfg.Alpha),
	})
}

// applyClickThrough marks the native window transparent to mouse input.
// Called once per incarnation, after the window is on screen. On failure
// the bar keeps running as a normal window and the failure is logged; the
// applied flag never goes back to false within one incarnation.
func (w *Window) applyClickThrough() {
	w.mu.Lock()
	cfg := w.cfg
	eff := w.effWidth
	w.mu.Unlock()

	if err := clickThroughSet(clickthrough.Target{Title: w.title, Alpha: cfg.Alpha}, true); err != nil {
		slog.Warn("click-through unavailable, the bar will intercept mouse input", "window", w.id, "error", err)
		return
	}

	w.mu.Lock()
	w.clickThroughApplied = true
	w.mu.Unlock()

	// Style changes can reset the window size; re-assert it right away.
	windowSetSize(w.ctx, eff, cfg.Height)
}

// close stops the follow loop and waits for it to drain. Idempotent.
func (w *Window) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	close(w.stopCh)
	if started {
		<-w.doneCh
	}
}
