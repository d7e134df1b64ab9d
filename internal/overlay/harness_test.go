package overlay

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ElMotaso/LineHighlighter/internal/clickthrough"
	"github.com/ElMotaso/LineHighlighter/internal/screen"
	"github.com/ElMotaso/LineHighlighter/internal/settings"
)

// runtimeRecorder captures every seam call so tests can assert on window
// mutations without a live webview.
type runtimeRecorder struct {
	mu          sync.Mutex
	positions   [][2]int
	sizes       [][2]int
	paints      []PaintState
	states      []StateInfo
	shows       int
	centers     int
	alwaysOnTop []bool
	clickCalls  []clickCall
	clickErr    error
}

type clickCall struct {
	target  clickthrough.Target
	enabled bool
}

func installRecorder(t *testing.T) *runtimeRecorder {
	t.Helper()
	rec := &runtimeRecorder{}

	origSetPosition := windowSetPosition
	origSetSize := windowSetSize
	origShow := windowShow
	origCenter := windowCenter
	origAlwaysOnTop := windowSetAlwaysOnTop
	origEmit := eventsEmit
	origClick := clickThroughSet

	windowSetPosition = func(ctx context.Context, x, y int) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.positions = append(rec.positions, [2]int{x, y})
	}
	windowSetSize = func(ctx context.Context, w, h int) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.sizes = append(rec.sizes, [2]int{w, h})
	}
	windowShow = func(ctx context.Context) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.shows++
	}
	windowCenter = func(ctx context.Context) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.centers++
	}
	windowSetAlwaysOnTop = func(ctx context.Context, onTop bool) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.alwaysOnTop = append(rec.alwaysOnTop, onTop)
	}
	eventsEmit = func(ctx context.Context, eventName string, optionalData ...interface{}) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		if len(optionalData) == 0 {
			return
		}
		switch eventName {
		case EventPaint:
			if p, ok := optionalData[0].(PaintState); ok {
				rec.paints = append(rec.paints, p)
			}
		case EventState:
			if st, ok := optionalData[0].(StateInfo); ok {
				rec.states = append(rec.states, st)
			}
		}
	}
	clickThroughSet = func(target clickthrough.Target, enabled bool) error {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.clickCalls = append(rec.clickCalls, clickCall{target: target, enabled: enabled})
		return rec.clickErr
	}

	t.Cleanup(func() {
		windowSetPosition = origSetPosition
		windowSetSize = origSetSize
		windowShow = origShow
		windowCenter = origCenter
		windowSetAlwaysOnTop = origAlwaysOnTop
		eventsEmit = origEmit
		clickThroughSet = origClick
	})
	return rec
}

func (r *runtimeRecorder) lastPosition() ([2]int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.positions) == 0 {
		return [2]int{}, false
	}
	return r.positions[len(r.positions)-1], true
}

func (r *runtimeRecorder) lastSize() ([2]int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sizes) == 0 {
		return [2]int{}, false
	}
	return r.sizes[len(r.sizes)-1], true
}

func (r *runtimeRecorder) lastPaint() (PaintState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paints) == 0 {
		return PaintState{}, false
	}
	return r.paints[len(r.paints)-1], true
}

func (r *runtimeRecorder) lastState() (StateInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return StateInfo{}, false
	}
	return r.states[len(r.states)-1], true
}

func (r *runtimeRecorder) positionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.positions)
}

func (r *runtimeRecorder) showCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shows
}

func (r *runtimeRecorder) centerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.centers
}

func (r *runtimeRecorder) lastAlwaysOnTop() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.alwaysOnTop) == 0 {
		return false, false
	}
	return r.alwaysOnTop[len(r.alwaysOnTop)-1], true
}

func (r *runtimeRecorder) clickThroughCalls() []clickCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]clickCall, len(r.clickCalls))
	copy(out, r.clickCalls)
	return out
}

func (r *runtimeRecorder) setClickErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clickErr = err
}

// fakeScreens is a scriptable screen.Provider.
type fakeScreens struct {
	mu        sync.Mutex
	cursor    screen.Point
	cursorErr error
	displays  []screen.Rect
}

func newFakeScreens() *fakeScreens {
	return &fakeScreens{
		cursor:   screen.Point{X: 100, Y: 200},
		displays: []screen.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}},
	}
}

func (f *fakeScreens) CursorPosition() (screen.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursorErr != nil {
		return screen.Point{}, f.cursorErr
	}
	return f.cursor, nil
}

func (f *fakeScreens) Displays() ([]screen.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]screen.Rect, len(f.displays))
	copy(out, f.displays)
	return out, nil
}

func (f *fakeScreens) moveTo(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = screen.Point{X: x, Y: y}
}

func (f *fakeScreens) setCursorErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursorErr = err
}

func (f *fakeScreens) setDisplays(displays []screen.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.displays = displays
}

// fakeListener is a scriptable KeyListener.
type fakeListener struct {
	mu       sync.Mutex
	keys     []string
	stops    int
	cb       func()
	startErr error
}

func (f *fakeListener) Start(key string, onTrigger func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.keys = append(f.keys, key)
	f.cb = onTrigger
	return nil
}

func (f *fakeListener) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.cb = nil
	return nil
}

// trigger simulates an abort key press.
func (f *fakeListener) trigger() {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (f *fakeListener) startedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f *fakeListener) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// currentWindow exposes the active incarnation to same-package tests.
func (s *Service) currentWindow() *Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.win
}

func newTestService(t *testing.T, screens *fakeScreens, listener *fakeListener) (*Service, *settings.Store) {
	t.Helper()

	store := settings.NewStoreAt(filepath.Join(t.TempDir(), "settings.json"))
	svc := New(store, screens, listener, "Line Highlighter")
	svc.tick = time.Millisecond
	// Synchronous persistence keeps assertions deterministic.
	svc.persist = func(f func()) { f() }
	svc.Startup(context.Background())
	return svc, store
}

func testSettings() settings.Settings {
	return settings.Settings{
		Width:    800,
		Height:   30,
		Alpha:    0.3,
		Color:    settings.Color{R: 255, G: 255, B: 0},
		AbortKey: "esc",
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
