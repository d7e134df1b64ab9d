package clickthrough

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// platformSet rewrites the window's input shape. X11 has no per-window
// "ignore mouse" flag; instead the SHAPE extension lets us hand the window
// an empty input region, after which every pointer event lands on whatever
// is underneath. A short-lived connection per call keeps this package free
// of state shared with the webview's own X connection.
func platformSet(t Target, enabled bool) error {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer xu.Conn().Close()

	win, err := findWindowByTitle(xu, t.Title)
	if err != nil {
		return err
	}

	if err := shape.Init(xu.Conn()); err != nil {
		return fmt.Errorf("SHAPE extension unavailable: %w", err)
	}

	if enabled {
		err = shape.RectanglesChecked(xu.Conn(), shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, win, 0, 0, nil).Check()
		if err != nil {
			return fmt.Errorf("failed to clear input shape: %w", err)
		}
		// The dock type keeps the bar above normal windows and out of the
		// taskbar on EWMH-compliant window managers. Best effort only.
		if err := ewmh.WmWindowTypeSet(xu, win, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
			slog.Debug("failed to set dock window type", "error", err)
		}
		return nil
	}

	// Reset to the default input region (the whole window).
	err = shape.MaskChecked(xu.Conn(), shape.SoSet, shape.SkInput,
		win, 0, 0, xproto.PixmapNone).Check()
	if err != nil {
		return fmt.Errorf("failed to restore input shape: %w", err)
	}
	if err := ewmh.WmWindowTypeSet(xu, win, []string{"_NET_WM_WINDOW_TYPE_NORMAL"}); err != nil {
		slog.Debug("failed to restore window type", "error", err)
	}
	return nil
}

func findWindowByTitle(xu *xgbutil.XUtil, title string) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(xu)
	if err != nil {
		return 0, fmt.Errorf("failed to query client list: %w", err)
	}

	for _, w := range clients {
		name, err := ewmh.WmNameGet(xu, w)
		if err != nil || name == "" {
			name, _ = icccm.WmNameGet(xu, w)
		}
		if strings.EqualFold(name, title) {
			return w, nil
		}
	}

	return 0, fmt.Errorf("no window titled %q", title)
}
