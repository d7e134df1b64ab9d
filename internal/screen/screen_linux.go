package screen

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
)

// x11Provider talks to the X server directly. The connection is opened on
// first use and kept for the life of the process; xgb serializes requests
// internally so the provider is safe for concurrent callers.
type x11Provider struct {
	mu         sync.Mutex
	conn       *xgb.Conn
	root       xproto.Window
	rootBounds Rect
	xineramaOK bool
}

func newPlatformProvider() Provider {
	return &x11Provider{}
}

func (p *x11Provider) connect() (*xgb.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		return p.conn, nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	defaultScreen := setup.DefaultScreen(conn)

	p.conn = conn
	p.root = defaultScreen.Root
	p.rootBounds = Rect{
		Width:  int(defaultScreen.WidthInPixels),
		Height: int(defaultScreen.HeightInPixels),
	}
	if err := xinerama.Init(conn); err == nil {
		p.xineramaOK = true
	}

	return p.conn, nil
}

func (p *x11Provider) CursorPosition() (Point, error) {
	conn, err := p.connect()
	if err != nil {
		return Point{}, err
	}

	reply, err := xproto.QueryPointer(conn, p.root).Reply()
	if err != nil {
		return Point{}, fmt.Errorf("failed to query pointer: %w", err)
	}

	return Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

func (p *x11Provider) Displays() ([]Rect, error) {
	conn, err := p.connect()
	if err != nil {
		return nil, err
	}

	if !p.xineramaOK {
		return []Rect{p.rootBounds}, nil
	}

	reply, err := xinerama.QueryScreens(conn).Reply()
	if err != nil || len(reply.ScreenInfo) == 0 {
		// Xinerama can be present but inactive; the root geometry still holds.
		return []Rect{p.rootBounds}, nil
	}

	out := make([]Rect, 0, len(reply.ScreenInfo))
	for _, si := range reply.ScreenInfo {
		out = append(out, Rect{
			X:      int(si.XOrg),
			Y:      int(si.YOrg),
			Width:  int(si.Width),
			Height: int(si.Height),
		})
	}
	return out, nil
}
