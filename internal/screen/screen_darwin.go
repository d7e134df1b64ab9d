package screen

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// CoreGraphics types. CGFloat is 64-bit on every macOS target we build for.
type cgPoint struct {
	X float64
	Y float64
}

type cgSize struct {
	Width  float64
	Height float64
}

type cgRect struct {
	Origin cgPoint
	Size   cgSize
}

var (
	cgOnce sync.Once
	cgErr  error

	cgEventCreate          func(source uintptr) uintptr
	cgEventGetLocation     func(event uintptr) cgPoint
	cfRelease              func(ref uintptr)
	cgMainDisplayID        func() uint32
	cgGetActiveDisplayList func(maxDisplays uint32, activeDisplays *uint32, displayCount *uint32) int32
	cgDisplayBounds        func(display uint32) cgRect
)

func loadCoreGraphics() error {
	cgOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				cgErr = fmt.Errorf("failed to bind CoreGraphics symbols: %v", r)
			}
		}()

		cg, err := purego.Dlopen("/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			cgErr = fmt.Errorf("failed to load CoreGraphics: %w", err)
			return
		}
		cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			cgErr = fmt.Errorf("failed to load CoreFoundation: %w", err)
			return
		}

		purego.RegisterLibFunc(&cgEventCreate, cg, "CGEventCreate")
		purego.RegisterLibFunc(&cgEventGetLocation, cg, "CGEventGetLocation")
		purego.RegisterLibFunc(&cgMainDisplayID, cg, "CGMainDisplayID")
		purego.RegisterLibFunc(&cgGetActiveDisplayList, cg, "CGGetActiveDisplayList")
		purego.RegisterLibFunc(&cgDisplayBounds, cg, "CGDisplayBounds")
		purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
	})
	return cgErr
}

type macProvider struct{}

func newPlatformProvider() Provider {
	return macProvider{}
}

func (macProvider) CursorPosition() (Point, error) {
	if err := loadCoreGraphics(); err != nil {
		return Point{}, err
	}

	// A nil-source event captures the current cursor location without
	// requiring accessibility permissions.
	ev := cgEventCreate(0)
	if ev == 0 {
		return Point{}, fmt.Errorf("CGEventCreate returned no event")
	}
	loc := cgEventGetLocation(ev)
	cfRelease(ev)

	return Point{X: int(loc.X), Y: int(loc.Y)}, nil
}

func (macProvider) Displays() ([]Rect, error) {
	if err := loadCoreGraphics(); err != nil {
		return nil, err
	}

	ids := make([]uint32, 16)
	var count uint32
	if ret := cgGetActiveDisplayList(uint32(len(ids)), &ids[0], &count); ret != 0 {
		return nil, fmt.Errorf("CGGetActiveDisplayList failed with code %d", ret)
	}

	main := cgMainDisplayID()
	out := make([]Rect, 0, count)
	for _, id := range ids[:count] {
		b := cgDisplayBounds(id)
		d := Rect{
			X:      int(b.Origin.X),
			Y:      int(b.Origin.Y),
			Width:  int(b.Size.Width),
			Height: int(b.Size.Height),
		}
		if id == main {
			out = append([]Rect{d}, out...)
		} else {
			out = append(out, d)
		}
	}
	return out, nil
}
