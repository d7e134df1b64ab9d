package screen

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procGetCursorPos        = user32.NewProc("GetCursorPos")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

const monitorinfofPrimary = 0x1

type winRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type monitorInfo struct {
	CbSize    uint32
	RcMonitor winRect
	RcWork    winRect
	DwFlags   uint32
}

// EnumDisplayMonitors wants a C callback. NewCallback slots are a finite
// process-wide resource, so the callback is created exactly once and the
// result slice handed over through package state under a lock.
var (
	enumMu  sync.Mutex
	enumOut []Rect

	enumCallback = windows.NewCallback(func(hMonitor, hdc, lprcMonitor, lparam uintptr) uintptr {
		var mi monitorInfo
		mi.CbSize = uint32(unsafe.Sizeof(mi))
		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret != 0 {
			r := mi.RcMonitor
			d := Rect{
				X:      int(r.Left),
				Y:      int(r.Top),
				Width:  int(r.Right - r.Left),
				Height: int(r.Bottom - r.Top),
			}
			if mi.DwFlags&monitorinfofPrimary != 0 {
				enumOut = append([]Rect{d}, enumOut...)
			} else {
				enumOut = append(enumOut, d)
			}
		}
		return 1
	})
)

type winProvider struct{}

func newPlatformProvider() Provider {
	return winProvider{}
}

func (winProvider) CursorPosition() (Point, error) {
	var pt struct {
		X int32
		Y int32
	}
	ret, _, callErr := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return Point{}, fmt.Errorf("GetCursorPos failed: %w", callErr)
	}
	return Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

func (winProvider) Displays() ([]Rect, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumOut = nil
	ret, _, callErr := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", callErr)
	}

	out := make([]Rect, len(enumOut))
	copy(out, enumOut)
	return out, nil
}
