package clickthrough

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Extended window style constants
const (
	_GWL_EXSTYLE       int32 = -20
	_WS_EX_TRANSPARENT int32 = 0x00000020
	_WS_EX_TOOLWINDOW  int32 = 0x00000080
	_WS_EX_LAYERED     int32 = 0x00080000
	_WS_EX_NOACTIVATE  int32 = 0x08000000

	_LWA_ALPHA uintptr = 0x02
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW                = user32.NewProc("FindWindowW")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

func platformSet(t Target, enabled bool) error {
	hwnd, err := findWindow(t.Title)
	if err != nil {
		return err
	}

	idx := _GWL_EXSTYLE
	exStyle, _, _ := procGetWindowLongW.Call(hwnd, uintptr(idx))
	newStyle := withClickThroughBits(int32(exStyle), enabled)
	procSetWindowLongW.Call(hwnd, uintptr(idx), uintptr(newStyle))

	// WS_EX_LAYERED only takes effect once the layered alpha is set.
	alpha := layeredAlpha(t.Alpha)
	if !enabled {
		alpha = 255
	}
	ret, _, callErr := procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alpha), _LWA_ALPHA)
	if ret == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes failed: %w", callErr)
	}

	return nil
}

// withClickThroughBits computes the new extended style. Enabling adds the
// tool-window and no-activate bits as well, which keeps the bar out of the
// taskbar and out of the focus order.
func withClickThroughBits(style int32, enabled bool) int32 {
	style |= _WS_EX_LAYERED
	if enabled {
		style |= _WS_EX_TRANSPARENT | _WS_EX_TOOLWINDOW | _WS_EX_NOACTIVATE
	} else {
		style &^= _WS_EX_TRANSPARENT | _WS_EX_TOOLWINDOW | _WS_EX_NOACTIVATE
	}
	return style
}

func findWindow(title string) (uintptr, error) {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("invalid window title %q: %w", title, err)
	}

	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(titlePtr)))
	if hwnd == 0 {
		return 0, fmt.Errorf("no window titled %q", title)
	}
	return hwnd, nil
}
