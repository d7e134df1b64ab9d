//go:build windows

package abortkey

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procGetCurrentThreadID  = kernel32.NewProc("GetCurrentThreadId")
)

const (
	whKeyboardLL = 13

	wmKeyDown    = 0x0100
	wmSysKeyDown = 0x0104
	wmQuit       = 0x0012
	pmNoRemove   = 0x0000

	hcAction = 0
)

// point mirrors the Win32 POINT struct.
type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct (tagMSG from winuser.h). Field order
// and types must match the binary layout on both 32-bit and 64-bit Windows.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

// kbdllHookStruct mirrors the Win32 KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type loopReady struct {
	threadID uint32
	err      error
}

// hookTarget is what the low-level hook matches against. At most one
// listener runs at a time, so a single package-level slot suffices; keeping
// it atomic lets Stop disarm the hook without waiting for the loop thread.
type hookTarget struct {
	vk        uint32
	onTrigger func()
}

var hookState atomic.Pointer[hookTarget]

// keyboardHookProc is registered exactly once: NewCallback slots are a
// finite process-wide resource. The key press is observed, never consumed;
// CallNextHookEx always runs so typing is unaffected.
var keyboardHookProc = windows.NewCallback(func(nCode uintptr, wParam uintptr, lParam uintptr) uintptr {
	if int32(nCode) == hcAction && (wParam == wmKeyDown || wParam == wmSysKeyDown) {
		if target := hookState.Load(); target != nil {
			kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			if kb.vkCode == target.vk {
				go target.onTrigger()
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
})

// activeListener holds the state of a running hook loop. When non-nil in
// Listener, all fields are valid and a message loop goroutine is running.
type activeListener struct {
	threadID uint32
	doneCh   chan struct{}
	key      string
}

// Listener watches one key system-wide.
type Listener struct {
	mu     sync.Mutex
	active *activeListener // nil when no hook is installed
}

// New creates a new abort key listener.
func New() *Listener {
	return &Listener{}
}

// Start installs a low-level keyboard hook that fires onTrigger whenever
// the named key is pressed, regardless of which window has focus. Any
// previous registration is torn down first.
func (l *Listener) Start(key string, onTrigger func()) error {
	if onTrigger == nil {
		return errors.New("onTrigger callback is required")
	}

	// Pre-check DLL availability so that failures produce clean errors
	// instead of panics from LazyProc.Call.
	if err := user32.Load(); err != nil {
		return fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	if err := kernel32.Load(); err != nil {
		return fmt.Errorf("kernel32.dll is unavailable: %w", err)
	}

	key = NormalizeKey(key)
	vk, err := keyCode(key)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.stopLocked(); err != nil {
		return err
	}

	readyCh := make(chan loopReady, 1)
	doneCh := make(chan struct{})

	go runHookLoop(vk, onTrigger, readyCh, doneCh)

	ready := <-readyCh
	if ready.err != nil {
		return fmt.Errorf("failed to install keyboard hook for %q: %w", key, ready.err)
	}
	if ready.threadID == 0 {
		return errors.New("hook loop started but returned invalid thread ID 0")
	}

	l.active = &activeListener{
		threadID: ready.threadID,
		doneCh:   doneCh,
		key:      key,
	}
	return nil
}

// Stop removes the keyboard hook. Safe to call when nothing is registered.
func (l *Listener) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopLocked()
}

// ActiveKey returns the normalized name of the key being watched, or "".
func (l *Listener) ActiveKey() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil {
		return ""
	}
	return l.active.key
}

func (l *Listener) stopLocked() error {
	if l.active == nil {
		return nil
	}

	al := l.active
	l.active = nil

	// Disarm matching immediately; even if the loop thread lingers, the
	// callback will no longer fire.
	hookState.Store(nil)

	stopErr := postQuit(al.threadID)

	timer := time.NewTimer(2 * time.Second)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case <-al.doneCh:
		// Loop exited cleanly.
	case <-timer.C:
		timeoutErr := fmt.Errorf("keyboard hook loop stop timed out (key=%s)", al.key)
		slog.Warn("abort key message loop stop timed out, goroutine may leak", "key", al.key)
		stopErr = errors.Join(stopErr, timeoutErr)
	}

	return stopErr
}

func runHookLoop(vk uint32, onTrigger func(), readyCh chan<- loopReady, doneCh chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(doneCh)

	threadID, err := getCurrentThreadID()
	if err != nil {
		readyCh <- loopReady{err: err}
		return
	}

	// PeekMessageW forces Windows to create the thread message queue so
	// that PostThreadMessageW in Stop can deliver WM_QUIT.
	var qmsg winMsg
	procPeekMessageW.Call(
		uintptr(unsafe.Pointer(&qmsg)),
		0,
		0,
		0,
		pmNoRemove,
	)

	hookState.Store(&hookTarget{vk: vk, onTrigger: onTrigger})

	hook, _, hookErr := procSetWindowsHookExW.Call(whKeyboardLL, keyboardHookProc, 0, 0)
	if hook == 0 {
		hookState.Store(nil)
		if hookErr == syscall.Errno(0) {
			hookErr = errors.New("SetWindowsHookExW failed")
		}
		readyCh <- loopReady{err: hookErr}
		return
	}
	defer func() {
		hookState.Store(nil)
		if ret, _, err := procUnhookWindowsHookEx.Call(hook); ret == 0 {
			slog.Error("failed to remove keyboard hook on loop exit", "error", err)
		}
	}()

	readyCh <- loopReady{threadID: threadID}

	// A low-level hook delivers key events during GetMessageW; the loop
	// only has to keep pumping until WM_QUIT arrives.
	for {
		var msg winMsg
		ret, _, lastErr := procGetMessageW.Call(
			uintptr(unsafe.Pointer(&msg)),
			0,
			0,
			0,
		)
		switch int32(ret) {
		case -1:
			slog.Warn("GetMessageW returned error, exiting abort key loop", "error", lastErr)
			return
		case 0:
			// WM_QUIT received -- normal shutdown path.
			return
		}

		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

func postQuit(threadID uint32) error {
	if threadID == 0 {
		return errors.New("cannot post WM_QUIT: threadID is 0")
	}
	res, _, err := procPostThreadMessageW.Call(
		uintptr(threadID),
		wmQuit,
		0,
		0,
	)
	if res != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("PostThreadMessageW failed")
	}
	return err
}

func getCurrentThreadID() (uint32, error) {
	tid, _, err := procGetCurrentThreadID.Call()
	if tid == 0 {
		return 0, fmt.Errorf("GetCurrentThreadId returned 0: %w", err)
	}
	return uint32(tid), nil
}
