//go:build windows

package abortkey

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	vkBackspace uint32 = 0x08
	vkTab       uint32 = 0x09
	vkReturn    uint32 = 0x0D
	vkPause     uint32 = 0x13
	vkCapsLock  uint32 = 0x14
	vkEscape    uint32 = 0x1B
	vkSpace     uint32 = 0x20
	vkPageUp    uint32 = 0x21
	vkPageDown  uint32 = 0x22
	vkEnd       uint32 = 0x23
	vkHome      uint32 = 0x24
	vkLeft      uint32 = 0x25
	vkUp        uint32 = 0x26
	vkRight     uint32 = 0x27
	vkDown      uint32 = 0x28
	vkInsert    uint32 = 0x2D
	vkDelete    uint32 = 0x2E
	vkF1        uint32 = 0x70
)

var vkByName = map[string]uint32{
	"backspace": vkBackspace,
	"tab":       vkTab,
	"enter":     vkReturn,
	"return":    vkReturn,
	"pause":     vkPause,
	"caps_lock": vkCapsLock,
	"esc":       vkEscape,
	"escape":    vkEscape,
	"space":     vkSpace,
	"page_up":   vkPageUp,
	"page_down": vkPageDown,
	"end":       vkEnd,
	"home":      vkHome,
	"left":      vkLeft,
	"up":        vkUp,
	"right":     vkRight,
	"down":      vkDown,
	"insert":    vkInsert,
	"delete":    vkDelete,
}

// keyCode maps a normalized key name to its Win32 virtual-key code.
// Matching on the VK code makes the abort key case-insensitive for free:
// 'a' and 'A' share a code.
func keyCode(name string) (uint32, error) {
	if name == "" {
		return 0, fmt.Errorf("abort key is empty")
	}

	if vk, ok := vkByName[name]; ok {
		return vk, nil
	}

	if rest, ok := strings.CutPrefix(name, "f"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 24 {
			return vkF1 + uint32(n-1), nil
		}
	}

	if len(name) == 1 {
		ch := name[0]
		if ch >= 'a' && ch <= 'z' {
			return uint32(ch - 'a' + 'A'), nil
		}
		if ch >= '0' && ch <= '9' {
			return uint32(ch), nil
		}
	}

	return 0, fmt.Errorf("unknown abort key %q", name)
}
