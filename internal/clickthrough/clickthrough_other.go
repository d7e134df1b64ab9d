//go:build !windows && !darwin && !linux

package clickthrough

import "fmt"

func platformSet(t Target, enabled bool) error {
	return fmt.Errorf("click-through not supported on this platform")
}
