//go:build !windows

package util

import "os"

// EnableANSI reports whether f can render ANSI escape sequences.
// Unix terminals always can.
func EnableANSI(f *os.File) bool {
	return true
}
