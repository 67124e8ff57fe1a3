//go:build windows

package util

import (
	"os"

	"golang.org/x/sys/windows"
)

// EnableANSI switches the console behind f to virtual terminal processing so
// colored tree output renders instead of printing raw escape codes. It
// reports false when the console refuses.
func EnableANSI(f *os.File) bool {
	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
