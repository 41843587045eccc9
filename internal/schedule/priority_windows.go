//go:build windows
// +build windows

package schedule

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Constants for thread scheduling
const (
	THREAD_PRIORITY_HIGHEST = 2 // Two levels above normal priority
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procGetCurrentThread  = kernel32.NewProc("GetCurrentThread")
	procSetThreadPriority = kernel32.NewProc("SetThreadPriority")
)

// raiseThreadPriority bumps the dispatch thread so other user threads
// preempt it less often between actions. GetCurrentThread returns a pseudo
// handle that needs no closing.
func raiseThreadPriority() error {
	handle, _, _ := procGetCurrentThread.Call()

	r1, _, callErr := procSetThreadPriority.Call(handle, uintptr(THREAD_PRIORITY_HIGHEST))
	if r1 == 0 {
		return fmt.Errorf("SetThreadPriority failed: %v", callErr)
	}
	return nil
}
