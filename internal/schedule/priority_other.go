//go:build !windows
// +build !windows

package schedule

// raiseThreadPriority is a no-op outside Windows, where the dispatch loop
// runs without priority adjustment.
func raiseThreadPriority() error {
	return nil
}
