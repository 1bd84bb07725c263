package testrunner

import "golang.org/x/sys/unix"

// osSignalName resolves a signal number to the kernel's own name for any
// code outside the four spec.md pins an exact message for.
func osSignalName(code int) string {
	name := unix.SignalName(unix.Signal(code))
	if name == "" {
		return ""
	}
	return name
}
