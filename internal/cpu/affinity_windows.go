//go:build windows

package cpu

import (
	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// pinToCore pins the current OS thread to cpuID and returns a function that
// puts the previous mask back. Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (func(), error) {
	handle := windows.CurrentThread()

	// Bit N = CPU N
	mask := uintptr(1) << uint(cpuID)

	prevMask, _, err := setThreadAffinityMask.Call(uintptr(handle), mask)
	if prevMask == 0 {
		return nil, err
	}

	return func() {
		_, _, _ = setThreadAffinityMask.Call(uintptr(handle), prevMask)
	}, nil
}
