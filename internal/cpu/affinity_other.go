//go:build !linux && !windows

package cpu

// pinToCore is a no-op: thread affinity is not exposed on this platform
// (macOS only offers affinity hints). The goroutine stays locked to its thread.
func pinToCore(cpuID int) (func(), error) {
	return nil, nil
}
