// Package cpu pins benchmark worker goroutines to CPU cores.
//
// Pinning is best effort: where the platform offers no affinity call the
// goroutine is still locked to its OS thread, and failures are reported to the
// caller rather than treated as fatal.
package cpu

import "runtime"

// NumCPU returns the number of logical CPUs available.
func NumCPU() int {
	return runtime.NumCPU()
}

// coreFor maps an arbitrary worker id onto a valid core index.
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	if workerID < 0 {
		workerID = -workerID
	}
	return workerID % n
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to the core assigned to workerID. The returned release function
// restores the previous affinity where supported and unlocks the thread; it
// must be deferred by the same goroutine.
func SetupWorkerAffinity(workerID int) (release func(), err error) {
	runtime.LockOSThread()

	restore, err := pinToCore(coreFor(workerID))
	return func() {
		if restore != nil {
			restore()
		}
		runtime.UnlockOSThread()
	}, err
}
