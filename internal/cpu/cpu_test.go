package cpu

import (
	"runtime"
	"sync"
	"testing"
)

func TestCoreFor_StaysInRange(t *testing.T) {
	n := runtime.NumCPU()
	for _, id := range []int{0, 1, n - 1, n, n + 3, -1, -n - 2} {
		core := coreFor(id)
		if core < 0 || core >= n {
			t.Errorf("coreFor(%d) = %d, want value in [0,%d)", id, core, n)
		}
	}
}

func TestSetupWorkerAffinity_ReleaseFromWorkers(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			release, err := SetupWorkerAffinity(id)
			defer release()
			if err != nil {
				t.Logf("worker %d: pinning unavailable: %v", id, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestNumCPU(t *testing.T) {
	if NumCPU() < 1 {
		t.Fatalf("expected at least one CPU, got %d", NumCPU())
	}
}
