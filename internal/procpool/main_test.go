package procpool

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Worker processes started by SelfCommand re-execute this test binary.
	ServeIfWorker()
	os.Exit(m.Run())
}
