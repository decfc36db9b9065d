package strategy

import (
	"os"
	"testing"

	"github.com/utkarsh5026/tripbench/internal/procpool"
)

func TestMain(m *testing.M) {
	procpool.ServeIfWorker()
	os.Exit(m.Run())
}
