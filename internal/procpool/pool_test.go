package procpool

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"testing"
	"time"

	"github.com/utkarsh5026/tripbench/internal/task"
)

func TestPool_MapRoundTrip(t *testing.T) {
	ctx := context.Background()

	p, err := Start(ctx, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	if p.Size() != 2 {
		t.Fatalf("expected 2 workers, got %d", p.Size())
	}

	tasks := []task.Task{
		{Op: task.Filter, Threshold: 1000, Values: []float64{500, 1500, 200}},
		{Op: task.Filter, Threshold: 1000, Values: []float64{3000, 1000, 2500}},
		{Op: task.Sort, Values: []float64{9, 4, 7}},
		{Op: task.Sort},
	}

	results, err := p.Map(ctx, tasks)
	if err != nil {
		t.Fatalf("map: %v", err)
	}

	want := [][]float64{{1500}, {3000, 2500}, {4, 7, 9}, {}}
	for i := range want {
		if !slices.Equal(results[i], want[i]) {
			t.Errorf("task %d: expected %v, got %v", i, want[i], results[i])
		}
	}
}

func TestPool_RemoteFailureAbortsMap(t *testing.T) {
	ctx := context.Background()

	p, err := Start(ctx, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	tasks := []task.Task{
		{Op: task.Sort, Values: []float64{1}},
		{Op: task.Operation(99), Values: []float64{1}},
	}

	_, err = p.Map(ctx, tasks)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- p.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("close after failure should not report kill errors, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("close did not return after a failed batch")
	}

	if _, err := p.Map(ctx, tasks); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestPool_WorkerCrash(t *testing.T) {
	crashing := func(ctx context.Context) (*exec.Cmd, error) {
		return exec.CommandContext(ctx, "sh", "-c", "exit 3"), nil
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx := context.Background()
	p, err := Start(ctx, 1, WithCommand(crashing))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = p.Close() }()

	if _, err := p.Map(ctx, []task.Task{{Op: task.Sort, Values: []float64{1}}}); err == nil {
		t.Fatal("expected an error from a crashed worker")
	}
}

func TestPool_DispatchRate(t *testing.T) {
	ctx := context.Background()

	p, err := Start(ctx, 2, WithDispatchRate(10))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = p.Close() }()

	tasks := make([]task.Task, 6)
	for i := range tasks {
		tasks[i] = task.Task{Op: task.Sort, Values: []float64{float64(i)}}
	}

	start := time.Now()
	if _, err := p.Map(ctx, tasks); err != nil {
		t.Fatalf("map: %v", err)
	}

	// burst 1 at 10/s: five waits of ~100ms
	if elapsed := time.Since(start); elapsed < 400*time.Millisecond {
		t.Errorf("expected dispatch to be throttled, took %v", elapsed)
	}
}

func TestStart_InvalidSize(t *testing.T) {
	if _, err := Start(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestStart_CommandError(t *testing.T) {
	boom := errors.New("no binary")
	_, err := Start(context.Background(), 2, WithCommand(func(ctx context.Context) (*exec.Cmd, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected command error, got %v", err)
	}
}
