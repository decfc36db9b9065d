package procpool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// WorkerEnv is the environment variable that turns a re-executed binary into a worker.
const WorkerEnv = "TRIPBENCH_WORKER"

// CommandFunc builds the command for one worker process. The command must be
// bound to ctx (exec.CommandContext) so the pool can kill it on failure.
type CommandFunc func(ctx context.Context) (*exec.Cmd, error)

// IsWorker reports whether the current process was started as a pool worker.
func IsWorker() bool {
	return os.Getenv(WorkerEnv) == "1"
}

// ServeIfWorker serves tasks on stdin/stdout and exits if the current process
// is a pool worker. It returns immediately otherwise.
func ServeIfWorker() {
	if !IsWorker() {
		return
	}

	if err := Serve(os.Stdin, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "tripbench worker %d: %v\n", os.Getpid(), err)
		os.Exit(1)
	}
	os.Exit(0)
}

// SelfCommand re-executes the running binary as a worker. Worker stderr is
// forwarded to the parent's stderr.
func SelfCommand(ctx context.Context) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}

	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), WorkerEnv+"=1")
	cmd.Stderr = os.Stderr
	return cmd, nil
}
