package procpool

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/utkarsh5026/tripbench/internal/task"
	"github.com/utkarsh5026/tripbench/pool"
)

// ErrClosed is returned by Map after Close.
var ErrClosed = errors.New("procpool: pool closed")

// RemoteError reports a task that failed inside a worker process.
type RemoteError struct {
	Worker  int
	PID     int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("worker %d (pid %d): %s", e.Worker, e.PID, e.Message)
}

// Option configures a Pool.
type Option func(*options)

type options struct {
	command  CommandFunc
	logger   *slog.Logger
	poolOpts []pool.WorkerPoolOption
}

// WithCommand overrides how worker processes are started. Defaults to SelfCommand.
func WithCommand(fn CommandFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.command = fn
		}
	}
}

// WithLogger sets the logger for worker lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDispatchRate throttles how many chunks per second are handed to workers.
func WithDispatchRate(chunksPerSecond float64) Option {
	return func(o *options) {
		if chunksPerSecond > 0 {
			o.poolOpts = append(o.poolOpts, pool.WithRateLimit(chunksPerSecond, 1))
		}
	}
}

// Pool is a fixed set of worker processes. It is created for one batch of
// work and must be closed, which terminates every worker, before it is dropped.
type Pool struct {
	workers []*workerProc
	idle    chan *workerProc
	mapper  *pool.WorkerPool[task.Task, []float64]
	cancel  context.CancelFunc
	logger  *slog.Logger

	seq    atomic.Uint64
	failed atomic.Bool
	closed atomic.Bool
	once   sync.Once
	err    error
}

type workerProc struct {
	id    int
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *gob.Encoder
	dec   *gob.Decoder
}

// Start launches n worker processes.
func Start(ctx context.Context, n int, opts ...Option) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("procpool: worker count must be at least 1, got %d", n)
	}

	o := &options{command: SelfCommand, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		workers: make([]*workerProc, 0, n),
		idle:    make(chan *workerProc, n),
		mapper:  pool.NewWorkerPool[task.Task, []float64](append([]pool.WorkerPoolOption{pool.WithWorkerCount(n)}, o.poolOpts...)...),
		cancel:  cancel,
		logger:  o.logger,
	}

	for i := range n {
		w, err := startWorker(ctx, i, o.command)
		if err != nil {
			p.failed.Store(true)
			_ = p.Close()
			return nil, fmt.Errorf("start worker %d: %w", i, err)
		}
		p.workers = append(p.workers, w)
		p.idle <- w
		p.logger.Debug("worker process started", "worker", i, "pid", w.cmd.Process.Pid)
	}

	return p, nil
}

func startWorker(ctx context.Context, id int, command CommandFunc) (*workerProc, error) {
	cmd, err := command(ctx)
	if err != nil {
		return nil, err
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &workerProc{
		id:    id,
		cmd:   cmd,
		stdin: stdin,
		enc:   gob.NewEncoder(stdin),
		dec:   gob.NewDecoder(stdout),
	}, nil
}

// Size returns the number of worker processes.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Map runs every task on the worker processes and blocks until all of them
// have completed. An idle worker takes the next pending task, so uneven tasks
// balance across the pool. Results are returned in task order; the first
// failure aborts the batch.
func (p *Pool) Map(ctx context.Context, tasks []task.Task) ([][]float64, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}

	results, err := p.mapper.Process(ctx, tasks, func(ctx context.Context, t task.Task) ([]float64, error) {
		var w *workerProc
		select {
		case w = <-p.idle:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		defer func() { p.idle <- w }()

		return p.call(w, t)
	})
	if err != nil {
		p.failed.Store(true)
		return nil, err
	}

	return results, nil
}

// call sends one task to w and waits for its response.
func (p *Pool) call(w *workerProc, t task.Task) ([]float64, error) {
	seq := p.seq.Add(1)

	if err := w.enc.Encode(newRequest(seq, t)); err != nil {
		return nil, fmt.Errorf("send to worker %d: %w", w.id, err)
	}

	var resp response
	if err := w.dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("receive from worker %d: %w", w.id, err)
	}
	if resp.Seq != seq {
		return nil, fmt.Errorf("worker %d: response %d out of sequence, want %d", w.id, resp.Seq, seq)
	}
	if resp.Err != "" {
		return nil, &RemoteError{Worker: w.id, PID: w.cmd.Process.Pid, Message: resp.Err}
	}

	if resp.Values == nil {
		resp.Values = []float64{}
	}
	return resp.Values, nil
}

// Close shuts the pool down and waits for every worker process to exit.
// Healthy workers exit when their stdin is closed; after a failed batch the
// workers are killed instead, since they may be blocked writing a response
// nobody will read. Close is safe to call more than once.
func (p *Pool) Close() error {
	p.once.Do(func() {
		p.closed.Store(true)

		if p.failed.Load() {
			p.cancel()
		}

		var errs []error
		for _, w := range p.workers {
			_ = w.stdin.Close()
		}
		for _, w := range p.workers {
			err := w.cmd.Wait()
			if err != nil && !p.failed.Load() {
				errs = append(errs, fmt.Errorf("worker %d: %w", w.id, err))
			}
			p.logger.Debug("worker process exited", "worker", w.id, "pid", w.cmd.Process.Pid, "err", err)
		}
		p.cancel()
		p.err = errors.Join(errs...)
	})

	return p.err
}
