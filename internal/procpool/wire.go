package procpool

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/utkarsh5026/tripbench/internal/task"
)

// request is one frame sent from the parent to a worker. The operation
// travels as its integer value so an unknown operation still reaches the
// worker and comes back as a task error.
type request struct {
	Seq       uint64
	Op        int
	Threshold float64
	Values    []float64
}

func newRequest(seq uint64, t task.Task) request {
	return request{Seq: seq, Op: int(t.Op), Threshold: t.Threshold, Values: t.Values}
}

func (r request) task() task.Task {
	return task.Task{Op: task.Operation(r.Op), Threshold: r.Threshold, Values: r.Values}
}

// response is one frame sent back; Err is non-empty when the task failed.
type response struct {
	Seq    uint64
	Values []float64
	Err    string
}

// handlerFunc executes a task inside the worker process.
type handlerFunc func(task.Task) ([]float64, error)

// Serve runs the worker loop: it decodes requests from r, runs each task and
// encodes the response to w, until r reaches EOF.
func Serve(r io.Reader, w io.Writer) error {
	return serve(r, w, task.Task.Run)
}

func serve(r io.Reader, w io.Writer, handle handlerFunc) error {
	dec := gob.NewDecoder(r)
	enc := gob.NewEncoder(w)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode request: %w", err)
		}

		resp := response{Seq: req.Seq}
		values, err := runGuarded(handle, req.task())
		if err != nil {
			resp.Err = err.Error()
		} else {
			resp.Values = values
		}

		if err := enc.Encode(&resp); err != nil {
			return fmt.Errorf("encode response %d: %w", req.Seq, err)
		}
	}
}

// runGuarded converts a panic in handle into an error frame so the parent
// sees the failure instead of a dead pipe.
func runGuarded(handle handlerFunc, t task.Task) (values []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()
	return handle(t)
}
