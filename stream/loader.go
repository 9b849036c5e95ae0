package stream

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/multierr"

	"github.com/gogpu/voxel"
	"github.com/gogpu/voxel/internal/parallel"
)

// ErrNoStream is returned by NewLoader when no stream is given.
var ErrNoStream = errors.New("stream: nil stream")

// OutputFunc receives the result of each load task. Calls are serialized.
type OutputFunc func(BlockDataOutput)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithWorkers sets the number of worker goroutines.
// Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		l.workers = n
	}
}

// WithOutput sets the callback receiving each task's output.
func WithOutput(fn OutputFunc) LoaderOption {
	return func(l *Loader) {
		l.output = fn
	}
}

// WithGenerator sets the generator used for blocks missing from the stream.
func WithGenerator(g Generator) LoaderOption {
	return func(l *Loader) {
		l.generator = g
	}
}

// WithInstanceStream sets where instance data is read from. When the
// stream passed to NewLoader implements InstanceStream it is used by default.
func WithInstanceStream(s InstanceStream) LoaderOption {
	return func(l *Loader) {
		l.instances = s
	}
}

// WithBufferOptions sets the options every loaded buffer is created with,
// which defines the channel format of blocks that are generated or left
// at their defaults.
func WithBufferOptions(opts ...voxel.Option) LoaderOption {
	return func(l *Loader) {
		l.bufferOptions = opts
	}
}

// Loader runs load tasks on a worker pool.
type Loader struct {
	stream        Stream
	generator     Generator
	instances     InstanceStream
	bufferOptions []voxel.Option
	workers       int

	pool *parallel.Pool

	outputMu sync.Mutex
	output   OutputFunc
}

// NewLoader creates a loader reading from s.
func NewLoader(s Stream, opts ...LoaderOption) (*Loader, error) {
	if s == nil {
		return nil, ErrNoStream
	}

	l := &Loader{stream: s}
	if is, ok := s.(InstanceStream); ok {
		l.instances = is
	}
	for _, opt := range opts {
		opt(l)
	}
	l.pool = parallel.NewPool(l.workers)

	voxel.Logger().Debug("stream loader started", "workers", l.pool.Workers())
	return l, nil
}

// Submit runs the tasks and blocks until every output has been delivered.
// The returned error combines the errors of all failed tasks.
func (l *Loader) Submit(ctx context.Context, tasks []*LoadTask) error {
	var (
		mu   sync.Mutex
		errs error
	)

	jobs := make([]parallel.Job, 0, len(tasks))
	for _, task := range tasks {
		if task == nil {
			continue
		}
		runningLoadTasks.Add(1)
		jobs = append(jobs, func(ctx context.Context) {
			defer runningLoadTasks.Add(-1)

			out := task.run(ctx, l)
			if out.Err != nil {
				mu.Lock()
				errs = multierr.Append(errs, out.Err)
				mu.Unlock()
			}
			l.deliver(out)
		})
	}

	if err := l.pool.Run(ctx, jobs); err != nil {
		runningLoadTasks.Add(-int64(len(jobs)))
		return err
	}
	return errs
}

// Load runs a single task on the calling goroutine and returns its output
// without invoking the output callback.
func (l *Loader) Load(ctx context.Context, task *LoadTask) BlockDataOutput {
	runningLoadTasks.Add(1)
	defer runningLoadTasks.Add(-1)
	return task.run(ctx, l)
}

func (l *Loader) deliver(out BlockDataOutput) {
	l.outputMu.Lock()
	defer l.outputMu.Unlock()

	if l.output == nil {
		// Nobody takes ownership of the buffer.
		if out.Voxels != nil {
			out.Voxels.Release()
		}
		return
	}
	l.output(out)
}

// Close stops the worker pool.
func (l *Loader) Close() {
	l.pool.Close()
}
