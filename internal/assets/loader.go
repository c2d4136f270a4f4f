package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/logger"
)

// ErrLoadPanic wraps a panic raised while loading an asset.
var ErrLoadPanic = errors.New("asset loader panicked")

// FailurePolicy decides what happens when a load fails.
type FailurePolicy int

const (
	// IgnoreFailure logs a warning and leaves the content absent.
	IgnoreFailure FailurePolicy = iota
	// ReportFailure additionally hands the error to the loader's report hook.
	ReportFailure
)

func (p FailurePolicy) String() string {
	if p == ReportFailure {
		return "report"
	}
	return "ignore"
}

// ParseFailurePolicy parses "ignore" or "report". Empty means ignore.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "ignore":
		return IgnoreFailure, nil
	case "report":
		return ReportFailure, nil
	}
	return IgnoreFailure, fmt.Errorf("unknown failure policy %q", s)
}

// Result is the settled outcome of a load.
type Result[T any] struct {
	Value T
	Err   error
}

// Future is a load in progress. It settles exactly once.
type Future[T any] struct {
	done chan struct{}
	res  Result[T]
}

// Done is closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome and whether the future has settled.
func (f *Future[T]) Result() (Result[T], bool) {
	select {
	case <-f.done:
		return f.res, true
	default:
		return Result[T]{}, false
	}
}

// Wait blocks until the future settles or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (Result[T], error) {
	select {
	case <-f.done:
		return f.res, nil
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Policy FailurePolicy
	// Report receives failures under ReportFailure. It runs on the
	// dispatching goroutine.
	Report func(name string, err error)
	Logger *zap.Logger
}

// Loader runs loads in the background and hands their completions back to
// the goroutine calling Dispatch, so completion callbacks never race the
// frame loop.
type Loader struct {
	ctx    context.Context
	cancel context.CancelFunc
	policy FailurePolicy
	report func(string, error)
	log    *zap.Logger

	completions chan func()
	wg          sync.WaitGroup

	mu      sync.Mutex
	pending int
}

// NewLoader creates a loader bound to ctx. Cancelling ctx abandons
// outstanding completions.
func NewLoader(ctx context.Context, opts LoaderOptions) *Loader {
	ctx, cancel := context.WithCancel(ctx)
	return &Loader{
		ctx:         ctx,
		cancel:      cancel,
		policy:      opts.Policy,
		report:      opts.Report,
		log:         logger.OrNop(opts.Logger),
		completions: make(chan func(), 16),
	}
}

// Go starts load in a new goroutine and returns its future. When it settles,
// then is queued for the next Dispatch; failures are logged and reported per
// the loader's policy before then runs.
func Go[T any](l *Loader, name string, load func(ctx context.Context) (T, error), then func(Result[T])) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		v, err := safeLoad(l.ctx, load)
		f.res = Result[T]{Value: v, Err: err}
		close(f.done)

		complete := func() {
			l.mu.Lock()
			l.pending--
			l.mu.Unlock()

			if err != nil {
				l.fail(name, err)
			} else {
				l.log.Info("asset loaded", zap.String("asset", name))
			}
			if then != nil {
				then(f.res)
			}
		}

		select {
		case l.completions <- complete:
		case <-l.ctx.Done():
		}
	}()
	return f
}

// safeLoad turns a panic inside load into an error so a malformed asset
// cannot take the process down.
func safeLoad[T any](ctx context.Context, load func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("%w: %v", ErrLoadPanic, r)
		}
	}()
	return load(ctx)
}

func (l *Loader) fail(name string, err error) {
	switch l.policy {
	case ReportFailure:
		l.log.Error("asset failed to load", zap.String("asset", name), zap.Error(err))
		if l.report != nil {
			l.report(name, err)
		}
	default:
		l.log.Warn("asset failed to load, continuing without it", zap.String("asset", name), zap.Error(err))
	}
}

// Dispatch runs every queued completion and returns how many ran.
// It never blocks.
func (l *Loader) Dispatch() int {
	n := 0
	for {
		select {
		case fn := <-l.completions:
			fn()
			n++
		default:
			return n
		}
	}
}

// Pending returns the number of loads whose completion has not been dispatched.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Close cancels outstanding loads and waits for their goroutines.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}
