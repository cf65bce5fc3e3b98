// Package script runs the JavaScript files that declare scripted passives.
// All scripts share one goja runtime; every call into it holds the runtime
// lock and is bounded by a timeout.
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// ErrTimeout is returned when a script exceeds the execution time limit.
var ErrTimeout = errors.New("script: execution timed out")

// ErrPanic is returned when running a script panics on the Go side.
var ErrPanic = errors.New("script: runtime panic")

// sandbox owns the runtime. Callers go through run or call.
type sandbox struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	timeout time.Duration
	logger  *zap.Logger
}

func newSandbox(timeout time.Duration, logger *zap.Logger) *sandbox {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &sandbox{vm: newSafeVM(), timeout: timeout, logger: logger}
}

// newSafeVM creates a goja Runtime with host access removed.
func newSafeVM() *goja.Runtime {
	vm := goja.New()
	for _, name := range []string{"require", "process", "fetch", "XMLHttpRequest", "eval", "Function"} {
		vm.Set(name, goja.Undefined())
	}
	if m := vm.Get("Math"); m != nil {
		// Passives must be deterministic.
		_ = m.ToObject(vm).Set("random", func() float64 { return 0 })
	}
	return vm
}

// guarded runs fn with the runtime locked, interrupting it when the timeout
// elapses or ctx ends. The caller must hold s.mu.
func (s *sandbox) guarded(ctx context.Context, fn func() error) (err error) {
	timer := time.AfterFunc(s.timeout, func() { s.vm.Interrupt(ErrTimeout) })
	stop := context.AfterFunc(ctx, func() { s.vm.Interrupt(ctx.Err()) })
	defer func() {
		timer.Stop()
		stop()
		s.vm.ClearInterrupt()
		if r := recover(); r != nil {
			s.logger.Error("script panicked", zap.Any("recover", r))
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return unwrap(fn())
}

// unwrap turns goja interrupts back into the error that caused them.
func unwrap(err error) error {
	if err == nil {
		return nil
	}
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if cause, ok := ie.Value().(error); ok {
			return cause
		}
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return errors.New(ex.Error())
	}
	return err
}

// run executes a whole script.
func (s *sandbox) run(ctx context.Context, name, src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guarded(ctx, func() error {
		_, err := s.vm.RunScript(name, src)
		return err
	})
}

// call invokes a function value created by a script. args are built by the
// caller while the runtime is locked.
func (s *sandbox) call(fn goja.Callable, args func(vm *goja.Runtime) []goja.Value) (goja.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out goja.Value
	err := s.guarded(context.Background(), func() error {
		var err error
		out, err = fn(goja.Undefined(), args(s.vm)...)
		return err
	})
	return out, err
}
