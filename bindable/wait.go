package bindable

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// WaitStatus is the state of a Wait.
type WaitStatus uint8

const (
	WaitPending WaitStatus = iota
	WaitCompleted
	WaitCancelled
)

func (s WaitStatus) String() string {
	switch s {
	case WaitPending:
		return "pending"
	case WaitCompleted:
		return "completed"
	case WaitCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("WaitStatus(%d)", uint8(s))
	}
}

// Wait is a single-resolution future for a condition on a Variable. It is
// resolved by the Variable's own writes, or cancelled by its context or by
// Cancel; whichever happens first wins.
//
// Done and Result may be used from any goroutine. Cancel must be called from
// the goroutine that owns the Variable.
type Wait[T any] struct {
	owner   *Variable[T]
	pred    func(T) bool
	ctx     context.Context
	binding *Binding[T]
	stopCtx func() bool

	mu        sync.Mutex
	status    WaitStatus
	value     T
	err       error
	done      chan struct{}
	callbacks []func(T, error)
}

// WaitFor returns a Wait that completes with the first value, current or
// written later, for which pred returns true. If the current value already
// satisfies pred the Wait is completed on return and nothing is subscribed.
//
// WaitFor panics if pred is nil. Cancelling ctx resolves the Wait
// immediately; the variable drops its subscription the next time its owner
// goroutine calls into it, so BindingCount never counts a cancelled Wait.
func (v *Variable[T]) WaitFor(ctx context.Context, pred func(T) bool) *Wait[T] {
	if pred == nil {
		panic(fmt.Errorf("%w: nil predicate", ErrInvalidArgument))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	v.reap()
	w := &Wait[T]{
		owner: v,
		pred:  pred,
		ctx:   ctx,
		done:  make(chan struct{}),
	}

	if pred(v.value) {
		w.resolve(WaitCompleted, v.value, nil)
		return w
	}
	if ctx.Err() != nil {
		var zero T
		w.resolve(WaitCancelled, zero, cancelledError(ctx))
		return w
	}

	w.binding = v.changed.Subscribe(w.observe)
	v.waits.Add(w)
	w.stopCtx = context.AfterFunc(ctx, func() {
		var zero T
		w.resolve(WaitCancelled, zero, cancelledError(ctx))
	})
	return w
}

// WaitForValue waits until the variable holds a value equal to target under
// the variable's comparator. Variables created by NewFunc without a
// comparator fall back to reflect.DeepEqual.
func (v *Variable[T]) WaitForValue(ctx context.Context, target T) *Wait[T] {
	equal := v.equal
	if equal == nil {
		equal = func(a, b T) bool {
			return reflect.DeepEqual(a, b)
		}
	}
	return v.WaitFor(ctx, func(value T) bool {
		return equal(value, target)
	})
}

func (w *Wait[T]) observe(value T) {
	if w.Status() != WaitPending {
		// cancelled from another goroutine, reap the binding here
		w.detach()
		return
	}
	if w.ctx.Err() != nil {
		w.detach()
		var zero T
		w.resolve(WaitCancelled, zero, cancelledError(w.ctx))
		return
	}
	if !w.pred(value) {
		return
	}
	w.detach()
	w.resolve(WaitCompleted, value, nil)
}

// detach must run on the owner goroutine.
func (w *Wait[T]) detach() {
	w.binding.Unbind()
	w.owner.waits.Remove(w)
	if w.stopCtx != nil {
		w.stopCtx()
	}
}

func (w *Wait[T]) resolve(status WaitStatus, value T, err error) bool {
	w.mu.Lock()
	if w.status != WaitPending {
		w.mu.Unlock()
		return false
	}
	w.status = status
	w.value = value
	w.err = err
	callbacks := w.callbacks
	w.callbacks = nil
	if status == WaitCancelled {
		// raised before done closes, so a caller that saw Done also sees
		// the flag
		w.owner.reapWaits.Store(true)
	}
	close(w.done)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(value, err)
	}
	return true
}

// Cancel resolves a pending Wait as cancelled and unsubscribes it. It has no
// effect on the outcome of a resolved Wait, but still drops a subscription
// left behind by context cancellation.
func (w *Wait[T]) Cancel() {
	w.detach()
	var zero T
	w.resolve(WaitCancelled, zero, ErrCancelled)
}

// Done is closed once the Wait is resolved.
func (w *Wait[T]) Done() <-chan struct{} {
	return w.done
}

// Status returns the current state.
func (w *Wait[T]) Status() WaitStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Result returns the value that satisfied the predicate. It returns
// ErrPending before resolution and an error matching ErrCancelled after
// cancellation.
func (w *Wait[T]) Result() (T, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.status {
	case WaitPending:
		var zero T
		return zero, ErrPending
	default:
		return w.value, w.err
	}
}

// Await blocks until the Wait resolves or ctx is done. The Variable must be
// written from another goroutine for Await to return anything but ctx's
// error. A nil ctx never expires.
func (w *Wait[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-w.done:
		return w.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnDone calls fn with the outcome once the Wait resolves, immediately if it
// already has. fn runs on the goroutine that resolves the Wait: the owner
// goroutine for writes and Cancel, but a context's own goroutine when the
// context is cancelled. fn must therefore not read or write any Variable;
// hand the outcome back to the owner goroutine, over a channel for example.
func (w *Wait[T]) OnDone(fn func(value T, err error)) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	if w.status == WaitPending {
		w.callbacks = append(w.callbacks, fn)
		w.mu.Unlock()
		return
	}
	value, err := w.value, w.err
	w.mu.Unlock()
	fn(value, err)
}

func cancelledError(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
}
