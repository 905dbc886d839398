// Package bindable provides reactive value cells: variables that notify their
// subscribers when written, suppress notifications for equal values, and can
// be awaited until their value satisfies a predicate.
//
// A Variable and everything subscribed to it belong to a single goroutine.
// Writes notify synchronously on the writer's stack, so a subscriber that
// writes to another Variable has finished its chain reaction before the
// outer SetValue returns. Callers that share a Variable between goroutines
// must synchronize externally.
package bindable

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// Variable holds a value and broadcasts it to subscribers on every
// notifying write.
type Variable[T any] struct {
	value         T
	initialized   bool
	checkEquality bool
	equal         EqualFunc[T]
	changed       Event[T]

	// pending waits, and whether a context cancellation left one to reap
	waits     mapset.Set[*Wait[T]]
	reapWaits atomic.Bool

	name   string
	logger *slog.Logger
}

// New creates a Variable that suppresses writes equal under ==.
func New[T comparable](initial T, opts ...Option) *Variable[T] {
	return newVariable(initial, EqualComparable[T], applyOptions(opts))
}

// NewHashed creates a Variable that compares values by the xxhash digest of
// the representation hash produces. It suits enumerations and other values
// with a small fixed encoding.
func NewHashed[T any](initial T, hash HashFunc[T], opts ...Option) (*Variable[T], error) {
	if hash == nil {
		return nil, fmt.Errorf("%w: nil hash func", ErrInvalidArgument)
	}
	return newVariable(initial, HashEqual(hash), applyOptions(opts)), nil
}

// NewFunc creates a Variable for types without a usable ==. equal may only be
// nil when WithoutEqualityCheck is given.
func NewFunc[T any](initial T, equal EqualFunc[T], opts ...Option) (*Variable[T], error) {
	o := applyOptions(opts)
	if equal == nil && !o.skipEqualityCheck {
		return nil, fmt.Errorf("%w: nil equal func with equality checking enabled", ErrInvalidArgument)
	}
	return newVariable(initial, equal, o), nil
}

// Must panics if err is non-nil.
func Must[T any](v *Variable[T], err error) *Variable[T] {
	if err != nil {
		panic(err)
	}
	return v
}

func newVariable[T any](initial T, equal EqualFunc[T], o options) *Variable[T] {
	return &Variable[T]{
		value:         initial,
		initialized:   o.startInitialized,
		checkEquality: !o.skipEqualityCheck,
		equal:         equal,
		waits:         mapset.NewThreadUnsafeSet[*Wait[T]](),
		name:          o.name,
		logger:        o.logger,
	}
}

// Value returns the current value.
func (v *Variable[T]) Value() T {
	return v.value
}

// Initialized reports whether the variable has been written, or was created
// with StartInitialized.
func (v *Variable[T]) Initialized() bool {
	return v.initialized
}

// SetValue stores value and notifies subscribers, unless the variable is
// initialized, checks equality, and value equals the current value. In that
// case nothing is written. It reports whether subscribers were notified.
func (v *Variable[T]) SetValue(value T) bool {
	v.reap()
	if v.initialized && v.checkEquality && v.equal(v.value, value) {
		if v.logger != nil {
			v.logger.Debug("suppressed equal write", "variable", v.name)
		}
		return false
	}
	v.value = value
	v.initialized = true
	if v.logger != nil {
		v.logger.Debug("notifying write", "variable", v.name, "bindings", v.changed.BindingCount())
	}
	v.changed.Notify(value)
	return true
}

// Update replaces the value with fn(current).
func (v *Variable[T]) Update(fn func(T) T) bool {
	if fn == nil {
		return false
	}
	return v.SetValue(fn(v.value))
}

// Broadcast resends the current value to every subscriber without writing.
func (v *Variable[T]) Broadcast() {
	v.reap()
	v.changed.Notify(v.value)
}

// Subscribe calls fn with every value written from now on.
func (v *Variable[T]) Subscribe(fn func(T)) *Binding[T] {
	v.reap()
	return v.changed.Subscribe(fn)
}

// SubscribeAndNotify calls fn once with the current value, initialized or
// not, then subscribes it.
func (v *Variable[T]) SubscribeAndNotify(fn func(T)) *Binding[T] {
	if fn == nil {
		return nil
	}
	v.reap()
	fn(v.value)
	return v.changed.Subscribe(fn)
}

// SubscribeListener subscribes l so that Unsubscribe can later remove it.
func (v *Variable[T]) SubscribeListener(l Listener[T]) *Binding[T] {
	v.reap()
	return v.changed.SubscribeListener(l)
}

// Unsubscribe removes one registration of l.
func (v *Variable[T]) Unsubscribe(l Listener[T]) {
	v.reap()
	v.changed.Unsubscribe(l)
}

// BindingCount returns the number of bound subscriptions, including pending
// waits. Waits cancelled through their context are not counted.
func (v *Variable[T]) BindingCount() int {
	v.reap()
	return v.changed.BindingCount()
}

// reap unsubscribes waits resolved by context cancellation. It runs on the
// owner goroutine at every entry point that reads or changes the bindings.
func (v *Variable[T]) reap() {
	if !v.reapWaits.Swap(false) {
		return
	}
	for _, w := range v.waits.ToSlice() {
		if w.Status() != WaitPending {
			w.detach()
		}
	}
}

func (v *Variable[T]) String() string {
	if v.name != "" {
		return fmt.Sprintf("%s(%v)", v.name, v.value)
	}
	return fmt.Sprint(v.value)
}
