package bindable

import "context"

// Readable exposes read-only reactive state.
type Readable[T any] interface {
	Value() T
	Subscribe(fn func(T)) *Binding[T]
	SubscribeAndNotify(fn func(T)) *Binding[T]
	BindingCount() int
	WaitFor(ctx context.Context, pred func(T) bool) *Wait[T]
	WaitForValue(ctx context.Context, target T) *Wait[T]
}

// Writable exposes read/write reactive state.
type Writable[T any] interface {
	Readable[T]
	SetValue(value T) bool
	Update(fn func(T) T) bool
	Broadcast()
}

var _ Writable[int] = (*Variable[int])(nil)
