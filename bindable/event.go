package bindable

import "reflect"

// Listener receives the values broadcast by an Event.
//
// Listeners registered through SubscribeListener are matched by Unsubscribe
// with ==, so their dynamic type must be comparable. Pointer types are. A
// struct whose interface fields hold funcs, maps or slices never matches and
// can only be removed through its Binding.
type Listener[T any] interface {
	OnValue(value T)
}

// ListenerFunc adapts a plain function to a Listener. It is not comparable
// and cannot be removed with Unsubscribe; use the returned Binding instead.
type ListenerFunc[T any] func(value T)

func (fn ListenerFunc[T]) OnValue(value T) {
	fn(value)
}

type entry[T any] struct {
	listener Listener[T]
	binding  *Binding[T]
}

// Event is an insertion ordered multicast list. The zero value is ready to
// use. Event is not safe for concurrent use.
//
// Entries are stored copy-on-write: Notify iterates the list as it was when
// the broadcast began, so a callback that subscribes or unsubscribes only
// changes who receives the next broadcast.
type Event[T any] struct {
	entries []*entry[T]
}

// Subscribe registers fn and returns its bound Binding. Every call returns a
// distinct Binding, even for the same function.
func (ev *Event[T]) Subscribe(fn func(T)) *Binding[T] {
	if fn == nil {
		return nil
	}
	return ev.SubscribeListener(ListenerFunc[T](fn))
}

// SubscribeListener registers l and returns its bound Binding.
func (ev *Event[T]) SubscribeListener(l Listener[T]) *Binding[T] {
	if l == nil {
		return nil
	}
	b := &Binding[T]{event: ev, listener: l}
	b.Bind()
	return b
}

// Unsubscribe removes the earliest entry registered for l and marks its
// Binding unbound. It is a no-op when l is not subscribed.
func (ev *Event[T]) Unsubscribe(l Listener[T]) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	for _, e := range ev.entries {
		if sameListener(e.listener, l) {
			e.binding.Unbind()
			return
		}
	}
}

// sameListener is == that reports false instead of panicking on values with
// uncomparable dynamic contents.
func sameListener[T any](a, b Listener[T]) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// BindingCount returns the number of bound entries.
func (ev *Event[T]) BindingCount() int {
	return len(ev.entries)
}

// Notify calls every bound listener with value, in subscription order, on the
// calling goroutine. A listener that panics aborts the broadcast: the panic
// reaches the caller and the remaining listeners are skipped.
func (ev *Event[T]) Notify(value T) {
	for _, e := range ev.entries {
		e.listener.OnValue(value)
	}
}

func (ev *Event[T]) insert(e *entry[T]) {
	// append never touches indices a running Notify can see; only remove
	// needs a fresh backing array.
	ev.entries = append(ev.entries, e)
}

func (ev *Event[T]) remove(e *entry[T]) {
	for i, cur := range ev.entries {
		if cur != e {
			continue
		}
		next := make([]*entry[T], 0, len(ev.entries)-1)
		next = append(next, ev.entries[:i]...)
		next = append(next, ev.entries[i+1:]...)
		ev.entries = next
		return
	}
}

// Binding is the handle for one registration on an Event. Bind and Unbind
// are idempotent and a nil Binding ignores both.
type Binding[T any] struct {
	event    *Event[T]
	listener Listener[T]
	entry    *entry[T]
}

// Bind registers the listener again if it is currently unbound. A rebound
// listener moves to the end of the notification order.
func (b *Binding[T]) Bind() {
	if b == nil || b.entry != nil {
		return
	}
	b.entry = &entry[T]{listener: b.listener, binding: b}
	b.event.insert(b.entry)
}

// Unbind removes the registration. Calling it on an unbound Binding does
// nothing.
func (b *Binding[T]) Unbind() {
	if b == nil || b.entry == nil {
		return
	}
	b.event.remove(b.entry)
	b.entry = nil
}

// IsBound reports whether the listener is currently registered.
func (b *Binding[T]) IsBound() bool {
	return b != nil && b.entry != nil
}
