package bindable_test

import (
	"math/rand"
	"testing"

	"github.com/delaneyj/bindable/bindable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []int
}

func (r *recorder) OnValue(v int) {
	r.got = append(r.got, v)
}

// should return a distinct binding for each subscription of the same callback
func TestSubscribeSameCallbackTwice(t *testing.T) {
	var ev bindable.Event[int]
	callCount := 0
	fn := func(int) {
		callCount++
	}

	b1 := ev.Subscribe(fn)
	b2 := ev.Subscribe(fn)
	require.NotSame(t, b1, b2)
	assert.Equal(t, 2, ev.BindingCount())

	ev.Notify(1)
	assert.Equal(t, 2, callCount)

	b1.Unbind()
	ev.Notify(2)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 1, ev.BindingCount())

	b2.Unbind()
	assert.Equal(t, 0, ev.BindingCount())
}

// should ignore repeated unbinds and binds
func TestBindingIdempotent(t *testing.T) {
	v := bindable.New(0)
	b := v.Subscribe(func(int) {})
	assert.True(t, b.IsBound())

	b.Bind()
	assert.Equal(t, 1, v.BindingCount())

	b.Unbind()
	b.Unbind()
	assert.False(t, b.IsBound())
	assert.Equal(t, 0, v.BindingCount())

	b.Bind()
	assert.True(t, b.IsBound())
	assert.Equal(t, 1, v.BindingCount())
}

// should move a rebound listener to the end of the notification order
func TestRebindOrder(t *testing.T) {
	var ev bindable.Event[int]
	order := []string{}
	a := ev.Subscribe(func(int) { order = append(order, "a") })
	ev.Subscribe(func(int) { order = append(order, "b") })

	a.Unbind()
	a.Bind()
	ev.Notify(0)
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestNilBinding(t *testing.T) {
	var ev bindable.Event[int]
	b := ev.Subscribe(nil)
	assert.Nil(t, b)
	assert.NotPanics(t, func() {
		b.Bind()
		b.Unbind()
	})
	assert.False(t, b.IsBound())
	assert.Nil(t, ev.SubscribeListener(nil))
	assert.Equal(t, 0, ev.BindingCount())
}

// should remove one registration per Unsubscribe call
func TestUnsubscribeListener(t *testing.T) {
	v := bindable.New(0)
	r := &recorder{}
	b1 := v.SubscribeListener(r)
	b2 := v.SubscribeListener(r)
	assert.Equal(t, 2, v.BindingCount())

	v.SetValue(1)
	assert.Equal(t, []int{1, 1}, r.got)

	v.Unsubscribe(r)
	assert.Equal(t, 1, v.BindingCount())
	assert.False(t, b1.IsBound())
	assert.True(t, b2.IsBound())

	v.SetValue(2)
	assert.Equal(t, []int{1, 1, 2}, r.got)

	v.Unsubscribe(r)
	v.Unsubscribe(r)
	assert.Equal(t, 0, v.BindingCount())

	// the binding already knows it is unbound
	b1.Unbind()
	b2.Unbind()
	assert.Equal(t, 0, v.BindingCount())
}

func TestUnsubscribeUnknownListener(t *testing.T) {
	v := bindable.New(0)
	v.SubscribeListener(&recorder{})
	v.Subscribe(func(int) {})

	v.Unsubscribe(&recorder{})
	v.Unsubscribe(bindable.ListenerFunc[int](func(int) {}))
	v.Unsubscribe(nil)
	assert.Equal(t, 2, v.BindingCount())
}

type forwarder struct {
	target any
}

func (f forwarder) OnValue(v int) {
	if fn, ok := f.target.(func(int)); ok {
		fn(v)
	}
}

// should skip listeners whose contents cannot be compared instead of panicking
func TestUnsubscribeUncomparableContents(t *testing.T) {
	v := bindable.New(0)
	callCount := 0
	fn := func(int) { callCount++ }
	held := v.SubscribeListener(forwarder{target: fn})
	v.SubscribeListener(forwarder{target: "log"})
	assert.Equal(t, 2, v.BindingCount())

	assert.NotPanics(t, func() {
		v.Unsubscribe(forwarder{target: fn})
	})
	assert.True(t, held.IsBound())

	v.Unsubscribe(forwarder{target: "log"})
	assert.Equal(t, 1, v.BindingCount())

	v.SetValue(1)
	assert.Equal(t, 1, callCount)
	held.Unbind()
	assert.Equal(t, 0, v.BindingCount())
}

// should track net outstanding subscriptions for any sequence of operations
func TestBindingCountMatchesOutstanding(t *testing.T) {
	random := rand.New(rand.NewSource(0))
	v := bindable.New(0)
	r := &recorder{}
	var bindings []*bindable.Binding[int]
	listeners := 0

	for i := 0; i < 1000; i++ {
		switch random.Intn(5) {
		case 0:
			bindings = append(bindings, v.Subscribe(func(int) {}))
		case 1:
			if len(bindings) > 0 {
				bindings[random.Intn(len(bindings))].Unbind()
			}
		case 2:
			if len(bindings) > 0 {
				bindings[random.Intn(len(bindings))].Bind()
			}
		case 3:
			v.SubscribeListener(r)
			listeners++
		case 4:
			v.Unsubscribe(r)
			listeners = max(listeners-1, 0)
		}

		want := listeners
		for _, b := range bindings {
			if b.IsBound() {
				want++
			}
		}
		require.GreaterOrEqual(t, v.BindingCount(), 0)
		require.Equal(t, want, v.BindingCount())
	}
}

// should only reach a listener added during a broadcast on the next broadcast
func TestSubscribeDuringNotify(t *testing.T) {
	v := bindable.New(0)
	late := []int{}
	added := false
	v.Subscribe(func(int) {
		if !added {
			added = true
			v.Subscribe(record(&late))
		}
	})

	v.SetValue(1)
	assert.Equal(t, []int{}, late)
	assert.Equal(t, 2, v.BindingCount())

	v.SetValue(2)
	assert.Equal(t, []int{2}, late)
}

// should still deliver the current broadcast to a listener removed during it
func TestUnsubscribeDuringNotify(t *testing.T) {
	v := bindable.New(0)
	got := []int{}
	var second *bindable.Binding[int]
	v.Subscribe(func(int) {
		second.Unbind()
	})
	second = v.Subscribe(record(&got))

	v.SetValue(1)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, v.BindingCount())

	v.SetValue(2)
	assert.Equal(t, []int{1}, got)
}

// should let a listener unbind itself while being notified
func TestSelfUnbind(t *testing.T) {
	v := bindable.New(0)
	got := []int{}
	var self *bindable.Binding[int]
	self = v.Subscribe(func(x int) {
		got = append(got, x)
		self.Unbind()
	})
	after := []int{}
	v.Subscribe(record(&after))

	v.SetValue(1)
	v.SetValue(2)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, []int{1, 2}, after)
}
