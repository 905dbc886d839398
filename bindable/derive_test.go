package bindable_test

import (
	"context"
	"testing"

	"github.com/delaneyj/bindable/bindable"
	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	count := bindable.New(1)
	doubled, binding := bindable.Derive(count, func(c int) int {
		return c * 2
	})
	assert.Equal(t, 2, doubled.Value())
	assert.True(t, doubled.Initialized())

	got := []int{}
	doubled.Subscribe(record(&got))
	count.SetValue(2)
	assert.Equal(t, 4, doubled.Value())
	assert.Equal(t, []int{4}, got)

	binding.Unbind()
	count.SetValue(3)
	assert.Equal(t, 4, doubled.Value())
	assert.Equal(t, 0, count.BindingCount())
}

// should not notify when the derived result is unchanged
func TestDeriveSuppressesEqualResults(t *testing.T) {
	count := bindable.New(0)
	isEven, _ := bindable.Derive(count, func(c int) bool {
		return c%2 == 0
	}, bindable.WithName("isEven"))

	callCount := 0
	isEven.Subscribe(func(bool) { callCount++ })
	count.SetValue(2)
	count.SetValue(4)
	assert.Equal(t, 0, callCount)
	count.SetValue(5)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "isEven(false)", isEven.String())
}

// should resolve a wait on a derived variable through the chain
func TestDeriveChain(t *testing.T) {
	src := bindable.New(0)
	last := src
	for i := 0; i < 10; i++ {
		last, _ = bindable.Derive(last, func(x int) int { return x + 1 })
	}
	assert.Equal(t, 10, last.Value())

	w := last.WaitForValue(context.Background(), 15)
	src.SetValue(5)
	assert.Equal(t, bindable.WaitCompleted, w.Status())
}
