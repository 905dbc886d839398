package bindable

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// Unbinder is anything that can drop its registration. *Binding[T] is one.
type Unbinder interface {
	Unbind()
}

// Bag collects bindings from any number of variables so they can be unbound
// together, typically when the owner of the subscriptions goes away.
//
// Unbinders that cannot be map keys, such as func types, are kept in order
// alongside the set. They are unbound by Clear but Remove cannot find them.
type Bag struct {
	bindings mapset.Set[Unbinder]
	unhashed []Unbinder
}

// NewBag creates an empty Bag.
func NewBag() *Bag {
	return &Bag{bindings: mapset.NewThreadUnsafeSet[Unbinder]()}
}

// Add tracks bindings. Nil values are ignored and adding a hashable binding
// twice tracks it once.
func (b *Bag) Add(bindings ...Unbinder) {
	for _, u := range bindings {
		switch {
		case isNil(u):
		case hashable(u):
			b.bindings.Add(u)
		default:
			b.unhashed = append(b.unhashed, u)
		}
	}
}

// Remove unbinds u and stops tracking it.
func (b *Bag) Remove(u Unbinder) {
	if isNil(u) || !hashable(u) || !b.bindings.Contains(u) {
		return
	}
	b.bindings.Remove(u)
	u.Unbind()
}

// Len returns the number of tracked bindings.
func (b *Bag) Len() int {
	return b.bindings.Cardinality() + len(b.unhashed)
}

// Clear unbinds every tracked binding and empties the Bag.
func (b *Bag) Clear() {
	bindings := append(b.bindings.ToSlice(), b.unhashed...)
	b.bindings.Clear()
	b.unhashed = nil
	for _, u := range bindings {
		u.Unbind()
	}
}

func isNil(u Unbinder) bool {
	if u == nil {
		return true
	}
	switch rv := reflect.ValueOf(u); rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}

// hashable reports whether u can be used as a map key. A comparable struct
// type still panics when one of its interface fields holds a func.
func hashable(u Unbinder) (ok bool) {
	if !reflect.TypeOf(u).Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	keys := map[Unbinder]struct{}{u: {}}
	return len(keys) == 1
}
