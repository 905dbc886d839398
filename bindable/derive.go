package bindable

// Derive creates a Variable holding fn(src.Value()) and keeps it in sync by
// subscribing to src. The derived variable starts initialized, so source
// writes that map to an equal result do not notify its subscribers.
//
// Unbind the returned Binding to stop tracking src.
func Derive[S any, T comparable](src *Variable[S], fn func(S) T, opts ...Option) (*Variable[T], *Binding[S]) {
	opts = append([]Option{StartInitialized()}, opts...)
	derived := New(fn(src.Value()), opts...)
	binding := src.Subscribe(func(value S) {
		derived.SetValue(fn(value))
	})
	return derived, binding
}
