package bindable

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// EqualFunc reports whether two values are equal for the purpose of
// suppressing notifications.
type EqualFunc[T any] func(a, b T) bool

// HashFunc appends a byte representation of v to dst and returns the
// extended slice. Two values with the same representation are treated as
// equal by HashEqual.
type HashFunc[T any] func(dst []byte, v T) []byte

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// AlwaysEqual treats every pair of values as equal. Paired with a cell that
// has been initialized it makes every SetValue a no-op, leaving Broadcast as
// the only way to notify.
func AlwaysEqual[T any](a, b T) bool {
	return true
}

// HashEqual builds an EqualFunc that compares the xxhash digests of the
// representations produced by hash.
func HashEqual[T any](hash HashFunc[T]) EqualFunc[T] {
	return func(a, b T) bool {
		var bufA, bufB [32]byte
		return xxhash.Sum64(hash(bufA[:0], a)) == xxhash.Sum64(hash(bufB[:0], b))
	}
}

// Integer is the set of types HashInteger can encode. Enumerations declared
// over an integer type satisfy it.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// HashInteger encodes integer-backed values, typically enumerations.
func HashInteger[T Integer](dst []byte, v T) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(v))
}

// HashString encodes string-backed values.
func HashString[T ~string](dst []byte, v T) []byte {
	return append(dst, string(v)...)
}

// HashFloat64 encodes float values by their IEEE-754 bits, so NaN equals a
// NaN with the same payload and -0 differs from +0.
func HashFloat64[T ~float64](dst []byte, v T) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(float64(v)))
}
