package stream

// ============================================================================
// ELEMENTWISE OPERATORS
// ============================================================================
//
// The predicate operator is named "Where" rather than "Filter": the type
// Filter[T, U] is already the composable-operator shape that every
// operator in this package returns, so a function literally named Filter
// would collide with it.

// Map transforms each element in a stream.
func Map[T, U any](fn func(T) U) Filter[T, U] {
	return func(input Stream[T]) Stream[U] {
		return func() (U, error) {
			item, err := input()
			if err != nil {
				var zero U
				return zero, err
			}
			return fn(item), nil
		}
	}
}

// MapAsync is Map's polymorphic-await variant: fn returns a Deferred[U]
// that is resolved (invoked) before the mapped value is emitted.
func MapAsync[T, U any](fn func(T) Deferred[U]) Filter[T, U] {
	return func(input Stream[T]) Stream[U] {
		return func() (U, error) {
			item, err := input()
			if err != nil {
				var zero U
				return zero, err
			}
			return await(fn(item))
		}
	}
}

// Where keeps only elements matching a predicate, preserving relative order.
func Where[T any](predicate func(T) bool) Filter[T, T] {
	return func(input Stream[T]) Stream[T] {
		return func() (T, error) {
			for {
				item, err := input()
				if err != nil {
					var zero T
					return zero, err
				}
				if predicate(item) {
					return item, nil
				}
			}
		}
	}
}

// WhereAsync is Where's polymorphic-await variant.
func WhereAsync[T any](predicate func(T) Deferred[bool]) Filter[T, T] {
	return func(input Stream[T]) Stream[T] {
		return func() (T, error) {
			for {
				item, err := input()
				if err != nil {
					var zero T
					return zero, err
				}
				keep, err := await(predicate(item))
				if err != nil {
					var zero T
					return zero, err
				}
				if keep {
					return item, nil
				}
			}
		}
	}
}

// Tap invokes cb for its side effect and re-emits the element unchanged.
// cb has no error result; with TapAsync, a failing Deferred propagates as
// a CallbackFailure and terminates the stream.
func Tap[T any](cb func(T)) Filter[T, T] {
	return func(input Stream[T]) Stream[T] {
		return func() (T, error) {
			item, err := input()
			if err != nil {
				var zero T
				return zero, err
			}
			cb(item)
			return item, nil
		}
	}
}

// TapAsync is Tap's polymorphic-await variant.
func TapAsync[T any](cb func(T) Deferred[any]) Filter[T, T] {
	return func(input Stream[T]) Stream[T] {
		return func() (T, error) {
			item, err := input()
			if err != nil {
				var zero T
				return zero, err
			}
			if _, err := await(cb(item)); err != nil {
				var zero T
				return zero, err
			}
			return item, nil
		}
	}
}

// Flatten emits each inner element of a stream of slices, in order. Empty
// inner slices contribute nothing.
func Flatten[T any](input Stream[[]T]) Stream[T] {
	var current []T
	var pos int
	return func() (T, error) {
		for {
			if pos < len(current) {
				item := current[pos]
				pos++
				return item, nil
			}
			next, err := input()
			if err != nil {
				var zero T
				return zero, err
			}
			current = next
			pos = 0
		}
	}
}

// Indexed pairs a zero/start-based index with its element, the result shape
// of Enumerate.
type Indexed[T any] struct {
	Index int
	Value T
}

// Enumerate emits (index, x) with index starting at start and incremented
// by one per emission.
func Enumerate[T any](start int) Filter[T, Indexed[T]] {
	return func(input Stream[T]) Stream[Indexed[T]] {
		index := start
		return func() (Indexed[T], error) {
			item, err := input()
			if err != nil {
				return Indexed[T]{}, err
			}
			out := Indexed[T]{Index: index, Value: item}
			index++
			return out, nil
		}
	}
}

// Take emits the first n elements, then signals exhaustion. n <= 0 emits
// nothing and never pulls upstream.
func Take[T any](n int) Filter[T, T] {
	return func(input Stream[T]) Stream[T] {
		count := 0
		return func() (T, error) {
			if count >= n {
				var zero T
				return zero, EOS
			}
			count++
			return input()
		}
	}
}

// Skip discards the first n elements, then forwards the rest.
func Skip[T any](n int) Filter[T, T] {
	return func(input Stream[T]) Stream[T] {
		skipped := 0
		return func() (T, error) {
			for skipped < n {
				if _, err := input(); err != nil {
					var zero T
					return zero, err
				}
				skipped++
			}
			return input()
		}
	}
}

// KeyValue pairs a lookup key with the record it was extracted from, the
// result shape of Keyed.
type KeyValue[T any] struct {
	Key   any
	Value T
}

// Keyed emits (element[name], element) for each upstream Record. Fails
// with a ValidationFailure if the key is absent.
func Keyed(name string) Filter[Record, KeyValue[Record]] {
	return func(input Stream[Record]) Stream[KeyValue[Record]] {
		return func() (KeyValue[Record], error) {
			item, err := input()
			if err != nil {
				return KeyValue[Record]{}, err
			}
			key, ok := item[name]
			if !ok {
				return KeyValue[Record]{}, ErrMissingKey(name)
			}
			return KeyValue[Record]{Key: key, Value: item}, nil
		}
	}
}

// FlatMap maps each element to a Stream[U] produced on demand and flattens
// those streams in order, one fully consumed before the next is created.
// Distinct from Flatten, which flattens already-materialized slices.
func FlatMap[T, U any](fn func(T) Stream[U]) Filter[T, U] {
	return func(input Stream[T]) Stream[U] {
		var current Stream[U]
		return func() (U, error) {
			for {
				if current != nil {
					item, err := current()
					if err == nil {
						return item, nil
					}
					if err != EOS {
						var zero U
						return zero, err
					}
					current = nil
				}
				item, err := input()
				if err != nil {
					var zero U
					return zero, err
				}
				current = fn(item)
			}
		}
	}
}
