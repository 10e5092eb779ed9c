package stream

import "errors"

// ============================================================================
// STREAMV2 - GENERICS-FIRST STREAM PROCESSING LIBRARY
// ============================================================================

// EOS signals end of stream.
var EOS = errors.New("end of stream")

// Stream is a lazy, pull-driven sequence of T. Calling it advances the
// sequence by one element; (zero, EOS) signals exhaustion, any other
// non-nil error is a failure. Streams are single-consumer: obtaining more
// than one logical consumer requires Split.
type Stream[T any] func() (T, error)

// Filter transforms one stream into another with full type flexibility.
// Operators are free functions of this shape rather than methods on Stream
// because a Go method cannot introduce type parameters beyond its
// receiver's — composition happens via Pipe/Pipe3/Chain instead.
type Filter[T, U any] func(Stream[T]) Stream[U]

// Batch is an ordered, independent snapshot emitted by chunk/window/
// sliding_window. Mutating a batch after it is emitted never affects the
// stream that produced it.
type Batch[T any] []T

// AggregatedStream is a Stream whose elements are batches. It is not a
// distinct type, only an alias that gates GroupBy to the right element
// shape — Stream has no subclassing in Go, and none of the operators need
// it to be anything more than Stream[Batch[T]].
type AggregatedStream[T any] = Stream[Batch[T]]

// Common stream type aliases for convenience.
type RecordStream = Stream[Record]
type IntStream = Stream[int64]
type StringStream = Stream[string]

// ============================================================================
// STREAM COMPOSITION
// ============================================================================

// Pipe composes two filters.
func Pipe[T, U, V any](f1 Filter[T, U], f2 Filter[U, V]) Filter[T, V] {
	return func(input Stream[T]) Stream[V] {
		return f2(f1(input))
	}
}

// Pipe3 composes three filters.
func Pipe3[T, U, V, W any](f1 Filter[T, U], f2 Filter[U, V], f3 Filter[V, W]) Filter[T, W] {
	return func(input Stream[T]) Stream[W] {
		return f3(f2(f1(input)))
	}
}

// Chain applies multiple filters of the same type in order.
func Chain[T any](filters ...Filter[T, T]) Filter[T, T] {
	return func(input Stream[T]) Stream[T] {
		result := input
		for _, filter := range filters {
			result = filter(result)
		}
		return result
	}
}
