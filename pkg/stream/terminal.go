package stream

import (
	"golang.org/x/sync/errgroup"

	"github.com/mikeoz32/streamgo/internal/xlog"
)

// ToList drains the stream into an ordered slice.
func ToList[T any](input Stream[T]) ([]T, error) {
	var result []T
	for {
		item, err := input()
		if err != nil {
			if err == EOS {
				return result, nil
			}
			return result, err
		}
		result = append(result, item)
	}
}

// Sink pulls upstream into a staging batch and invokes fn on each element;
// once the batch reaches parallel entries, it awaits all of them together
// via errgroup, then clears and continues. On exhaustion it awaits any
// remainder. Invocation order within a batch is unspecified. parallel
// must be >= 1.
func Sink[T any](parallel int, fn func(T) error, input Stream[T]) error {
	if parallel < 1 {
		return ErrSinkParallelism(parallel)
	}

	batch := make([]T, 0, parallel)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		g := new(errgroup.Group)
		for _, item := range batch {
			item := item
			g.Go(func() error {
				if err := fn(item); err != nil {
					return ErrCallback(err)
				}
				return nil
			})
		}
		err := g.Wait()
		xlog.Default().Debug().Int("batch_size", len(batch)).Msg("sink: gathering")
		batch = batch[:0]
		return err
	}

	for {
		item, err := input()
		if err != nil {
			if err == EOS {
				return flush()
			}
			return ErrSource(err)
		}
		batch = append(batch, item)
		if len(batch) == parallel {
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

// SinkAsync is Sink's polymorphic-await variant: fn returns a Deferred
// resolved inside the batch's errgroup.
func SinkAsync[T any](parallel int, fn func(T) Deferred[any], input Stream[T]) error {
	return Sink(parallel, func(item T) error {
		_, err := fn(item)()
		return err
	}, input)
}
