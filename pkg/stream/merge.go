package stream

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mikeoz32/streamgo/internal/xlog"
)

// mergeEvent is one entry of Merge's conceptual event queue: an element, a
// source failure, or a source's completion token.
type mergeEvent[T any] struct {
	val  T
	err  error
	done bool
}

// Merge consumes all sources concurrently and emits their elements in
// arrival order. Relative order within a single source is preserved;
// cross-source order is not deterministic. With a single source, Merge
// degenerates to the identity stream. On a source failure, every other
// pumping goroutine is cancelled and awaited before the error is
// re-raised, using an errgroup-based goroutine lifecycle: cancel the
// shared context, then Wait() for every pump to return before surfacing
// the error.
func Merge[T any](sources ...Stream[T]) Stream[T] {
	if len(sources) == 0 {
		return func() (T, error) {
			var zero T
			return zero, EOS
		}
	}
	if len(sources) == 1 {
		return sources[0]
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(ctx)
	queue := make(chan mergeEvent[T], len(sources))

	for _, src := range sources {
		src := src
		g.Go(func() error {
			for {
				v, err := src()
				if err != nil {
					if err != EOS {
						select {
						case queue <- mergeEvent[T]{err: err}:
						case <-ctx.Done():
							return nil
						}
					}
					select {
					case queue <- mergeEvent[T]{done: true}:
					case <-ctx.Done():
					}
					return nil
				}
				select {
				case queue <- mergeEvent[T]{val: v}:
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	active := len(sources)
	finished := false
	var terminalErr error

	return func() (T, error) {
		var zero T
		if finished {
			return zero, terminalErr
		}
		for active > 0 {
			ev := <-queue
			switch {
			case ev.done:
				active--
			case ev.err != nil:
				xlog.Default().Debug().Err(ev.err).Msg("merge: cancelling sibling sources after failure")
				cancel()
				g.Wait()
				finished = true
				terminalErr = ErrSource(ev.err)
				return zero, terminalErr
			default:
				return ev.val, nil
			}
		}
		cancel()
		finished = true
		terminalErr = EOS
		return zero, EOS
	}
}
