package stream

import (
	"sync"

	"github.com/mikeoz32/streamgo/internal/xlog"
)

// splitState is the shared state backing a fan-out: one upstream Stream,
// one FIFO per branch, a terminated flag, and a stored terminal error.
// Every access is guarded by a real sync.Mutex, since branches may be
// consumed from concurrently and Go gives no implicit memory-visibility
// guarantee the way a single-threaded cooperative scheduler would.
type splitState[T any] struct {
	mu         sync.Mutex
	upstream   Stream[T]
	buffers    [][]T
	terminated bool
	err        error
}

// nextFor implements a single branch's advance: acquire the lock, check
// its own buffer, and either pop a buffered element or advance upstream
// once and append the result to every branch's buffer so slower branches
// never miss it. The lock is held for the whole check-and-advance
// sequence rather than released between a peek and a fallback pull,
// since nothing here is cheap enough to read without synchronization.
func (s *splitState[T]) nextFor(idx int) (T, error) {
	for {
		s.mu.Lock()
		if len(s.buffers[idx]) > 0 {
			v := s.buffers[idx][0]
			s.buffers[idx] = s.buffers[idx][1:]
			s.mu.Unlock()
			return v, nil
		}
		if s.terminated {
			err := s.err
			s.mu.Unlock()
			var zero T
			if err != nil {
				return zero, err
			}
			return zero, EOS
		}

		v, err := s.upstream()
		if err != nil {
			if err == EOS {
				s.terminated = true
			} else {
				s.err = ErrSource(err)
				s.terminated = true
			}
			s.mu.Unlock()
			continue
		}
		for i := range s.buffers {
			s.buffers[i] = append(s.buffers[i], v)
		}
		s.mu.Unlock()
	}
}

// Split produces n independent streams that each observe the full
// upstream sequence. n must be >= 2; violating that is a ValidationFailure
// returned immediately (branch count is known at construction time, so an
// eager Go error return fits better here than a lazily-erroring stream —
// Split's result isn't a single Stream to defer the failure into). Memory
// use is O(the gap between the fastest and slowest branch) and has no
// built-in bound, by design: a stalled branch retains memory.
func Split[T any](n int, input Stream[T]) ([]Stream[T], error) {
	if n < 2 {
		return nil, ErrSplitBranches(n)
	}

	state := &splitState[T]{upstream: input, buffers: make([][]T, n)}
	streams := make([]Stream[T], n)
	for i := 0; i < n; i++ {
		idx := i
		streams[i] = func() (T, error) {
			v, err := state.nextFor(idx)
			if err != nil && err != EOS {
				xlog.Default().Debug().Int("branch", idx).Err(err).Msg("split: delivering stored terminal error")
			}
			return v, err
		}
	}
	return streams, nil
}

// SplitOne is the one-branch convenience form: it still must produce a
// Stream. Go streams are plain closures with no generic "clone the
// iterator" operation, so this forwards the same iterator unchanged —
// single-consumer semantics are preserved.
func SplitOne[T any](input Stream[T]) Stream[T] {
	return input
}
