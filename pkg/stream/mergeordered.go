package stream

import (
	"cmp"
	"container/heap"
)

// heapItem is one entry of MergeOrdered's min-heap: (key, source-index,
// insertion-sequence, value).
type heapItem[T any, K cmp.Ordered] struct {
	key         K
	sourceIndex int
	seq         int64
	value       T
}

type itemHeap[T any, K cmp.Ordered] []heapItem[T, K]

func (h itemHeap[T, K]) Len() int { return len(h) }

func (h itemHeap[T, K]) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	if h[i].sourceIndex != h[j].sourceIndex {
		return h[i].sourceIndex < h[j].sourceIndex
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap[T, K]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap[T, K]) Push(x any) {
	*h = append(*h, x.(heapItem[T, K]))
}

func (h *itemHeap[T, K]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MergeOrdered merges sources that are each individually ordered by key
// into one globally key-ordered stream, using a min-heap over (key,
// source-index, insertion-sequence) for deterministic tie-breaking: a
// smaller key wins, then a smaller source index (the first argument is
// source 0), then earlier insertion order. sources[0] supplies source
// index 0.
//
// Initialization lazily happens on the first pull, not at construction:
// the heap is primed with one element per source, and after each pop the
// popped source is re-pulled and re-pushed on the *following* call rather
// than inline — a pull must not reach further upstream than the one
// element it is about to return.
func MergeOrdered[T any, K cmp.Ordered](key func(T) (K, error), sources ...Stream[T]) Stream[T] {
	h := &itemHeap[T, K]{}
	heap.Init(h)
	var seq int64
	initialized := false
	pendingSource := -1
	finished := false
	var terminalErr error

	pushFrom := func(idx int) error {
		v, err := sources[idx]()
		if err != nil {
			if err == EOS {
				return nil
			}
			return ErrSource(err)
		}
		k, err := key(v)
		if err != nil {
			return err
		}
		heap.Push(h, heapItem[T, K]{key: k, sourceIndex: idx, seq: seq, value: v})
		seq++
		return nil
	}

	return func() (T, error) {
		var zero T
		if finished {
			return zero, terminalErr
		}

		if !initialized {
			initialized = true
			for idx := range sources {
				if err := pushFrom(idx); err != nil {
					finished = true
					terminalErr = err
					return zero, terminalErr
				}
			}
		} else if pendingSource >= 0 {
			if err := pushFrom(pendingSource); err != nil {
				finished = true
				terminalErr = err
				return zero, terminalErr
			}
			pendingSource = -1
		}

		if h.Len() == 0 {
			finished = true
			terminalErr = EOS
			return zero, EOS
		}

		top := heap.Pop(h).(heapItem[T, K])
		pendingSource = top.sourceIndex
		return top.value, nil
	}
}

// MergeOrderedBy is MergeOrdered with the default identity key, for
// sources whose element type is itself totally ordered.
func MergeOrderedBy[T cmp.Ordered](sources ...Stream[T]) Stream[T] {
	return MergeOrdered(func(v T) (T, error) { return v, nil }, sources...)
}
