package stream

import (
	"errors"
	"sort"
	"sync"
	"testing"
)

func TestToListDrainsInOrder(t *testing.T) {
	got, err := ToList(FromSlice([]int{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestToListPropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	s := Stream[int](func() (int, error) { return 0, boom })
	_, err := ToList(s)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom to propagate, got %v", err)
	}
}

func TestSinkInvokesEveryElementAcrossBatches(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	err := Sink(2, func(n int) error {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
		return nil
	}, FromSlice([]int{1, 2, 3, 4, 5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sort.Ints(seen)
	if !equalInts(seen, []int{1, 2, 3, 4, 5}) {
		t.Errorf("got %v, want all 5 elements visited", seen)
	}
}

func TestSinkRejectsNonPositiveParallelism(t *testing.T) {
	err := Sink(0, func(int) error { return nil }, FromSlice([]int{1}))
	var ve *Error
	if !errors.As(err, &ve) || ve.Kind() != ValidationFailure {
		t.Errorf("expected ValidationFailure, got %v", err)
	}
}

func TestSinkPropagatesCallbackFailure(t *testing.T) {
	boom := errors.New("boom")
	err := Sink(2, func(n int) error {
		if n == 2 {
			return boom
		}
		return nil
	}, FromSlice([]int{1, 2, 3}))

	var ce *Error
	if !errors.As(err, &ce) || ce.Kind() != CallbackFailure {
		t.Errorf("expected CallbackFailure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected error chain to contain boom, got %v", err)
	}
}

func TestSinkAsyncResolvesDeferredCallbacks(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	err := SinkAsync(2, func(n int) Deferred[any] {
		return func() (any, error) {
			mu.Lock()
			seen = append(seen, n*2)
			mu.Unlock()
			return nil, nil
		}
	}, FromSlice([]int{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sort.Ints(seen)
	if !equalInts(seen, []int{2, 4, 6}) {
		t.Errorf("got %v, want [2 4 6]", seen)
	}
}
