package stream

import (
	"errors"
	"testing"
)

func TestMapFilterFlatten(t *testing.T) {
	t.Run("flatten then map then filter", func(t *testing.T) {
		source := FromSlice([][]int{{1, 2}, {3}, {4, 5}})
		pipeline := Pipe(
			Map(func(x int) int { return x * 2 }),
			Where(func(x int) bool { return x > 4 }),
		)
		s := pipeline(Flatten(source))

		got, err := ToList(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int{6, 8, 10}
		if !equalInts(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestSkipTakeTap(t *testing.T) {
	var recorded []int
	source := FromSlice([]int{1, 2, 3, 4, 5})
	pipeline := Chain(
		Tap(func(x int) { recorded = append(recorded, x) }),
		Skip[int](1),
		Take[int](3),
	)
	s := pipeline(source)

	got, err := ToList(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 3, 4}
	if !equalInts(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !equalInts(recorded, []int{1, 2, 3, 4}) {
		t.Errorf("recorded %v, want [1 2 3 4]", recorded)
	}
}

func TestEnumerate(t *testing.T) {
	s := Enumerate[string](0)(FromSlice([]string{"a", "b", "c"}))
	got, err := ToList(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Index != 0 || got[2].Index != 2 || got[2].Value != "c" {
		t.Errorf("unexpected enumeration: %+v", got)
	}
}

func TestTakeDoesNotOverPull(t *testing.T) {
	pulls := 0
	src := Stream[int](func() (int, error) {
		pulls++
		return pulls, nil
	})
	s := Take[int](3)(src)
	if _, err := ToList(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pulls != 3 {
		t.Errorf("expected exactly 3 pulls, got %d", pulls)
	}
}

func TestKeyedMissingField(t *testing.T) {
	s := Keyed("id")(FromSlice([]Record{R("id", 1)}))
	if _, err := s(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2 := Keyed("id")(FromSlice([]Record{R("name", "a")}))
	_, err := s2()
	var ve *Error
	if !errors.As(err, &ve) || ve.Kind() != ValidationFailure {
		t.Errorf("expected ValidationFailure, got %v", err)
	}
}

func TestPipe3ComposesThreeFilters(t *testing.T) {
	var tapped []int
	pipeline := Pipe3(
		Map(func(x int) int { return x + 1 }),
		Where(func(x int) bool { return x%2 == 0 }),
		Tap(func(x int) { tapped = append(tapped, x) }),
	)
	s := pipeline(FromSlice([]int{1, 2, 3, 4, 5}))

	got, err := ToList(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 4, 6}
	if !equalInts(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !equalInts(tapped, want) {
		t.Errorf("tapped %v, want %v", tapped, want)
	}
}

func TestFlatMap(t *testing.T) {
	s := FlatMap(func(x int) Stream[int] {
		return FromSlice([]int{x, x * 10})
	})(FromSlice([]int{1, 2}))

	got, err := ToList(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 10, 2, 20}
	if !equalInts(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMapAsyncPropagatesCallbackFailure(t *testing.T) {
	boom := errors.New("boom")
	s := MapAsync(func(x int) Deferred[int] {
		return func() (int, error) { return 0, boom }
	})(FromSlice([]int{1}))

	_, err := s()
	var ce *Error
	if !errors.As(err, &ce) || ce.Kind() != CallbackFailure {
		t.Errorf("expected CallbackFailure, got %v", err)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
