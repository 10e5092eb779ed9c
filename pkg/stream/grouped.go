package stream

// GroupedBatch is one group_by emission: the group key-to-elements mapping,
// plus the first-seen order of keys, since a plain Go map has no
// iteration order to rely on.
type GroupedBatch[K comparable, T any] struct {
	Keys   []K
	Groups map[K]Batch[T]
}

// Get returns the batch for key k, if present.
func (g GroupedBatch[K, T]) Get(k K) (Batch[T], bool) {
	v, ok := g.Groups[k]
	return v, ok
}

// GroupBy constructs, for each incoming batch, a mapping from group key to
// the ordered list of batch elements sharing that key, preserving
// first-seen order of keys and in-batch order of elements; it emits the
// mapping as one element.
//
// There is deliberately no camelCase "groupBy" alias: in Go, case carries
// export meaning, so a second name differing only in case isn't a
// meaningful convenience the way it might be in a dynamically-typed
// language. GroupBy is the one exported name, and GroupByField below is
// the convenience wrapper for the common Record+field-name case.
func GroupBy[T any, K comparable](keyFn func(T) (K, error), input AggregatedStream[T]) Stream[GroupedBatch[K, T]] {
	return func() (GroupedBatch[K, T], error) {
		batch, err := input()
		if err != nil {
			return GroupedBatch[K, T]{}, err
		}

		groups := make(map[K]Batch[T])
		var order []K
		seen := make(map[K]bool)

		for _, item := range batch {
			k, err := keyFn(item)
			if err != nil {
				return GroupedBatch[K, T]{}, err
			}
			groups[k] = append(groups[k], item)
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}

		return GroupedBatch[K, T]{Keys: order, Groups: groups}, nil
	}
}

// GroupByField is GroupBy specialized to Record batches keyed by a named
// field, the common case of grouping by a single column value.
func GroupByField(field string, input AggregatedStream[Record]) Stream[GroupedBatch[any, Record]] {
	return GroupBy(func(r Record) (any, error) {
		v, ok := r[field]
		if !ok {
			return nil, ErrMissingKey(field)
		}
		return v, nil
	}, input)
}
