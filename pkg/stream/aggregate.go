package stream

// ============================================================================
// AGGREGATION: chunk, window, sliding_window
// ============================================================================

// Chunk accumulates up to size elements into a batch. When a new element
// arrives and the current batch already holds size elements, the current
// batch is emitted (a snapshot copy) and a fresh batch starts with the new
// element; on upstream exhaustion a remaining non-empty batch is emitted.
// size must be >= 1 — a smaller size surfaces as a ValidationFailure on
// the stream's first pull (errorOnce), not a panic.
func Chunk[T any](size int, input Stream[T]) AggregatedStream[T] {
	if size < 1 {
		return errorOnce[Batch[T]](ErrChunkSize(size))
	}

	var buf []T
	exhausted := false

	return func() (Batch[T], error) {
		if exhausted {
			return nil, EOS
		}
		for {
			item, err := input()
			if err != nil {
				exhausted = true
				if err == EOS {
					if len(buf) > 0 {
						out := make(Batch[T], len(buf))
						copy(out, buf)
						buf = nil
						return out, nil
					}
					return nil, EOS
				}
				return nil, ErrSource(err)
			}

			if len(buf) < size {
				buf = append(buf, item)
				continue
			}
			out := make(Batch[T], len(buf))
			copy(out, buf)
			buf = []T{item}
			return out, nil
		}
	}
}

// windowConfig holds Window/SlidingWindow's functional-options state for
// this package's purely-sequential (non-watermarked) windowing.
type windowConfig[T any] struct {
	extractor      TimestampExtractor[T]
	includePartial bool
}

// WindowOption configures Window/SlidingWindow.
type WindowOption[T any] func(*windowConfig[T])

// WithTimestampExtractor overrides the default "timestamp" field extractor.
func WithTimestampExtractor[T any](fn TimestampExtractor[T]) WindowOption[T] {
	return func(c *windowConfig[T]) { c.extractor = fn }
}

// WithIncludePartial controls whether a trailing partial window/batch is
// emitted on upstream exhaustion. Defaults to true.
func WithIncludePartial[T any](include bool) WindowOption[T] {
	return func(c *windowConfig[T]) { c.includePartial = include }
}

func newWindowConfig(opts []WindowOption[Record]) windowConfig[Record] {
	cfg := windowConfig[Record]{extractor: DefaultTimestamp(), includePartial: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Window is a tumbling, timestamp-based batcher over Stream[Record]. It opens a
// window at the first element's timestamp t0; elements with timestamp
// <= t0+interval join the current batch; the first element past that
// bound flushes the batch (if non-empty) and opens a new window at its
// own timestamp.
func Window(interval int64, input Stream[Record], opts ...WindowOption[Record]) AggregatedStream[Record] {
	cfg := newWindowConfig(opts)

	var buf []Record
	var windowStart int64
	started := false
	exhausted := false

	return func() (Batch[Record], error) {
		if exhausted {
			return nil, EOS
		}
		for {
			item, err := input()
			if err != nil {
				exhausted = true
				if err == EOS {
					if cfg.includePartial && len(buf) > 0 {
						out := make(Batch[Record], len(buf))
						copy(out, buf)
						buf = nil
						return out, nil
					}
					return nil, EOS
				}
				return nil, ErrSource(err)
			}

			ts, err := cfg.extractor(item)
			if err != nil {
				exhausted = true
				return nil, err
			}

			if !started {
				started = true
				windowStart = ts
				buf = append(buf, item)
				continue
			}
			if windowStart+interval >= ts {
				buf = append(buf, item)
				continue
			}
			out := make(Batch[Record], len(buf))
			copy(out, buf)
			buf = []Record{item}
			windowStart = ts
			return out, nil
		}
	}
}

type openWindow struct {
	start int64
	items []Record
}

// SlidingWindow produces overlapping batches of fixed timestamp length
// size, stepped by advance, over Stream[Record]. size and advance must
// both be > 0 — violations surface as a ValidationFailure on first pull.
//
// Algorithm: on each element, create any new windows needed to catch up
// to its timestamp, stepping by advance rather than jumping directly to
// the target start — a direct-jump optimization would need to prove it
// always emits identical windows, so this takes the literal,
// trivially-verifiable form. Then close and emit every open window whose
// length has reached size. A single input element can close more than
// one window, so closed batches are queued and drained before the next
// upstream pull, since one call can only return one batch.
func SlidingWindow(size, advance int64, input Stream[Record], opts ...WindowOption[Record]) AggregatedStream[Record] {
	if size <= 0 {
		return errorOnce[Batch[Record]](ErrSlidingWindowSize(size))
	}
	if advance <= 0 {
		return errorOnce[Batch[Record]](ErrSlidingWindowAdvance(advance))
	}
	cfg := newWindowConfig(opts)

	var windows []*openWindow
	var lastStart *int64
	var pending []Batch[Record]
	exhausted := false

	flushRemaining := func() {
		if cfg.includePartial {
			for _, w := range windows {
				if len(w.items) > 0 {
					b := make(Batch[Record], len(w.items))
					copy(b, w.items)
					pending = append(pending, b)
				}
			}
		}
		windows = nil
	}

	return func() (Batch[Record], error) {
		for {
			if len(pending) > 0 {
				out := pending[0]
				pending = pending[1:]
				return out, nil
			}
			if exhausted {
				return nil, EOS
			}

			item, err := input()
			if err != nil {
				exhausted = true
				if err == EOS {
					flushRemaining()
					continue
				}
				return nil, ErrSource(err)
			}
			if item == nil {
				continue
			}

			ts, err := cfg.extractor(item)
			if err != nil {
				exhausted = true
				return nil, err
			}

			if lastStart == nil {
				start := ts
				lastStart = &start
				windows = append(windows, &openWindow{start: ts})
			} else {
				for ts-*lastStart >= advance {
					*lastStart += advance
					windows = append(windows, &openWindow{start: *lastStart})
				}
			}

			kept := windows[:0]
			for _, w := range windows {
				if ts-w.start >= size {
					if len(w.items) > 0 {
						b := make(Batch[Record], len(w.items))
						copy(b, w.items)
						pending = append(pending, b)
					}
					continue
				}
				w.items = append(w.items, item)
				kept = append(kept, w)
			}
			windows = kept
		}
	}
}
