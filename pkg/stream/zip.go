package stream

// Zip advances every source once per emission, in source order. The first
// source to exhaust terminates the merged stream; elements already pulled
// from earlier sources in that final round are discarded (never emitted),
// and later sources are not pulled in that round.
func Zip[T any](sources ...Stream[T]) Stream[[]T] {
	return func() ([]T, error) {
		round := make([]T, 0, len(sources))
		for _, src := range sources {
			v, err := src()
			if err != nil {
				if err == EOS {
					return nil, EOS
				}
				return nil, ErrSource(err)
			}
			round = append(round, v)
		}
		return round, nil
	}
}

// ZipLongest advances only sources not yet exhausted each round; exhausted
// positions receive fill. It terminates once every source is exhausted.
func ZipLongest[T any](fill T, sources ...Stream[T]) Stream[[]T] {
	finished := make([]bool, len(sources))
	return func() ([]T, error) {
		round := make([]T, len(sources))
		allFinished := true
		for i, src := range sources {
			if finished[i] {
				round[i] = fill
				continue
			}
			v, err := src()
			if err != nil {
				if err != EOS {
					return nil, ErrSource(err)
				}
				finished[i] = true
				round[i] = fill
				continue
			}
			round[i] = v
			allFinished = false
		}
		if allFinished {
			return nil, EOS
		}
		return round, nil
	}
}
