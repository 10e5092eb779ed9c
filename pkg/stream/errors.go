package stream

import (
	"bytes"
	"fmt"
	"text/template"
)

// Error kind codes.
const (
	ValidationFailure = 1
	SourceFailure     = 2
	CallbackFailure   = 3
)

// error templates.
var (
	splitBranchesTemplate, _   = template.New("SplitBranches").Parse("ErrSplitBranches: split requires at least 2 branches, got {{.branches}}.")
	chunkSizeTemplate, _       = template.New("ChunkSize").Parse("ErrChunkSize: chunk size must be >= 1, got {{.size}}.")
	slidingSizeTemplate, _     = template.New("SlidingWindowSize").Parse("ErrSlidingWindowSize: sliding_window size must be > 0, got {{.size}}.")
	slidingAdvanceTemplate, _  = template.New("SlidingWindowAdvance").Parse("ErrSlidingWindowAdvance: sliding_window advance must be > 0, got {{.advance}}.")
	missingKeyTemplate, _      = template.New("MissingKey").Parse("ErrMissingKey: record has no field {{.field}}.")
	sinkParallelismTemplate, _ = template.New("SinkParallelism").Parse("ErrSinkParallelism: sink parallel must be >= 1, got {{.parallel}}.")
)

// Error is the custom error type for this package. It carries a kind code
// and a template-rendered message, and wraps the underlying cause (if any)
// so errors.Is/As still work through Unwrap.
type Error struct {
	kind int
	msg  string
	err  error
}

// Kind returns the error-kind code for the error.
func (e *Error) Kind() int {
	return e.kind
}

// Error returns the rendered error message.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

func render(tmpl *template.Template, data map[string]any) string {
	var buf bytes.Buffer
	tmpl.Execute(&buf, data)
	return buf.String()
}

// ErrSplitBranches reports a Split call with fewer than 2 branches.
func ErrSplitBranches(branches int) *Error {
	return &Error{kind: ValidationFailure, msg: render(splitBranchesTemplate, map[string]any{"branches": branches})}
}

// ErrChunkSize reports a Chunk call with a non-positive size.
func ErrChunkSize(size int) *Error {
	return &Error{kind: ValidationFailure, msg: render(chunkSizeTemplate, map[string]any{"size": size})}
}

// ErrSlidingWindowSize reports a SlidingWindow call with size <= 0.
func ErrSlidingWindowSize(size int64) *Error {
	return &Error{kind: ValidationFailure, msg: render(slidingSizeTemplate, map[string]any{"size": size})}
}

// ErrSlidingWindowAdvance reports a SlidingWindow call with advance <= 0.
func ErrSlidingWindowAdvance(advance int64) *Error {
	return &Error{kind: ValidationFailure, msg: render(slidingAdvanceTemplate, map[string]any{"advance": advance})}
}

// ErrMissingKey reports a Keyed/GroupByField/FieldTimestamp lookup against an
// absent field; FieldTimestamp also returns it when the field is present but
// holds neither an int nor an int64.
func ErrMissingKey(field string) *Error {
	return &Error{kind: ValidationFailure, msg: render(missingKeyTemplate, map[string]any{"field": field})}
}

// ErrSinkParallelism reports a Sink call with parallel < 1.
func ErrSinkParallelism(parallel int) *Error {
	return &Error{kind: ValidationFailure, msg: render(sinkParallelismTemplate, map[string]any{"parallel": parallel})}
}

// ErrSource wraps an upstream failure (SourceFailure kind).
func ErrSource(cause error) *Error {
	return &Error{kind: SourceFailure, msg: "source failed while advancing", err: cause}
}

// ErrCallback wraps a user predicate/mapper/tap/sink failure (CallbackFailure kind).
func ErrCallback(cause error) *Error {
	return &Error{kind: CallbackFailure, msg: "callback failed", err: cause}
}

// errorOnce returns a Stream that yields err exactly once, then EOS. It is
// how construction-time validation failures (chunk size, sliding_window
// size/advance) surface without panicking across the library boundary —
// the stream fails on its first pull instead.
func errorOnce[T any](err error) Stream[T] {
	done := false
	return func() (T, error) {
		var zero T
		if done {
			return zero, EOS
		}
		done = true
		return zero, err
	}
}
