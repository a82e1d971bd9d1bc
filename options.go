package xylem

import "github.com/lestrrat-go/option"

type Option = option.Interface

type identByteOffsets struct{}
type identRetainComments struct{}
type identUndeclaredEntities struct{}
type identEmptyTagPolicy struct{}
type identCollapseWhitespace struct{}

// ReadOption configures a single read call. Options are snapshotted
// before parsing begins, so mutating shared option slices from other
// goroutines cannot affect a parse in flight.
type ReadOption interface {
	Option
	readOption()
}

type readOption struct{ Option }

func (*readOption) readOption() {}

// WriteOption configures a single write call.
type WriteOption interface {
	Option
	writeOption()
}

type writeOption struct{ Option }

func (*writeOption) writeOption() {}

// WithByteOffsets makes reported locations count bytes instead of
// characters in their Offset field.
func WithByteOffsets(v bool) ReadOption {
	return &readOption{option.New(identByteOffsets{}, v)}
}

// WithRetainComments controls whether comments survive reading.
// The default is true.
func WithRetainComments(v bool) ReadOption {
	return &readOption{option.New(identRetainComments{}, v)}
}

// WithUndeclaredEntities allows symbolic entity references beyond the
// five predefined names to pass through as EntityRef nodes instead of
// failing the read.
func WithUndeclaredEntities(v bool) ReadOption {
	return &readOption{option.New(identUndeclaredEntities{}, v)}
}

// WithEmptyTagPolicy selects how childless elements are rendered.
func WithEmptyTagPolicy(v EmptyTagPolicy) WriteOption {
	return &writeOption{option.New(identEmptyTagPolicy{}, v)}
}

// WithCollapseWhitespace makes the writer collapse consecutive
// whitespace in text runs into single spaces. CDATA sections are
// never touched.
func WithCollapseWhitespace(v bool) WriteOption {
	return &writeOption{option.New(identCollapseWhitespace{}, v)}
}
