// Package loc provides the source location and span value types that
// annotate every structural node produced by reading an XML stream.
package loc

import "fmt"

type kind int

const (
	kindUnknown kind = iota
	kindStream
	kindSynthesized
)

// Location is a position in the input stream. Line and Column are
// 1-based; Offset counts characters from the start of the stream,
// or bytes if the reader was configured for byte offsets.
//
// A Location may also be unknown (the zero value), or synthesized:
// nodes invented by tree conversion carry a provenance marker rather
// than a stream position.
type Location struct {
	Line   int
	Column int
	Offset int
	kind   kind
}

// New creates a stream location.
func New(line, column, offset int) Location {
	return Location{Line: line, Column: column, Offset: offset, kind: kindStream}
}

// Synthesized returns the location assigned to nodes that were not
// read from a stream.
func Synthesized() Location {
	return Location{kind: kindSynthesized}
}

// Unknown returns the absent location.
func Unknown() Location {
	return Location{}
}

func (l Location) Known() bool {
	return l.kind == kindStream
}

func (l Location) IsSynthesized() bool {
	return l.kind == kindSynthesized
}

// String renders the location as "line.column/offset".
func (l Location) String() string {
	switch l.kind {
	case kindStream:
		return fmt.Sprintf("%d.%d/%d", l.Line, l.Column, l.Offset)
	case kindSynthesized:
		return "(synthesized)"
	default:
		return "(unknown)"
	}
}

// Span is the start/stop location pair carried by every positioned node.
type Span struct {
	Start Location
	Stop  Location
}

// NewSpan creates a span from two stream locations.
func NewSpan(start, stop Location) Span {
	return Span{Start: start, Stop: stop}
}

// SynthesizedSpan is the span assigned to nodes created by tree
// conversion rather than by the reader.
func SynthesizedSpan() Span {
	return Span{Start: Synthesized(), Stop: Synthesized()}
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.Stop.String()
}
