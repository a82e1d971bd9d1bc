// Package sax defines the event handler interface driven by the xylem
// reader. The default handler assembles a document tree, but callers
// may register their own to observe the token stream directly.
package sax

import "github.com/lestrrat-go/xylem/loc"

// Context is an opaque user value, registered to the reader and handed
// back on every event.
type Context interface{}

type ParsedAttribute interface {
	Name() string
	Value() string
	Span() loc.Span
}

// ParsedElement is the start-tag payload. Span covers the start tag
// only; the matching EndElement event carries the closing position.
type ParsedElement interface {
	Name() string
	Attributes() []ParsedAttribute
	Span() loc.Span
}

// Handler receives reader events in document order. Any non-nil error
// aborts the parse and is reported to the caller.
type Handler interface {
	StartDocument(Context) error
	EndDocument(Context) error
	DocumentType(ctx Context, name, publicID, systemID string, span loc.Span) error
	ProcessingInstruction(ctx Context, target, data string, span loc.Span) error
	Comment(ctx Context, data string, span loc.Span) error
	StartElement(Context, ParsedElement) error
	EndElement(ctx Context, name string, stop loc.Location) error
	Characters(ctx Context, data string, span loc.Span) error
	// CDATABlock receives the section verbatim, wrapper included.
	CDATABlock(ctx Context, data string, span loc.Span) error
	EntityRef(ctx Context, name string, span loc.Span) error
	CharRef(ctx Context, code rune, span loc.Span) error
}
