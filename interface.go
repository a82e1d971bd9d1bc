package xylem

import "github.com/lestrrat-go/xylem/loc"

// Version of the xylem library
const Version = "1.0.0"

// Content is a single node in an element's ordered child list. The set
// of implementations is closed: *Text, *Element, *EntityRef, *Comment,
// *CData, *PI, and *Foreign (the last only under permissive handling).
type Content interface {
	// Span reports where in the input stream the node came from.
	// Nodes built by tree conversion carry a synthesized span.
	Span() loc.Span
	content()
}

// Misc is the subset of Content permitted outside the root element:
// comments and processing instructions.
type Misc interface {
	Content
	misc()
}

// Document is a complete XML document: prolog, exactly one root
// element, and any trailing misc after it.
type Document struct {
	Prolog   Prolog
	Root     *Element
	Trailing []Misc
}

// Prolog holds everything before the root element. Leading misc comes
// before the DOCTYPE declaration (if any), Misc between the DOCTYPE
// and the root. The XML declaration, when present, is represented as
// a leading PI with target "xml".
type Prolog struct {
	Leading []Misc
	DocType *DocType
	Misc    []Misc
}

// DocType is a syntactic capture of a <!DOCTYPE ...> declaration.
// Inline subsets are not modeled.
type DocType struct {
	span     loc.Span
	Name     string
	External *ExternalID
}

// ExternalID identifies an external DTD. An empty PublicID means the
// SYSTEM form.
type ExternalID struct {
	PublicID string
	SystemID string
}

func NewDocType(name string, external *ExternalID, span loc.Span) *DocType {
	return &DocType{span: span, Name: name, External: external}
}

func (d *DocType) Span() loc.Span {
	return d.span
}
