package xylem

import "github.com/lestrrat-go/xylem/loc"

// EntityRef is a character or entity reference kept as a node rather
// than expanded: either a symbolic name (&amp;) or a numeric codepoint
// (&#38; / &#x26;). Exactly one of Name/Code is meaningful; a
// reference is numeric when Name is empty.
type EntityRef struct {
	span loc.Span
	Name string
	Code rune
}

func NewEntityRef(name string, span loc.Span) *EntityRef {
	return &EntityRef{span: span, Name: name}
}

func NewCharRef(code rune, span loc.Span) *EntityRef {
	return &EntityRef{span: span, Code: code}
}

func (e *EntityRef) Span() loc.Span {
	return e.span
}

func (e *EntityRef) content() {}

func (e *EntityRef) Symbolic() bool {
	return e.Name != ""
}

// predefined maps the five XML 1.0 predefined entities to their
// replacement text.
var predefined = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"apos": "'",
	"quot": `"`,
}

// ResolvePredefinedEntity returns the replacement text for one of the
// five predefined entity names.
func ResolvePredefinedEntity(name string) (string, bool) {
	s, ok := predefined[name]
	return s, ok
}

// IsChar reports whether r is a valid XML character reference target:
// [0x1,0xD7FF], [0xE000,0xFFFD] or [0x10000,0x10FFFF].
func IsChar(r rune) bool {
	return (r >= 0x1 && r <= 0xd7ff) ||
		(r >= 0xe000 && r <= 0xfffd) ||
		(r >= 0x10000 && r <= 0x10ffff)
}
