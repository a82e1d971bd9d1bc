package xylem

import "github.com/lestrrat-go/xylem/loc"

// Text is a run of parsed character data.
type Text struct {
	span  loc.Span
	Value string
}

func NewText(value string, span loc.Span) *Text {
	return &Text{span: span, Value: value}
}

func (t *Text) Span() loc.Span {
	return t.span
}

func (t *Text) content() {}

// IsWhitespace reports whether the run consists entirely of XML
// whitespace characters.
func (t *Text) IsWhitespace() bool {
	for _, c := range t.Value {
		if c != 0x20 && c != 0x9 && c != 0xa && c != 0xd {
			return false
		}
	}
	return true
}
