package xylem

import "github.com/lestrrat-go/xylem/loc"

// Foreign carries an opaque application value embedded in content.
// Foreign nodes never come from the reader; they enter through tree
// conversion, and only when permissive handling is enabled.
type Foreign struct {
	span  loc.Span
	Value interface{}
}

func NewForeign(value interface{}, span loc.Span) *Foreign {
	return &Foreign{span: span, Value: value}
}

func (f *Foreign) Span() loc.Span {
	return f.span
}

func (f *Foreign) content() {}
