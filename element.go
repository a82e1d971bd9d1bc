package xylem

import (
	"strings"

	"github.com/lestrrat-go/xylem/loc"
)

// Element is a named node with ordered attributes and children.
// Attribute names are not required to be unique; lookups return the
// first match.
type Element struct {
	span       loc.Span
	Name       string
	Attributes []Attribute
	Children   []Content
}

// Attribute is a name/value pair on an element.
type Attribute struct {
	span  loc.Span
	Name  string
	Value string
}

func NewElement(name string, attrs []Attribute, children []Content, span loc.Span) *Element {
	return &Element{span: span, Name: name, Attributes: attrs, Children: children}
}

func NewAttribute(name, value string, span loc.Span) Attribute {
	return Attribute{span: span, Name: name, Value: value}
}

func (e *Element) Span() loc.Span {
	return e.span
}

func (e *Element) content() {}

// Attr returns the value of the first attribute with the given name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (a Attribute) Span() loc.Span {
	return a.span
}

// XMLString serializes the element in compact form.
func (e *Element) XMLString(options ...WriteOption) (string, error) {
	var sb strings.Builder
	dump := NewDumper(options...)
	if err := dump.WriteContent(&sb, e); err != nil {
		return "", err
	}
	return sb.String(), nil
}
