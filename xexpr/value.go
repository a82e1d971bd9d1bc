// Package xexpr provides a lightweight tree representation of XML
// content. Values are plain Go data with no source locations
// attached, convenient to construct in code and convert to and from
// the structural document model.
package xexpr

// Value is the type of all tree values: Text, CharRef, EntityRef,
// CData, Comment, *PI, Foreign and *Element.
type Value interface {
	value()
}

// Text is character data.
type Text string

func (Text) value() {}

// CharRef is a numeric character reference.
type CharRef rune

func (CharRef) value() {}

// EntityRef is a symbolic entity reference.
type EntityRef string

func (EntityRef) value() {}

// CData is a CDATA section, wrapper included.
type CData string

func (CData) value() {}

// Comment is a comment body, without the surrounding markers.
type Comment string

func (Comment) value() {}

// PI is a processing instruction.
type PI struct {
	Target      string
	Instruction string
}

func (*PI) value() {}

// Foreign carries an arbitrary application value. Foreign values are
// rejected by Validate unless explicitly permitted, and cannot be
// serialized.
type Foreign struct {
	Value interface{}
}

func (Foreign) value() {}

// Attr is a single attribute of an Element.
type Attr struct {
	Name  string
	Value string
}

// Element is an element node. A nil Attrs is the shorthand form with
// the attribute list omitted; a non-nil empty slice is an explicit
// empty list. The two forms compare unequal but serialize the same.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Value
}

func (*Element) value() {}

// New constructs an element in the shorthand form (no attribute
// list).
func New(name string, children ...Value) *Element {
	return &Element{Name: name, Children: children}
}

// Attr returns the value of the first attribute with the given name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
