package xexpr

import (
	"fmt"

	"github.com/lestrrat-go/xylem"
	"github.com/lestrrat-go/xylem/loc"
)

type convertCtx struct {
	foreignValues     bool
	explicitAttrLists bool
}

func (cc *convertCtx) init(options []ConvertOption) {
	for _, o := range options {
		switch o.Ident().(type) {
		case identForeignValues:
			cc.foreignValues = o.Value().(bool)
		case identExplicitAttrLists:
			cc.explicitAttrLists = o.Value().(bool)
		}
	}
}

// FromDocument converts the root element of doc. The prolog and any
// trailing misc are not part of the result.
func FromDocument(doc *xylem.Document, options ...ConvertOption) (*Element, error) {
	if doc.Root == nil {
		return nil, xylem.ErrEmptyDocument
	}
	v, err := FromContent(doc.Root, options...)
	if err != nil {
		return nil, err
	}
	return v.(*Element), nil
}

// FromContent converts a single content node.
func FromContent(c xylem.Content, options ...ConvertOption) (Value, error) {
	var cc convertCtx
	cc.init(options)
	return cc.fromContent(c)
}

func (cc *convertCtx) fromContent(c xylem.Content) (Value, error) {
	switch c := c.(type) {
	case *xylem.Element:
		return cc.fromElement(c)
	case *xylem.Text:
		return Text(c.Value), nil
	case *xylem.CData:
		return CData(c.Value), nil
	case *xylem.Comment:
		return Comment(c.Value), nil
	case *xylem.PI:
		return &PI{Target: c.Target, Instruction: c.Instruction}, nil
	case *xylem.EntityRef:
		if c.Symbolic() {
			return EntityRef(c.Name), nil
		}
		return CharRef(c.Code), nil
	case *xylem.Foreign:
		if !cc.foreignValues {
			return nil, fmt.Errorf("cannot convert foreign value %v", c.Value)
		}
		return Foreign{Value: c.Value}, nil
	default:
		return nil, fmt.Errorf("cannot convert content of type %T", c)
	}
}

func (cc *convertCtx) fromElement(e *xylem.Element) (Value, error) {
	var attrs []Attr
	if len(e.Attributes) > 0 || cc.explicitAttrLists {
		attrs = make([]Attr, 0, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs = append(attrs, Attr{Name: a.Name, Value: a.Value})
		}
	}

	var children []Value
	for _, c := range e.Children {
		v, err := cc.fromContent(c)
		if err != nil {
			return nil, err
		}
		children = append(children, v)
	}

	return &Element{Name: e.Name, Attrs: attrs, Children: children}, nil
}

// ToDocument wraps the converted element in a document with an empty
// prolog.
func ToDocument(e *Element) *xylem.Document {
	root, _ := ToContent(e).(*xylem.Element)
	return xylem.NewDocument(root)
}

// ToContent converts v to a content node. All resulting nodes carry
// synthesized locations. The conversion is total: Foreign values
// become foreign content nodes, which the writer rejects; run
// Validate first if that matters.
func ToContent(v Value) xylem.Content {
	span := loc.SynthesizedSpan()
	switch v := v.(type) {
	case *Element:
		var attrs []xylem.Attribute
		for _, a := range v.Attrs {
			attrs = append(attrs, xylem.NewAttribute(a.Name, a.Value, span))
		}
		var children []xylem.Content
		for _, c := range v.Children {
			children = append(children, ToContent(c))
		}
		return xylem.NewElement(v.Name, attrs, children, span)
	case Text:
		return xylem.NewText(string(v), span)
	case CharRef:
		return xylem.NewCharRef(rune(v), span)
	case EntityRef:
		return xylem.NewEntityRef(string(v), span)
	case CData:
		return xylem.NewCData(string(v), span)
	case Comment:
		return xylem.NewComment(string(v), span)
	case *PI:
		return xylem.NewPI(v.Target, v.Instruction, span)
	case Foreign:
		return xylem.NewForeign(v.Value, span)
	default:
		return xylem.NewForeign(v, span)
	}
}
