package xylem

import (
	"errors"

	"github.com/lestrrat-go/pdebug"
	"github.com/lestrrat-go/xylem/loc"
	"github.com/lestrrat-go/xylem/sax"
)

type treePhase int

const (
	phaseLeading treePhase = iota
	phaseProlog
	phaseEpilogue
)

// TreeBuilder is the default SAX handler. It assembles the events
// back into a Document.
type TreeBuilder struct {
	doc   *Document
	stack []*Element
	phase treePhase
}

var _ sax.Handler = (*TreeBuilder)(nil)

func (t *TreeBuilder) Document() *Document {
	return t.doc
}

func (t *TreeBuilder) top() *Element {
	if n := len(t.stack); n > 0 {
		return t.stack[n-1]
	}
	return nil
}

func (t *TreeBuilder) appendMisc(m Misc) {
	switch t.phase {
	case phaseLeading:
		t.doc.Prolog.Leading = append(t.doc.Prolog.Leading, m)
	case phaseProlog:
		t.doc.Prolog.Misc = append(t.doc.Prolog.Misc, m)
	case phaseEpilogue:
		t.doc.Trailing = append(t.doc.Trailing, m)
	}
}

func (t *TreeBuilder) StartDocument(ctx sax.Context) error {
	if pdebug.Enabled {
		pdebug.Printf("tree: StartDocument")
	}
	t.doc = &Document{}
	t.stack = t.stack[:0]
	t.phase = phaseLeading
	return nil
}

func (t *TreeBuilder) EndDocument(ctx sax.Context) error {
	if pdebug.Enabled {
		pdebug.Printf("tree: EndDocument")
	}
	if pctx, ok := ctx.(*parserCtx); ok {
		pctx.doc = t.doc
	}
	return nil
}

func (t *TreeBuilder) DocumentType(_ sax.Context, name, publicID, systemID string, span loc.Span) error {
	var ext *ExternalID
	if publicID != "" || systemID != "" {
		ext = &ExternalID{PublicID: publicID, SystemID: systemID}
	}
	t.doc.Prolog.DocType = NewDocType(name, ext, span)
	t.phase = phaseProlog
	return nil
}

func (t *TreeBuilder) ProcessingInstruction(_ sax.Context, target, data string, span loc.Span) error {
	pi := NewPI(target, data, span)
	if e := t.top(); e != nil {
		e.Children = append(e.Children, pi)
		return nil
	}
	t.appendMisc(pi)
	return nil
}

func (t *TreeBuilder) Comment(_ sax.Context, data string, span loc.Span) error {
	c := NewComment(data, span)
	if e := t.top(); e != nil {
		e.Children = append(e.Children, c)
		return nil
	}
	t.appendMisc(c)
	return nil
}

func (t *TreeBuilder) StartElement(_ sax.Context, pe sax.ParsedElement) error {
	if pdebug.Enabled {
		pdebug.Printf("tree: StartElement %s", pe.Name())
	}

	var attrs []Attribute
	if pattrs := pe.Attributes(); len(pattrs) > 0 {
		attrs = make([]Attribute, 0, len(pattrs))
		for _, pa := range pattrs {
			attrs = append(attrs, NewAttribute(pa.Name(), pa.Value(), pa.Span()))
		}
	}

	e := NewElement(pe.Name(), attrs, nil, pe.Span())
	if parent := t.top(); parent != nil {
		parent.Children = append(parent.Children, e)
	} else {
		if t.doc.Root != nil {
			return errors.New("tree: second root element")
		}
		t.doc.Root = e
	}
	t.stack = append(t.stack, e)
	return nil
}

func (t *TreeBuilder) EndElement(_ sax.Context, name string, stop loc.Location) error {
	if pdebug.Enabled {
		pdebug.Printf("tree: EndElement %s", name)
	}

	e := t.top()
	if e == nil {
		return errors.New("tree: end of element without a start")
	}
	e.span.Stop = stop
	t.stack = t.stack[:len(t.stack)-1]
	if len(t.stack) == 0 {
		t.phase = phaseEpilogue
	}
	return nil
}

func (t *TreeBuilder) Characters(_ sax.Context, data string, span loc.Span) error {
	e := t.top()
	if e == nil {
		return errors.New("tree: text content outside the root element")
	}
	e.Children = append(e.Children, NewText(data, span))
	return nil
}

func (t *TreeBuilder) CDATABlock(_ sax.Context, data string, span loc.Span) error {
	e := t.top()
	if e == nil {
		return errors.New("tree: CDATA outside the root element")
	}
	e.Children = append(e.Children, NewCData(data, span))
	return nil
}

func (t *TreeBuilder) EntityRef(_ sax.Context, name string, span loc.Span) error {
	e := t.top()
	if e == nil {
		return errors.New("tree: entity reference outside the root element")
	}
	e.Children = append(e.Children, NewEntityRef(name, span))
	return nil
}

func (t *TreeBuilder) CharRef(_ sax.Context, code rune, span loc.Span) error {
	e := t.top()
	if e == nil {
		return errors.New("tree: character reference outside the root element")
	}
	e.Children = append(e.Children, NewCharRef(code, span))
	return nil
}
