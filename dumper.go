package xylem

import (
	"fmt"
	"io"
	"strings"
)

type emptyTagMode int

const (
	emptyTagNames emptyTagMode = iota
	emptyTagAlways
	emptyTagNever
)

// EmptyTagPolicy decides whether a childless element is written with
// the short form (<br/>) or a paired tag (<br></br>). Elements with
// children always get a paired tag.
type EmptyTagPolicy struct {
	mode  emptyTagMode
	names map[string]struct{}
}

func EmptyAlways() EmptyTagPolicy {
	return EmptyTagPolicy{mode: emptyTagAlways}
}

func EmptyNever() EmptyTagPolicy {
	return EmptyTagPolicy{mode: emptyTagNever}
}

// EmptyNames limits the short form to the named elements.
func EmptyNames(names ...string) EmptyTagPolicy {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return EmptyTagPolicy{mode: emptyTagNames, names: set}
}

func (p EmptyTagPolicy) allows(name string) bool {
	switch p.mode {
	case emptyTagAlways:
		return true
	case emptyTagNever:
		return false
	default:
		_, ok := p.names[name]
		return ok
	}
}

// DefaultEmptyTags is the default policy: the HTML void elements.
func DefaultEmptyTags() EmptyTagPolicy {
	return EmptyNames(
		"param", "meta", "link", "isindex", "input", "img",
		"hr", "frame", "col", "br", "basefont", "base", "area",
	)
}

// Dumper serializes documents and content nodes.
type Dumper struct {
	emptyTags EmptyTagPolicy
	collapse  bool
}

func NewDumper(options ...WriteOption) *Dumper {
	d := &Dumper{emptyTags: DefaultEmptyTags()}
	for _, o := range options {
		switch o.Ident().(type) {
		case identEmptyTagPolicy:
			d.emptyTags = o.Value().(EmptyTagPolicy)
		case identCollapseWhitespace:
			d.collapse = o.Value().(bool)
		}
	}
	return d
}

// WriteDocument writes the root element of doc. The prolog and the
// trailing misc are not written; a document read back from the output
// carries the root element alone.
func (d *Dumper) WriteDocument(out io.Writer, doc *Document) error {
	if doc.Root == nil {
		return ErrEmptyDocument
	}
	return d.WriteContent(out, doc.Root)
}

func (d *Dumper) WriteContent(out io.Writer, c Content) error {
	switch c := c.(type) {
	case *Element:
		return d.writeElement(out, c)
	case *Text:
		return d.writeText(out, c.Value)
	case *CData:
		// stored verbatim, wrapper included
		_, err := io.WriteString(out, c.Value)
		return err
	case *Comment:
		if _, err := io.WriteString(out, "<!--"); err != nil {
			return err
		}
		if _, err := io.WriteString(out, c.Value); err != nil {
			return err
		}
		_, err := io.WriteString(out, "-->")
		return err
	case *PI:
		return d.writePI(out, c)
	case *EntityRef:
		return d.writeEntityRef(out, c)
	case *Foreign:
		return fmt.Errorf("cannot serialize foreign value %v", c.Value)
	default:
		return fmt.Errorf("cannot serialize content of type %T", c)
	}
}

func (d *Dumper) writeElement(out io.Writer, e *Element) error {
	if err := d.writeStartTag(out, e); err != nil {
		return err
	}
	if len(e.Children) == 0 && d.emptyTags.allows(e.Name) {
		return nil
	}
	for _, child := range e.Children {
		if err := d.WriteContent(out, child); err != nil {
			return err
		}
	}
	return d.writeEndTag(out, e)
}

func (d *Dumper) writeStartTag(out io.Writer, e *Element) error {
	if _, err := io.WriteString(out, "<"); err != nil {
		return err
	}
	if _, err := io.WriteString(out, e.Name); err != nil {
		return err
	}
	for _, attr := range e.Attributes {
		if _, err := io.WriteString(out, " "); err != nil {
			return err
		}
		if _, err := io.WriteString(out, attr.Name); err != nil {
			return err
		}
		if _, err := io.WriteString(out, `="`); err != nil {
			return err
		}
		if err := EscapeAttribute(out, attr.Value, '"'); err != nil {
			return err
		}
		if _, err := io.WriteString(out, `"`); err != nil {
			return err
		}
	}
	if len(e.Children) == 0 && d.emptyTags.allows(e.Name) {
		_, err := io.WriteString(out, "/>")
		return err
	}
	_, err := io.WriteString(out, ">")
	return err
}

func (d *Dumper) writeEndTag(out io.Writer, e *Element) error {
	if _, err := io.WriteString(out, "</"); err != nil {
		return err
	}
	if _, err := io.WriteString(out, e.Name); err != nil {
		return err
	}
	_, err := io.WriteString(out, ">")
	return err
}

func (d *Dumper) writeText(out io.Writer, s string) error {
	if d.collapse {
		s = collapseSpace(s)
	}
	return EscapeText(out, s)
}

func (d *Dumper) writePI(out io.Writer, pi *PI) error {
	if _, err := io.WriteString(out, "<?"); err != nil {
		return err
	}
	if _, err := io.WriteString(out, pi.Target); err != nil {
		return err
	}
	if pi.Instruction != "" {
		if _, err := io.WriteString(out, " "); err != nil {
			return err
		}
		if _, err := io.WriteString(out, pi.Instruction); err != nil {
			return err
		}
	}
	_, err := io.WriteString(out, "?>")
	return err
}

func (d *Dumper) writeEntityRef(out io.Writer, ref *EntityRef) error {
	if ref.Symbolic() {
		_, err := fmt.Fprintf(out, "&%s;", ref.Name)
		return err
	}
	_, err := fmt.Fprintf(out, "&#%d;", ref.Code)
	return err
}

// DisplayDocument writes the root element of doc indented, followed
// by a newline.
func (d *Dumper) DisplayDocument(out io.Writer, doc *Document) error {
	if doc.Root == nil {
		return ErrEmptyDocument
	}
	return d.DisplayContent(out, doc.Root)
}

// DisplayContent writes c indented by two spaces per nesting level,
// followed by a newline. Character data is still escaped, so the
// output parses back; only inter-element whitespace differs.
func (d *Dumper) DisplayContent(out io.Writer, c Content) error {
	return d.displayContent(out, c, 0)
}

func (d *Dumper) displayContent(out io.Writer, c Content, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := io.WriteString(out, indent); err != nil {
		return err
	}

	e, ok := c.(*Element)
	if !ok {
		if err := d.WriteContent(out, c); err != nil {
			return err
		}
		_, err := io.WriteString(out, "\n")
		return err
	}

	if err := d.writeStartTag(out, e); err != nil {
		return err
	}
	if len(e.Children) == 0 {
		if !d.emptyTags.allows(e.Name) {
			if err := d.writeEndTag(out, e); err != nil {
				return err
			}
		}
		_, err := io.WriteString(out, "\n")
		return err
	}

	if _, err := io.WriteString(out, "\n"); err != nil {
		return err
	}
	for _, child := range e.Children {
		if err := d.displayContent(out, child, depth+1); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(out, indent); err != nil {
		return err
	}
	if err := d.writeEndTag(out, e); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func collapseSpace(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if r == 0x20 || r == 0x9 || r == 0xa || r == 0xd {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte(' ')
			inSpace = false
		}
		b.WriteRune(r)
	}
	if inSpace {
		b.WriteByte(' ')
	}
	return b.String()
}
