package plist

import (
	"io"
	"strconv"
	"strings"

	"github.com/lestrrat-go/xylem"
)

// Read parses a property list document from in. Both the modern form
// with a <plist> wrapper element and the legacy bare form are
// accepted.
func Read(in io.Reader, options ...xylem.ReadOption) (Value, error) {
	doc, err := xylem.ReadDocument(in, options...)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// FromDocument interprets an already parsed document as a property
// list.
func FromDocument(doc *xylem.Document) (Value, error) {
	root := doc.Root
	if root == nil {
		return nil, malformedf("document has no root element")
	}
	if root.Name != "plist" {
		// legacy form: the value element is the root
		return fromElement(root)
	}

	elems, err := elementChildren(root)
	if err != nil {
		return nil, err
	}
	if len(elems) != 1 {
		return nil, malformedf("plist element must hold exactly one value, got %d", len(elems))
	}
	return fromElement(elems[0])
}

// elementChildren collects the element children, rejecting any
// non-whitespace text in between.
func elementChildren(e *xylem.Element) ([]*xylem.Element, error) {
	var elems []*xylem.Element
	for _, c := range e.Children {
		switch c := c.(type) {
		case *xylem.Element:
			elems = append(elems, c)
		case *xylem.Text:
			if !c.IsWhitespace() {
				return nil, malformedf("unexpected text %q inside <%s>", c.Value, e.Name)
			}
		case *xylem.Comment:
			// ignored
		default:
			return nil, malformedf("unexpected content inside <%s>", e.Name)
		}
	}
	return elems, nil
}

// textContent flattens the children of a value element to a string,
// resolving entity and character references.
func textContent(e *xylem.Element) (string, error) {
	var sb strings.Builder
	for _, c := range e.Children {
		switch c := c.(type) {
		case *xylem.Text:
			sb.WriteString(c.Value)
		case *xylem.CData:
			sb.WriteString(c.Text())
		case *xylem.EntityRef:
			if c.Symbolic() {
				s, ok := xylem.ResolvePredefinedEntity(c.Name)
				if !ok {
					return "", malformedf("unknown entity '%s' inside <%s>", c.Name, e.Name)
				}
				sb.WriteString(s)
			} else {
				sb.WriteRune(c.Code)
			}
		case *xylem.Comment:
			// ignored
		default:
			return "", malformedf("unexpected markup inside <%s>", e.Name)
		}
	}
	return sb.String(), nil
}

func fromElement(e *xylem.Element) (Value, error) {
	switch e.Name {
	case "string":
		s, err := textContent(e)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "integer":
		s, err := textContent(e)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, malformedf("invalid integer %q", s)
		}
		return Integer(n), nil
	case "real":
		s, err := textContent(e)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, malformedf("invalid real %q", s)
		}
		return Real(f), nil
	case "data":
		s, err := textContent(e)
		if err != nil {
			return nil, err
		}
		return Data(s), nil
	case "date":
		s, err := textContent(e)
		if err != nil {
			return nil, err
		}
		return Date(s), nil
	case "dict":
		return fromDict(e)
	case "array":
		return fromArray(e)
	default:
		return nil, malformedf("unknown value element <%s>", e.Name)
	}
}

func fromDict(e *xylem.Element) (Value, error) {
	elems, err := elementChildren(e)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, malformedf("dict has a key without a value")
	}

	d := NewDict()
	for i := 0; i < len(elems); i += 2 {
		ke, ve := elems[i], elems[i+1]
		if ke.Name != "key" {
			return nil, malformedf("expected <key>, got <%s>", ke.Name)
		}
		if ve.Name == "key" {
			return nil, malformedf("expected a value after key, got another <key>")
		}
		key, err := textContent(ke)
		if err != nil {
			return nil, err
		}
		v, err := fromElement(ve)
		if err != nil {
			return nil, err
		}
		d.Add(key, v)
	}
	return d, nil
}

func fromArray(e *xylem.Element) (Value, error) {
	elems, err := elementChildren(e)
	if err != nil {
		return nil, err
	}

	arr := make(Array, 0, len(elems))
	for _, ce := range elems {
		v, err := fromElement(ce)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}
