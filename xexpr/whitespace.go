package xexpr

import "fmt"

// FilterMode selects which elements FilterWhitespace strips.
type FilterMode int

const (
	// FilterMatching strips whitespace inside elements the predicate
	// matches.
	FilterMatching FilterMode = iota
	// FilterNotMatching strips whitespace inside elements the
	// predicate does not match.
	FilterNotMatching
	// FilterAll strips whitespace inside every element; the
	// predicate is ignored.
	FilterAll
)

// FilterWhitespace returns a copy of v with whitespace-only text
// children removed from the selected elements. A selected element
// with a text child that is not all whitespace is an error: stripping
// it would lose data, and keeping it would make the result depend on
// the element.
func FilterWhitespace(v Value, pred func(name string) bool, mode FilterMode) (Value, error) {
	e, ok := v.(*Element)
	if !ok {
		return v, nil
	}

	strip := mode == FilterAll
	if !strip && pred != nil {
		match := pred(e.Name)
		if mode == FilterMatching {
			strip = match
		} else {
			strip = !match
		}
	}

	var children []Value
	for _, c := range e.Children {
		if t, ok := c.(Text); ok && strip {
			if !isWhitespace(string(t)) {
				return nil, fmt.Errorf("non-whitespace text %q inside element '%s'", string(t), e.Name)
			}
			continue
		}
		fc, err := FilterWhitespace(c, pred, mode)
		if err != nil {
			return nil, err
		}
		children = append(children, fc)
	}

	return &Element{Name: e.Name, Attrs: e.Attrs, Children: children}, nil
}

func isWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case 0x20, 0x9, 0xa, 0xd:
		default:
			return false
		}
	}
	return true
}
