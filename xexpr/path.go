package xexpr

import (
	"iter"
	"strings"
)

// QueryAll matches elements against path and lazily yields their
// contents in document order.
//
// The last path component names the element itself; the components
// before it must appear, in order, among the element's ancestors
// (gaps are allowed). An empty path matches the root. For each
// matched element its children are yielded one by one.
//
// A final component of the form "#name" selects the value of the
// named attribute instead: the remaining components match the element
// as above, and the attribute value is yielded as a Text.
func QueryAll(root *Element, path ...string) iter.Seq[Value] {
	var attr string
	if n := len(path); n > 0 && strings.HasPrefix(path[n-1], "#") {
		attr = path[n-1][1:]
		path = path[:n-1]
	}

	return func(yield func(Value) bool) {
		queryWalk(root, nil, path, attr, yield)
	}
}

// QueryFirst returns the first result of QueryAll.
func QueryFirst(root *Element, path ...string) (Value, bool) {
	for v := range QueryAll(root, path...) {
		return v, true
	}
	return nil, false
}

func queryWalk(e *Element, ancestors []string, path []string, attr string, yield func(Value) bool) bool {
	if pathMatches(e, ancestors, path) {
		if attr != "" {
			if v, ok := e.Attr(attr); ok {
				if !yield(Text(v)) {
					return false
				}
			}
		} else {
			for _, c := range e.Children {
				if !yield(c) {
					return false
				}
			}
		}
	}

	ancestors = append(ancestors, e.Name)
	for _, c := range e.Children {
		if child, ok := c.(*Element); ok {
			if !queryWalk(child, ancestors, path, attr, yield) {
				return false
			}
		}
	}
	return true
}

func pathMatches(e *Element, ancestors []string, path []string) bool {
	if len(path) == 0 {
		// the bare path matches the root alone
		return len(ancestors) == 0
	}
	if e.Name != path[len(path)-1] {
		return false
	}

	// the leading components must be a subsequence of the ancestors
	want := path[:len(path)-1]
	i := 0
	for _, name := range ancestors {
		if i >= len(want) {
			break
		}
		if name == want[i] {
			i++
		}
	}
	return i >= len(want)
}
