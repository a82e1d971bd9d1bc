package xexpr

import (
	"fmt"
	"iter"
	"strings"

	"github.com/lestrrat-go/xylem"
)

// InvalidValueError reports the offending value when validation
// fails.
type InvalidValueError struct {
	Value  interface{}
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v (%T): %s", e.Value, e.Value, e.Reason)
}

// Validate checks that v is a well formed tree value, and returns an
// *InvalidValueError describing the first offending subvalue in
// document order.
func Validate(v Value, options ...ConvertOption) error {
	for _, err := range Check(v, options...) {
		return err
	}
	return nil
}

// Check walks v in document order and yields every invalid subvalue
// together with its error. Ranging to completion without a yield
// means v is valid.
func Check(v Value, options ...ConvertOption) iter.Seq2[Value, error] {
	var cc convertCtx
	cc.init(options)
	return func(yield func(Value, error) bool) {
		check(v, cc.foreignValues, yield)
	}
}

func check(v Value, permissive bool, yield func(Value, error) bool) bool {
	fail := func(reason string) bool {
		return yield(v, &InvalidValueError{Value: v, Reason: reason})
	}

	switch v := v.(type) {
	case nil:
		return fail("nil value")
	case Text:
		return true
	case CharRef:
		if !xylem.IsChar(rune(v)) {
			return fail("character reference out of range")
		}
		return true
	case EntityRef:
		if !isName(string(v)) {
			return fail("entity name is not an XML name")
		}
		return true
	case CData:
		s := string(v)
		if !strings.HasPrefix(s, "<![CDATA[") || !strings.HasSuffix(s, "]]>") {
			return fail("CDATA wrapper missing")
		}
		return true
	case Comment:
		return true
	case *PI:
		if !isName(v.Target) {
			return fail("processing instruction target is not an XML name")
		}
		return true
	case Foreign:
		if !permissive {
			return fail("foreign value")
		}
		return true
	case *Element:
		if !isName(v.Name) {
			if !fail("element name is not an XML name") {
				return false
			}
		}
		for _, a := range v.Attrs {
			if !isName(a.Name) {
				if !yield(v, &InvalidValueError{Value: a, Reason: "attribute name is not an XML name"}) {
					return false
				}
			}
		}
		for _, c := range v.Children {
			if !check(c, permissive, yield) {
				return false
			}
		}
		return true
	default:
		return fail("not a tree value")
	}
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStartChar(r rune) bool {
	return r == '_' || r == ':' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80
}

func isNameChar(r rune) bool {
	return isNameStartChar(r) || r == '-' || r == '.' || (r >= '0' && r <= '9')
}
