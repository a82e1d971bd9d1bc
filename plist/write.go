package plist

import (
	"fmt"
	"io"
	"strconv"

	"github.com/lestrrat-go/xylem"
	"github.com/lestrrat-go/xylem/loc"
)

const (
	xmlDecl = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	docType = `<!DOCTYPE plist SYSTEM "file://localhost/System/Library/DTDs/PropertyList.dtd">` + "\n"
)

// the childless boolean and container elements use the short form;
// an empty <string></string> stays paired
func emptyTags() xylem.WriteOption {
	return xylem.WithEmptyTagPolicy(xylem.EmptyNames("true", "false", "dict", "array"))
}

// Write writes v as a property list document: XML declaration,
// DOCTYPE, and the value wrapped in a <plist> element.
func Write(out io.Writer, v Value) error {
	root, err := ToElement(v)
	if err != nil {
		return err
	}

	span := loc.SynthesizedSpan()
	plist := xylem.NewElement("plist",
		[]xylem.Attribute{xylem.NewAttribute("version", "0.9", span)},
		[]xylem.Content{root}, span)

	if _, err := io.WriteString(out, xmlDecl); err != nil {
		return err
	}
	if _, err := io.WriteString(out, docType); err != nil {
		return err
	}
	if err := xylem.WriteContent(out, plist, emptyTags()); err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}

// ToElement converts v to its element representation, without the
// <plist> wrapper.
func ToElement(v Value) (*xylem.Element, error) {
	span := loc.SynthesizedSpan()
	text := func(name, body string) *xylem.Element {
		var children []xylem.Content
		if body != "" {
			children = []xylem.Content{xylem.NewText(body, span)}
		}
		return xylem.NewElement(name, nil, children, span)
	}

	switch v := v.(type) {
	case String:
		return text("string", string(v)), nil
	case Bool:
		if v {
			return xylem.NewElement("true", nil, nil, span), nil
		}
		return xylem.NewElement("false", nil, nil, span), nil
	case Integer:
		return text("integer", strconv.FormatInt(int64(v), 10)), nil
	case Real:
		return text("real", strconv.FormatFloat(float64(v), 'g', -1, 64)), nil
	case Data:
		return text("data", string(v)), nil
	case Date:
		return text("date", string(v)), nil
	case *Dict:
		var children []xylem.Content
		var convErr error
		v.Range(func(key string, val Value) bool {
			ve, err := ToElement(val)
			if err != nil {
				convErr = err
				return false
			}
			children = append(children, text("key", key), ve)
			return true
		})
		if convErr != nil {
			return nil, convErr
		}
		return xylem.NewElement("dict", nil, children, span), nil
	case Array:
		var children []xylem.Content
		for _, item := range v {
			ve, err := ToElement(item)
			if err != nil {
				return nil, err
			}
			children = append(children, ve)
		}
		return xylem.NewElement("array", nil, children, span), nil
	case nil:
		return nil, fmt.Errorf("plist: cannot write nil value")
	default:
		return nil, fmt.Errorf("plist: cannot write value of type %T", v)
	}
}
