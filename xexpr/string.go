package xexpr

import (
	"strings"

	"github.com/lestrrat-go/xylem"
)

// String serializes v in compact form.
func String(v Value, options ...xylem.WriteOption) (string, error) {
	var sb strings.Builder
	if err := xylem.NewDumper(options...).WriteContent(&sb, ToContent(v)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Parse reads a single element from s.
func Parse(s string, options ...ConvertOption) (*Element, error) {
	e, err := xylem.ReadElement(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	v, err := FromContent(e, options...)
	if err != nil {
		return nil, err
	}
	return v.(*Element), nil
}
