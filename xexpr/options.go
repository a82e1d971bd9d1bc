package xexpr

import "github.com/lestrrat-go/option"

type Option = option.Interface

type identForeignValues struct{}
type identExplicitAttrLists struct{}

// ConvertOption is an option accepted by FromDocument, FromContent
// and Validate.
type ConvertOption interface {
	Option
	convertOption()
}

type convertOption struct {
	Option
}

func (convertOption) convertOption() {}

func newConvertOption(n interface{}, v interface{}) ConvertOption {
	return convertOption{option.New(n, v)}
}

// WithForeignValues permits Foreign values: FromContent converts
// foreign content nodes instead of failing, and Validate accepts
// Foreign leaves.
func WithForeignValues(b bool) ConvertOption {
	return newConvertOption(identForeignValues{}, b)
}

// WithExplicitAttrLists makes FromContent produce an explicit empty
// attribute list for attribute-less elements instead of the
// shorthand form.
func WithExplicitAttrLists(b bool) ConvertOption {
	return newConvertOption(identExplicitAttrLists{}, b)
}
