package xylem

import "github.com/lestrrat-go/xylem/loc"

// Comment holds the text between <!-- and -->.
type Comment struct {
	span  loc.Span
	Value string
}

func NewComment(value string, span loc.Span) *Comment {
	return &Comment{span: span, Value: value}
}

func (c *Comment) Span() loc.Span {
	return c.span
}

func (c *Comment) content() {}

func (c *Comment) misc() {}
