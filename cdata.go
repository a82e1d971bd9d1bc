package xylem

import (
	"strings"

	"github.com/lestrrat-go/xylem/loc"
)

// CData is a character data section stored verbatim, wrapper included:
// Value always reads "<![CDATA[" ... "]]>". The writer re-emits it
// untouched, so a corrupt wrapper produces corrupt output.
type CData struct {
	span  loc.Span
	Value string
}

const (
	cdataStart = "<![CDATA["
	cdataEnd   = "]]>"
)

func NewCData(value string, span loc.Span) *CData {
	return &CData{span: span, Value: value}
}

// WrapCData builds a CData node from bare text, adding the wrapper.
func WrapCData(text string, span loc.Span) *CData {
	return &CData{span: span, Value: cdataStart + text + cdataEnd}
}

func (c *CData) Span() loc.Span {
	return c.span
}

func (c *CData) content() {}

// Text returns the section body with the wrapper stripped, when the
// wrapper is intact; otherwise it returns Value as is.
func (c *CData) Text() string {
	if strings.HasPrefix(c.Value, cdataStart) && strings.HasSuffix(c.Value, cdataEnd) {
		return c.Value[len(cdataStart) : len(c.Value)-len(cdataEnd)]
	}
	return c.Value
}
