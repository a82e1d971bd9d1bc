package xylem

import "strings"

func NewDocument(root *Element) *Document {
	return &Document{Root: root}
}

// XMLString serializes the document in compact form. Per the library
// contract only the root element is written; the prolog and trailing
// misc survive reading but are dropped on write.
func (d *Document) XMLString(options ...WriteOption) (string, error) {
	var sb strings.Builder
	dump := NewDumper(options...)
	if err := dump.WriteDocument(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}
