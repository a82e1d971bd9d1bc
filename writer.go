package xylem

import "io"

// WriteDocument writes the root element of doc to out in compact form.
func WriteDocument(out io.Writer, doc *Document, options ...WriteOption) error {
	return NewDumper(options...).WriteDocument(out, doc)
}

// WriteContent writes a single content node to out in compact form.
func WriteContent(out io.Writer, c Content, options ...WriteOption) error {
	return NewDumper(options...).WriteContent(out, c)
}

// DisplayDocument writes the root element of doc to out, indented.
func DisplayDocument(out io.Writer, doc *Document, options ...WriteOption) error {
	return NewDumper(options...).DisplayDocument(out, doc)
}

// DisplayContent writes a single content node to out, indented.
func DisplayContent(out io.Writer, c Content, options ...WriteOption) error {
	return NewDumper(options...).DisplayContent(out, c)
}
