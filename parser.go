package xylem

import (
	"io"

	"github.com/lestrrat-go/pdebug"
	"github.com/lestrrat-go/xylem/sax"
)

// Parser parses XML streams. The zero configuration builds the
// document tree; install a custom handler with SetHandler to receive
// the raw events instead.
type Parser struct {
	sax     sax.Handler
	options []ReadOption
}

func NewParser(options ...ReadOption) *Parser {
	return &Parser{
		sax:     &TreeBuilder{},
		options: options,
	}
}

// SetHandler replaces the event handler. Passing nil restores the
// default tree building handler.
func (p *Parser) SetHandler(h sax.Handler) {
	if h == nil {
		h = &TreeBuilder{}
	}
	p.sax = h
}

func (p *Parser) Parse(b []byte) (*Document, error) {
	return p.parse(b, true)
}

func (p *Parser) parse(b []byte, keepTrailing bool) (*Document, error) {
	if pdebug.Enabled {
		pdebug.Printf("START Parser.parse")
		defer pdebug.Printf("END   Parser.parse")
	}

	ctx := &parserCtx{}
	if err := ctx.init(p, b); err != nil {
		return nil, err
	}
	defer ctx.release()

	if err := ctx.parseDocument(keepTrailing); err != nil {
		return nil, err
	}
	return ctx.doc, nil
}

func (p *Parser) ParseString(s string) (*Document, error) {
	return p.Parse([]byte(s))
}

// ParseReader reads r to the end and parses the result.
func (p *Parser) ParseReader(in io.Reader) (*Document, error) {
	b, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return p.Parse(b)
}

// ReadDocument parses a complete document from in, including any
// comments and processing instructions that trail the root element.
func ReadDocument(in io.Reader, options ...ReadOption) (*Document, error) {
	b, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return NewParser(options...).Parse(b)
}

// ReadDocumentNoTrailing is ReadDocument with the content after the
// root element discarded; the returned document has no trailing misc.
func ReadDocumentNoTrailing(in io.Reader, options ...ReadOption) (*Document, error) {
	b, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return NewParser(options...).parse(b, false)
}

// ReadElement parses a single element from in. Input past the end of
// the element is left unexamined.
func ReadElement(in io.Reader, options ...ReadOption) (*Element, error) {
	b, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	p := NewParser(options...)
	ctx := &parserCtx{}
	if err := ctx.init(p, b); err != nil {
		return nil, err
	}
	defer ctx.release()

	if err := ctx.parseSingleElement(); err != nil {
		return nil, err
	}
	return ctx.doc.Root, nil
}

// Parse is a convenience that parses an in-memory document.
func Parse(b []byte, options ...ReadOption) (*Document, error) {
	return NewParser(options...).Parse(b)
}

// ParseString is a convenience that parses an in-memory document.
func ParseString(s string, options ...ReadOption) (*Document, error) {
	return NewParser(options...).ParseString(s)
}
