package xylem

import (
	"errors"
	"fmt"

	"github.com/lestrrat-go/xylem/loc"
)

// ErrorKind classifies reader failures.
type ErrorKind int

const (
	KindUnterminatedConstruct ErrorKind = iota + 1
	KindMismatchedEndTag
	KindUnexpectedEndOfStream
	KindInvalidCharacterReference
	KindWrongRootElementCount
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnterminatedConstruct:
		return "unterminated construct"
	case KindMismatchedEndTag:
		return "mismatched end tag"
	case KindUnexpectedEndOfStream:
		return "unexpected end of stream"
	case KindInvalidCharacterReference:
		return "invalid character reference"
	case KindWrongRootElementCount:
		return "wrong root element count"
	default:
		return "read error"
	}
}

// ReadError is the structured failure reported for malformed input.
// Position points at the offending construct.
type ReadError struct {
	Position loc.Location
	Kind     ErrorKind
	Err      error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Position, e.Err)
}

func (e ReadError) Unwrap() error {
	return e.Err
}

var (
	ErrDocumentEnd         = errors.New("extra content at document end")
	ErrDocTypeNameRequired = errors.New("doctype name required")
	ErrDocTypeNotFinished  = errors.New("doctype not finished")
	ErrEmptyDocument       = errors.New("start tag expected, '<' not found")
	ErrEqualSignRequired   = errors.New("'=' was required here")
	ErrGtRequired          = errors.New("'>' was required here")
	ErrHyphenInComment     = errors.New("'--' not allowed in comment")
	ErrInvalidCDSect       = errors.New("invalid CDATA section")
	ErrInvalidComment      = errors.New("invalid comment section")
	ErrInvalidPI           = errors.New("invalid processing instruction")
	ErrInvalidXMLDecl      = errors.New("invalid XML declaration")
	ErrMisplacedCDATAEnd   = errors.New("misplaced CDATA end ']]>'")
	ErrNameRequired        = errors.New("name is required")
	ErrSemicolonRequired   = errors.New("';' is required")
	ErrSpaceRequired       = errors.New("space required")
	ErrStartTagRequired    = errors.New("start tag expected, '<' not found")
	ErrUndeclaredEntity    = errors.New("undeclared entity")
)
