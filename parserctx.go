package xylem

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lestrrat-go/pdebug"
	"github.com/lestrrat-go/strcursor"
	"github.com/lestrrat-go/xylem/encoding"
	"github.com/lestrrat-go/xylem/loc"
	"github.com/lestrrat-go/xylem/sax"
)

type parserState int

const (
	psEOF parserState = iota - 1
	psStart
	psProlog
	psContent
	psCDATA
	psEpilogue
)

type parsedElement struct {
	name       string
	attributes []sax.ParsedAttribute
	span       loc.Span
	next       *parsedElement
}

func (e *parsedElement) Name() string {
	return e.name
}

func (e *parsedElement) Attributes() []sax.ParsedAttribute {
	return e.attributes
}

func (e *parsedElement) Span() loc.Span {
	return e.span
}

type parsedAttribute struct {
	name  string
	value string
	span  loc.Span
}

func (a parsedAttribute) Name() string {
	return a.name
}

func (a parsedAttribute) Value() string {
	return a.value
}

func (a parsedAttribute) Span() loc.Span {
	return a.span
}

type parserCtx struct {
	cursor   *strcursor.Cursor
	sax      sax.Handler
	userData sax.Context
	instate  parserState
	encoding string

	// option snapshot, taken once per call
	byteOffsets        bool
	retainComments     bool
	undeclaredEntities bool

	// character offset alongside the cursor's byte offset; both are
	// kept relative to bases so that an encoding switch (which
	// replaces the cursor) does not reset reported positions.
	nbchars   int
	baseLine  int
	baseBytes int

	// open element stack, an intrusive list through parsedElement.next
	element *parsedElement
	doc     *Document
	version string
}

func (ctx *parserCtx) init(p *Parser, b []byte) error {
	ctx.cursor = strcursor.New(b)
	ctx.instate = psStart
	ctx.sax = p.sax
	ctx.userData = ctx
	ctx.retainComments = true
	for _, o := range p.options {
		switch o.Ident().(type) {
		case identByteOffsets:
			ctx.byteOffsets = o.Value().(bool)
		case identRetainComments:
			ctx.retainComments = o.Value().(bool)
		case identUndeclaredEntities:
			ctx.undeclaredEntities = o.Value().(bool)
		}
	}
	return nil
}

func (ctx *parserCtx) release() error {
	ctx.sax = nil
	ctx.userData = nil
	return nil
}

func (ctx *parserCtx) pushNode(e *parsedElement) {
	if pdebug.Enabled {
		pdebug.Printf(" --> push node %s", e.name)
	}
	e.next = ctx.element
	ctx.element = e
}

func (ctx *parserCtx) peekNode() *parsedElement {
	return ctx.element
}

func (ctx *parserCtx) popNode() *parsedElement {
	e := ctx.element
	if e == nil {
		return nil
	}
	if pdebug.Enabled {
		pdebug.Printf(" <-- pop node %s", e.name)
	}
	ctx.element = e.next
	return e
}

func (ctx *parserCtx) position() loc.Location {
	offset := ctx.nbchars
	if ctx.byteOffsets {
		offset = ctx.baseBytes + ctx.cursor.OffsetBytes()
	}
	line := ctx.cursor.LineNumber()
	if ctx.baseLine > 0 {
		line += ctx.baseLine - 1
	}
	return loc.New(line, ctx.cursor.Column(), offset)
}

func (ctx *parserCtx) spanFrom(start loc.Location) loc.Span {
	return loc.NewSpan(start, ctx.position())
}

func (ctx *parserCtx) error(kind ErrorKind, err error) error {
	return ctx.errorAt(ctx.position(), kind, err)
}

func (ctx *parserCtx) errorAt(pos loc.Location, kind ErrorKind, err error) error {
	if _, ok := err.(ReadError); ok {
		return err
	}
	return ReadError{Position: pos, Kind: kind, Err: err}
}

// cursor wrappers; every consuming operation also advances the
// character offset counter

func (ctx *parserCtx) curHasChars(n int) bool {
	return ctx.cursor.HasChars(n)
}

func (ctx *parserCtx) curDone() bool {
	return ctx.cursor.Done()
}

func (ctx *parserCtx) markEOF() {
	if ctx.cursor.Done() {
		ctx.instate = psEOF
	}
}

func (ctx *parserCtx) curAdvance(n int) {
	defer ctx.markEOF()
	ctx.nbchars += n
	ctx.cursor.Advance(n)
}

func (ctx *parserCtx) curPeek(n int) rune {
	return ctx.cursor.Peek(n)
}

func (ctx *parserCtx) curPeekBytes(n int) []byte {
	return ctx.cursor.PeekBytes(n)
}

func (ctx *parserCtx) curConsume(n int) string {
	defer ctx.markEOF()
	s := ctx.cursor.Consume(n)
	ctx.nbchars += utf8.RuneCountInString(s)
	return s
}

func (ctx *parserCtx) curConsumePrefix(s string) bool {
	defer ctx.markEOF()
	if ctx.cursor.ConsumePrefix(s) {
		ctx.nbchars += utf8.RuneCountInString(s)
		return true
	}
	return false
}

func (ctx *parserCtx) curHasPrefix(s string) bool {
	return ctx.cursor.HasPrefix(s)
}

func (ctx *parserCtx) curLen() int {
	return ctx.cursor.Len()
}

func isBlankCh(c rune) bool {
	return c == 0x20 || (0x9 <= c && c <= 0xa) || c == 0xd
}

func (ctx *parserCtx) skipBlanks() {
	i := 1
	for ; ctx.curHasChars(i); i++ {
		if !isBlankCh(ctx.curPeek(i)) {
			break
		}
	}
	i--
	if i > 0 {
		ctx.curAdvance(i)
	}
}

// BOM patterns we can actually decode; everything else fails upfront
var (
	patUTF8      = []byte{0xEF, 0xBB, 0xBF}
	patUTF16LE4B = []byte{0x3C, 0x00, 0x3F, 0x00}
	patUTF16BE4B = []byte{0x00, 0x3C, 0x00, 0x3F}
	patUTF16LE2B = []byte{0xFF, 0xFE}
	patUTF16BE2B = []byte{0xFE, 0xFF}
)

func (ctx *parserCtx) detectEncoding() string {
	if ctx.curLen() >= 4 {
		b := ctx.curPeekBytes(4)
		if bytes.Equal(b, patUTF16LE4B) {
			return "utf16le"
		}
		if bytes.Equal(b, patUTF16BE4B) {
			return "utf16be"
		}
	}
	if ctx.curLen() >= 3 {
		if bytes.Equal(ctx.curPeekBytes(3), patUTF8) {
			ctx.curAdvance(1) // the BOM decodes as one rune
			return "utf8"
		}
	}
	if ctx.curLen() >= 2 {
		b := ctx.curPeekBytes(2)
		if bytes.Equal(b, patUTF16BE2B) {
			return "utf16be"
		}
		if bytes.Equal(b, patUTF16LE2B) {
			return "utf16le"
		}
	}
	return ""
}

func (ctx *parserCtx) switchEncoding() error {
	if ctx.encoding == "" || ctx.encoding == "utf8" || ctx.encoding == "utf-8" {
		return nil
	}

	enc := encoding.Load(ctx.encoding)
	if enc == nil {
		return errors.New("encoding '" + ctx.encoding + "' not supported")
	}

	b, err := enc.NewDecoder().Bytes(ctx.cursor.Bytes())
	if err != nil {
		return err
	}

	// Replacing the cursor resets its counters, so remember where
	// we were.
	ctx.baseLine = ctx.cursor.LineNumber()
	ctx.baseBytes += ctx.cursor.OffsetBytes()
	ctx.cursor = strcursor.New(b)
	return nil
}

func (ctx *parserCtx) parseDocument(keepTrailing bool) error {
	if pdebug.Enabled {
		pdebug.Printf("START parseDocument")
		defer pdebug.Printf("END   parseDocument")
	}

	if s := ctx.sax; s != nil {
		if err := s.StartDocument(ctx.userData); err != nil {
			return err
		}
	}

	if enc := ctx.detectEncoding(); enc != "" {
		ctx.encoding = enc
	}

	if ctx.curDone() {
		return ctx.error(KindWrongRootElementCount, errors.New("zero root elements: empty document"))
	}

	if ctx.curHasPrefix("<?xml") && isBlankCh(ctx.curPeek(6)) {
		if err := ctx.parseXMLDecl(); err != nil {
			return err
		}
	}

	if err := ctx.switchEncoding(); err != nil {
		return ctx.error(KindUnterminatedConstruct, err)
	}

	ctx.instate = psProlog
	if err := ctx.parseMisc(); err != nil {
		return err
	}

	if ctx.curHasPrefix("<!DOCTYPE") {
		if err := ctx.parseDocTypeDecl(); err != nil {
			return err
		}
		if err := ctx.parseMisc(); err != nil {
			return err
		}
	}

	ctx.skipBlanks()
	if ctx.curDone() || ctx.curPeek(1) != '<' {
		return ctx.error(KindWrongRootElementCount, errors.New("zero root elements: "+ErrEmptyDocument.Error()))
	}

	ctx.instate = psContent
	if err := ctx.parseElement(); err != nil {
		return err
	}

	ctx.instate = psEpilogue
	if err := ctx.parseMisc(); err != nil {
		return err
	}
	if !ctx.curDone() {
		if ctx.curPeek(1) == '<' {
			return ctx.error(KindWrongRootElementCount, errors.New("multiple root elements"))
		}
		return ctx.error(KindWrongRootElementCount, ErrDocumentEnd)
	}
	ctx.instate = psEOF

	if s := ctx.sax; s != nil {
		if err := s.EndDocument(ctx.userData); err != nil {
			return err
		}
	}

	if !keepTrailing && ctx.doc != nil {
		ctx.doc.Trailing = nil
	}
	return nil
}

// parseSingleElement reads exactly one element, leaving trailing input
// in place.
func (ctx *parserCtx) parseSingleElement() error {
	if s := ctx.sax; s != nil {
		if err := s.StartDocument(ctx.userData); err != nil {
			return err
		}
	}

	if enc := ctx.detectEncoding(); enc != "" {
		ctx.encoding = enc
		if err := ctx.switchEncoding(); err != nil {
			return ctx.error(KindUnterminatedConstruct, err)
		}
	}

	ctx.skipBlanks()
	if ctx.curDone() || ctx.curPeek(1) != '<' {
		return ctx.error(KindWrongRootElementCount, errors.New("zero root elements: "+ErrStartTagRequired.Error()))
	}

	ctx.instate = psContent
	if err := ctx.parseElement(); err != nil {
		return err
	}

	if s := ctx.sax; s != nil {
		if err := s.EndDocument(ctx.userData); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *parserCtx) parseMisc() error {
	for !ctx.curDone() {
		if ctx.curHasPrefix("<?") {
			if err := ctx.parsePI(); err != nil {
				return err
			}
		} else if ctx.curHasPrefix("<!--") {
			if err := ctx.parseComment(); err != nil {
				return err
			}
		} else if isBlankCh(ctx.curPeek(1)) {
			ctx.skipBlanks()
		} else {
			break
		}
	}
	return nil
}

func (ctx *parserCtx) parseContent() error {
	if pdebug.Enabled {
		pdebug.Printf("START parseContent")
		defer pdebug.Printf("END   parseContent")
	}
	ctx.instate = psContent

	for ctx.curLen() > 0 {
		if ctx.curHasPrefix("</") {
			return nil
		}
		if ctx.curHasPrefix("<?") {
			if err := ctx.parsePI(); err != nil {
				return err
			}
			continue
		}
		if ctx.curHasPrefix("<![CDATA[") {
			if err := ctx.parseCDSect(); err != nil {
				return err
			}
			continue
		}
		if ctx.curHasPrefix("<!--") {
			if err := ctx.parseComment(); err != nil {
				return err
			}
			continue
		}
		if ctx.curHasPrefix("<") {
			if err := ctx.parseElement(); err != nil {
				return err
			}
			continue
		}
		if ctx.curHasPrefix("&") {
			if err := ctx.parseReference(); err != nil {
				return err
			}
			continue
		}
		if err := ctx.parseCharData(); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *parserCtx) parseElement() error {
	if pdebug.Enabled {
		pdebug.Printf("START parseElement")
		defer pdebug.Printf("END   parseElement")
	}

	// parseStartTag stops right before '>' or '/>'
	selfClosing, err := ctx.parseStartTag()
	if err != nil {
		return err
	}

	if !selfClosing {
		if err := ctx.parseContent(); err != nil {
			return err
		}
	}

	return ctx.parseEndTag(selfClosing)
}

func (ctx *parserCtx) parseStartTag() (bool, error) {
	start := ctx.position()
	if ctx.curPeek(1) != '<' {
		return false, ctx.error(KindUnterminatedConstruct, ErrStartTagRequired)
	}
	ctx.curAdvance(1)

	name, err := ctx.parseName()
	if err != nil {
		return false, ctx.errorAt(start, KindUnterminatedConstruct, err)
	}

	var attrs []sax.ParsedAttribute
	selfClosing := false
	for {
		ctx.skipBlanks()
		if ctx.curDone() {
			return false, ctx.errorAt(start, KindUnexpectedEndOfStream, errors.New("end of stream inside start tag '"+name+"'"))
		}
		if ctx.curPeek(1) == '>' {
			ctx.curAdvance(1)
			break
		}
		if ctx.curPeek(1) == '/' && ctx.curPeek(2) == '>' {
			ctx.curAdvance(2)
			selfClosing = true
			break
		}
		attr, err := ctx.parseAttribute()
		if err != nil {
			return false, err
		}
		attrs = append(attrs, attr)
	}

	elem := &parsedElement{
		name:       name,
		attributes: attrs,
		span:       ctx.spanFrom(start),
	}
	ctx.pushNode(elem)
	if s := ctx.sax; s != nil {
		if err := s.StartElement(ctx.userData, elem); err != nil {
			return false, err
		}
	}
	return selfClosing, nil
}

func (ctx *parserCtx) parseEndTag(selfClosing bool) error {
	if selfClosing {
		e := ctx.popNode()
		if s := ctx.sax; s != nil {
			return s.EndElement(ctx.userData, e.name, ctx.position())
		}
		return nil
	}

	pos := ctx.position()
	if !ctx.curConsumePrefix("</") {
		open := "element"
		if e := ctx.peekNode(); e != nil {
			open = "'" + e.name + "'"
		}
		if ctx.curDone() {
			return ctx.errorAt(pos, KindUnexpectedEndOfStream, errors.New("end of stream inside "+open))
		}
		return ctx.errorAt(pos, KindUnterminatedConstruct, errors.New("'</' required to close "+open))
	}

	name, err := ctx.parseName()
	if err != nil {
		return ctx.errorAt(pos, KindUnterminatedConstruct, err)
	}
	ctx.skipBlanks()
	if ctx.curPeek(1) != '>' {
		if ctx.curDone() {
			return ctx.errorAt(pos, KindUnexpectedEndOfStream, errors.New("end of stream inside end tag"))
		}
		return ctx.errorAt(pos, KindUnterminatedConstruct, ErrGtRequired)
	}
	ctx.curAdvance(1)

	e := ctx.peekNode()
	if e == nil || e.name != name {
		want := "(none)"
		if e != nil {
			want = e.name
		}
		return ctx.errorAt(pos, KindMismatchedEndTag,
			fmt.Errorf("closing tag does not match ('%s' != '%s')", want, name))
	}
	ctx.popNode()

	if s := ctx.sax; s != nil {
		return s.EndElement(ctx.userData, e.name, ctx.position())
	}
	return nil
}

func (ctx *parserCtx) parseAttribute() (sax.ParsedAttribute, error) {
	start := ctx.position()
	name, err := ctx.parseName()
	if err != nil {
		return parsedAttribute{}, ctx.errorAt(start, KindUnterminatedConstruct, err)
	}

	ctx.skipBlanks()
	if ctx.curPeek(1) != '=' {
		return parsedAttribute{}, ctx.error(KindUnterminatedConstruct, ErrEqualSignRequired)
	}
	ctx.curAdvance(1)
	ctx.skipBlanks()

	v, err := ctx.parseQuotedText(ctx.parseAttributeValueInternal)
	if err != nil {
		return parsedAttribute{}, err
	}

	return parsedAttribute{name: name, value: v, span: ctx.spanFrom(start)}, nil
}

func (ctx *parserCtx) parseAttributeValueInternal(qch rune) (string, error) {
	var v []byte
	for {
		i := 1
		for ; ctx.curHasChars(i); i++ {
			c := ctx.curPeek(i)
			if c == qch || c == '&' || c == '<' {
				i--
				break
			}
		}
		if !ctx.curHasChars(i) {
			i--
		}
		if i > 0 {
			v = append(v, ctx.curConsume(i)...)
		}

		if ctx.curPeek(1) != '&' {
			break
		}

		// references in attribute values are expanded in place
		if ctx.curPeek(2) == '#' {
			r, err := ctx.parseCharRef()
			if err != nil {
				return "", err
			}
			v = utf8.AppendRune(v, r)
		} else {
			s, err := ctx.parseAttrEntityRef()
			if err != nil {
				return "", err
			}
			v = append(v, s...)
		}
	}
	return string(v), nil
}

func (ctx *parserCtx) parseAttrEntityRef() (string, error) {
	pos := ctx.position()
	ctx.curAdvance(1) // '&'
	name, err := ctx.parseName()
	if err != nil {
		return "", ctx.errorAt(pos, KindInvalidCharacterReference, ErrNameRequired)
	}
	if ctx.curPeek(1) != ';' {
		return "", ctx.errorAt(pos, KindUnterminatedConstruct, ErrSemicolonRequired)
	}
	ctx.curAdvance(1)

	if s, ok := ResolvePredefinedEntity(name); ok {
		return s, nil
	}
	if ctx.undeclaredEntities {
		// no replacement text to stand in; keep the reference verbatim
		return "&" + name + ";", nil
	}
	return "", ctx.errorAt(pos, KindInvalidCharacterReference, fmt.Errorf("%w: '%s'", ErrUndeclaredEntity, name))
}

type qtextHandler func(qch rune) (string, error)

func (ctx *parserCtx) parseQuotedText(cb qtextHandler) (string, error) {
	q := ctx.curPeek(1)
	switch q {
	case '"', '\'':
		ctx.curAdvance(1)
	default:
		return "", ctx.error(KindUnterminatedConstruct, errors.New("string not started (got '"+string([]rune{q})+"')"))
	}
	v, err := cb(q)
	if err != nil {
		return "", err
	}

	if ctx.curPeek(1) != q {
		if ctx.curDone() {
			return "", ctx.error(KindUnexpectedEndOfStream, errors.New("end of stream inside quoted string"))
		}
		return "", ctx.error(KindUnterminatedConstruct, errors.New("string not closed"))
	}
	ctx.curAdvance(1)
	return v, nil
}

func (ctx *parserCtx) parseLiteralInternal(qch rune) (string, error) {
	i := 1
	for ; ctx.curHasChars(i); i++ {
		if ctx.curPeek(i) == qch {
			i--
			break
		}
	}
	if !ctx.curHasChars(i) {
		i--
	}
	return ctx.curConsume(i), nil
}

func (ctx *parserCtx) parseName() (string, error) {
	if ctx.instate == psEOF {
		return "", errors.New("premature end of stream")
	}

	c := ctx.curPeek(1)
	if !isNameStartChar(c) {
		return "", fmt.Errorf("%w (got '%c')", ErrNameRequired, c)
	}

	i := 2
	for ; ctx.curHasChars(i); i++ {
		if !isNameChar(ctx.curPeek(i)) {
			i--
			break
		}
	}
	if !ctx.curHasChars(i) {
		i--
	}
	return ctx.curConsume(i), nil
}

func isNameStartChar(c rune) bool {
	return c == '_' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c rune) bool {
	return isNameStartChar(c) || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func (ctx *parserCtx) parseCharData() error {
	if pdebug.Enabled {
		pdebug.Printf("START parseCharData")
		defer pdebug.Printf("END   parseCharData")
	}

	start := ctx.position()
	i := 1
	for ; ctx.curHasChars(i); i++ {
		c := ctx.curPeek(i)
		if c == '<' || c == '&' {
			break
		}
		if c == ']' && ctx.curPeek(i+1) == ']' && ctx.curPeek(i+2) == '>' {
			return ctx.error(KindUnterminatedConstruct, ErrMisplacedCDATAEnd)
		}
	}

	if i <= 1 {
		return ctx.error(KindUnterminatedConstruct, errors.New("invalid character data"))
	}

	str := ctx.curConsume(i - 1)
	str = strings.ReplaceAll(str, "\r\n", "\n")
	if s := ctx.sax; s != nil {
		return s.Characters(ctx.userData, str, ctx.spanFrom(start))
	}
	return nil
}

func (ctx *parserCtx) parseCDSect() error {
	start := ctx.position()
	if !ctx.curConsumePrefix(cdataStart) {
		return ctx.error(KindUnterminatedConstruct, ErrInvalidCDSect)
	}

	ctx.instate = psCDATA
	defer func() { ctx.instate = psContent }()

	i := 1
	for ; ctx.curHasChars(i); i++ {
		if ctx.curPeek(i) == ']' && ctx.curPeek(i+1) == ']' && ctx.curPeek(i+2) == '>' {
			i--
			break
		}
	}
	if !ctx.curHasChars(i + 3) {
		return ctx.errorAt(start, KindUnexpectedEndOfStream, errors.New("end of stream inside CDATA section"))
	}

	body := ctx.curConsume(i)
	if !ctx.curConsumePrefix(cdataEnd) {
		return ctx.errorAt(start, KindUnterminatedConstruct, ErrInvalidCDSect)
	}

	if s := ctx.sax; s != nil {
		return s.CDATABlock(ctx.userData, cdataStart+body+cdataEnd, ctx.spanFrom(start))
	}
	return nil
}

func (ctx *parserCtx) parseComment() error {
	start := ctx.position()
	if !ctx.curConsumePrefix("<!--") {
		return ctx.error(KindUnterminatedConstruct, ErrInvalidComment)
	}

	i := 1
	for {
		if !ctx.curHasChars(i + 2) {
			return ctx.errorAt(start, KindUnexpectedEndOfStream, errors.New("end of stream inside comment"))
		}
		if ctx.curPeek(i) == '-' && ctx.curPeek(i+1) == '-' {
			if ctx.curPeek(i+2) != '>' {
				return ctx.errorAt(start, KindUnterminatedConstruct, ErrHyphenInComment)
			}
			break
		}
		i++
	}

	str := ctx.curConsume(i - 1)
	ctx.curAdvance(3) // -->
	str = strings.ReplaceAll(str, "\r\n", "\n")

	if !ctx.retainComments {
		return nil
	}
	if s := ctx.sax; s != nil {
		return s.Comment(ctx.userData, str, ctx.spanFrom(start))
	}
	return nil
}

func (ctx *parserCtx) parsePI() error {
	start := ctx.position()
	if !ctx.curConsumePrefix("<?") {
		return ctx.error(KindUnterminatedConstruct, ErrInvalidPI)
	}

	target, err := ctx.parseName()
	if err != nil {
		return ctx.errorAt(start, KindUnterminatedConstruct, err)
	}

	if ctx.curConsumePrefix("?>") {
		if s := ctx.sax; s != nil {
			return s.ProcessingInstruction(ctx.userData, target, "", ctx.spanFrom(start))
		}
		return nil
	}

	if !isBlankCh(ctx.curPeek(1)) {
		return ctx.error(KindUnterminatedConstruct, ErrSpaceRequired)
	}
	ctx.skipBlanks()

	i := 1
	for ; ctx.curHasChars(i); i++ {
		if ctx.curPeek(i) == '?' && ctx.curPeek(i+1) == '>' {
			i--
			break
		}
	}
	if !ctx.curHasChars(i + 2) {
		return ctx.errorAt(start, KindUnexpectedEndOfStream, errors.New("end of stream inside processing instruction"))
	}

	data := ctx.curConsume(i)
	if !ctx.curConsumePrefix("?>") {
		return ctx.errorAt(start, KindUnterminatedConstruct, ErrInvalidPI)
	}

	if s := ctx.sax; s != nil {
		return s.ProcessingInstruction(ctx.userData, target, data, ctx.spanFrom(start))
	}
	return nil
}

func (ctx *parserCtx) parseReference() error {
	start := ctx.position()
	if ctx.curPeek(1) != '&' {
		return ctx.error(KindUnterminatedConstruct, errors.New("'&' was required here"))
	}

	if ctx.curPeek(2) == '#' {
		r, err := ctx.parseCharRef()
		if err != nil {
			return err
		}
		if s := ctx.sax; s != nil {
			return s.CharRef(ctx.userData, r, ctx.spanFrom(start))
		}
		return nil
	}

	ctx.curAdvance(1)
	name, err := ctx.parseName()
	if err != nil {
		return ctx.errorAt(start, KindInvalidCharacterReference, ErrNameRequired)
	}
	if ctx.curPeek(1) != ';' {
		return ctx.errorAt(start, KindUnterminatedConstruct, ErrSemicolonRequired)
	}
	ctx.curAdvance(1)

	if _, ok := ResolvePredefinedEntity(name); !ok && !ctx.undeclaredEntities {
		return ctx.errorAt(start, KindInvalidCharacterReference, fmt.Errorf("%w: '%s'", ErrUndeclaredEntity, name))
	}

	if s := ctx.sax; s != nil {
		return s.EntityRef(ctx.userData, name, ctx.spanFrom(start))
	}
	return nil
}

func (ctx *parserCtx) parseCharRef() (rune, error) {
	start := ctx.position()
	var val int64
	ndigits := 0
	if ctx.curConsumePrefix("&#x") {
		for ctx.curHasChars(1) && ctx.curPeek(1) != ';' {
			c := ctx.curPeek(1)
			switch {
			case c >= '0' && c <= '9':
				val = val*16 + int64(c-'0')
			case c >= 'a' && c <= 'f':
				val = val*16 + int64(c-'a') + 10
			case c >= 'A' && c <= 'F':
				val = val*16 + int64(c-'A') + 10
			default:
				return utf8.RuneError, ctx.errorAt(start, KindInvalidCharacterReference, errors.New("invalid hex character reference"))
			}
			if val > 0x10ffff {
				val = 0x110000
			}
			ndigits++
			ctx.curAdvance(1)
		}
	} else if ctx.curConsumePrefix("&#") {
		for ctx.curHasChars(1) && ctx.curPeek(1) != ';' {
			c := ctx.curPeek(1)
			if c < '0' || c > '9' {
				return utf8.RuneError, ctx.errorAt(start, KindInvalidCharacterReference, errors.New("invalid decimal character reference"))
			}
			val = val*10 + int64(c-'0')
			if val > 0x10ffff {
				val = 0x110000
			}
			ndigits++
			ctx.curAdvance(1)
		}
	} else {
		return utf8.RuneError, ctx.errorAt(start, KindInvalidCharacterReference, errors.New("invalid character reference"))
	}

	if ctx.curPeek(1) != ';' {
		return utf8.RuneError, ctx.errorAt(start, KindUnexpectedEndOfStream, errors.New("end of stream inside character reference"))
	}
	ctx.curAdvance(1)

	if ndigits == 0 || !IsChar(rune(val)) {
		return utf8.RuneError, ctx.errorAt(start, KindInvalidCharacterReference,
			fmt.Errorf("character reference out of range (%#x)", val))
	}
	return rune(val), nil
}

func (ctx *parserCtx) parseXMLDecl() error {
	start := ctx.position()
	if !ctx.curConsumePrefix("<?xml") {
		return ctx.error(KindUnterminatedConstruct, ErrInvalidXMLDecl)
	}
	if !isBlankCh(ctx.curPeek(1)) {
		return ctx.error(KindUnterminatedConstruct, ErrSpaceRequired)
	}
	ctx.skipBlanks()

	version, err := ctx.parseNamedAttribute("version", ctx.parseVersionNum)
	if err != nil {
		return err
	}
	ctx.version = version
	data := `version="` + version + `"`

	if isBlankCh(ctx.curPeek(1)) {
		if enc, err := ctx.parseNamedAttribute("encoding", ctx.parseEncodingName); err == nil {
			ctx.encoding = enc
			data += ` encoding="` + enc + `"`
		}
		if isBlankCh(ctx.curPeek(1)) || ctx.curPeek(1) == 's' {
			if v, err := ctx.parseNamedAttribute("standalone", ctx.parseStandaloneValue); err == nil {
				data += ` standalone="` + v + `"`
			}
		}
	}

	ctx.skipBlanks()
	if !ctx.curConsumePrefix("?>") {
		if ctx.curDone() {
			return ctx.errorAt(start, KindUnexpectedEndOfStream, errors.New("end of stream inside XML declaration"))
		}
		return ctx.errorAt(start, KindUnterminatedConstruct, errors.New("XML declaration not closed"))
	}

	// the declaration is represented as an ordinary leading PI
	if s := ctx.sax; s != nil {
		return s.ProcessingInstruction(ctx.userData, "xml", data, ctx.spanFrom(start))
	}
	return nil
}

func (ctx *parserCtx) parseNamedAttribute(name string, cb qtextHandler) (string, error) {
	ctx.skipBlanks()
	if !ctx.curConsumePrefix(name) {
		return "", fmt.Errorf("attribute token '%s' not found", name)
	}
	ctx.skipBlanks()
	if ctx.curPeek(1) != '=' {
		return "", ctx.error(KindUnterminatedConstruct, ErrEqualSignRequired)
	}
	ctx.curAdvance(1)
	ctx.skipBlanks()
	return ctx.parseQuotedText(cb)
}

func (ctx *parserCtx) parseVersionNum(_ rune) (string, error) {
	if v := ctx.curPeek(1); v > '9' || v < '0' {
		return "", errors.New("invalid version")
	}
	if ctx.curPeek(2) != '.' {
		return "", errors.New("invalid version")
	}
	if v := ctx.curPeek(3); v > '9' || v < '0' {
		return "", errors.New("invalid version")
	}

	i := 4
	for ; ctx.curHasChars(i); i++ {
		if v := ctx.curPeek(i); v > '9' || v < '0' {
			i--
			break
		}
	}
	return ctx.curConsume(i), nil
}

func (ctx *parserCtx) parseEncodingName(_ rune) (string, error) {
	c := ctx.curPeek(1)
	if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
		return "", errors.New("invalid encoding name")
	}

	i := 2
	for ; ctx.curHasChars(i); i++ {
		c = ctx.curPeek(i)
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') &&
			!(c >= '0' && c <= '9') && c != '.' && c != '_' && c != '-' {
			i--
			break
		}
	}
	return ctx.curConsume(i), nil
}

func (ctx *parserCtx) parseStandaloneValue(_ rune) (string, error) {
	if ctx.curConsumePrefix("yes") {
		return "yes", nil
	}
	if ctx.curConsumePrefix("no") {
		return "no", nil
	}
	return "", errors.New("invalid standalone declaration")
}

func (ctx *parserCtx) parseDocTypeDecl() error {
	start := ctx.position()
	if !ctx.curConsumePrefix("<!DOCTYPE") {
		return ctx.error(KindUnterminatedConstruct, ErrDocTypeNotFinished)
	}
	if !isBlankCh(ctx.curPeek(1)) {
		return ctx.error(KindUnterminatedConstruct, ErrSpaceRequired)
	}
	ctx.skipBlanks()

	name, err := ctx.parseName()
	if err != nil {
		return ctx.errorAt(start, KindUnterminatedConstruct, ErrDocTypeNameRequired)
	}
	ctx.skipBlanks()

	var publicID, systemID string
	switch {
	case ctx.curConsumePrefix("SYSTEM"):
		ctx.skipBlanks()
		systemID, err = ctx.parseQuotedText(ctx.parseLiteralInternal)
		if err != nil {
			return err
		}
	case ctx.curConsumePrefix("PUBLIC"):
		ctx.skipBlanks()
		publicID, err = ctx.parseQuotedText(ctx.parseLiteralInternal)
		if err != nil {
			return err
		}
		ctx.skipBlanks()
		systemID, err = ctx.parseQuotedText(ctx.parseLiteralInternal)
		if err != nil {
			return err
		}
	}

	ctx.skipBlanks()
	if ctx.curPeek(1) == '[' {
		return ctx.error(KindUnterminatedConstruct, errors.New("inline DTD subsets are not supported"))
	}
	if ctx.curPeek(1) != '>' {
		if ctx.curDone() {
			return ctx.errorAt(start, KindUnexpectedEndOfStream, errors.New("end of stream inside doctype"))
		}
		return ctx.error(KindUnterminatedConstruct, ErrDocTypeNotFinished)
	}
	ctx.curAdvance(1)

	if s := ctx.sax; s != nil {
		return s.DocumentType(ctx.userData, name, publicID, systemID, ctx.spanFrom(start))
	}
	return nil
}
