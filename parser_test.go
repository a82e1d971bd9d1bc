package xylem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSimple(t *testing.T) {
	doc, err := ParseString(`<root foo="bar"><child>text</child></root>`)
	require.NoError(t, err, "Parse should succeed")

	root := doc.Root
	require.NotNil(t, root, "document should have a root")
	require.Equal(t, "root", root.Name)

	v, ok := root.Attr("foo")
	require.True(t, ok, "attribute foo should exist")
	require.Equal(t, "bar", v)

	require.Len(t, root.Children, 1)
	child, ok := root.Children[0].(*Element)
	require.True(t, ok, "child should be an element")
	require.Equal(t, "child", child.Name)

	require.Len(t, child.Children, 1)
	txt, ok := child.Children[0].(*Text)
	require.True(t, ok, "grandchild should be text")
	require.Equal(t, "text", txt.Value)
}

func TestParseEmptyDocument(t *testing.T) {
	for _, input := range []string{"", "   \n  ", "<?pi data?>", "plain text"} {
		_, err := ParseString(input)
		require.Error(t, err, "Parse should fail for %q", input)

		var rerr ReadError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, KindWrongRootElementCount, rerr.Kind, "kind for %q", input)
	}
}

func TestParseMultipleRoots(t *testing.T) {
	_, err := ParseString(`<a>x</a><b/>`)
	require.Error(t, err, "Parse should fail on a second root")

	var rerr ReadError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, KindWrongRootElementCount, rerr.Kind)
	require.Equal(t, 8, rerr.Position.Offset, "position should point at the second root")
}

func TestParseMismatchedEndTag(t *testing.T) {
	_, err := ParseString(`<a><b></a>`)
	require.Error(t, err, "Parse should fail on mismatched end tag")

	var rerr ReadError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, KindMismatchedEndTag, rerr.Kind)
	require.Equal(t, 1, rerr.Position.Line)
	require.Equal(t, 6, rerr.Position.Offset, "position should point at the end tag")
}

func TestParseUnexpectedEOF(t *testing.T) {
	inputs := []string{
		`<a><b>`,
		`<a `,
		`<a b="c`,
		`<!-- never closed`,
		`<a><![CDATA[stuck`,
	}
	for _, input := range inputs {
		_, err := ParseString(input)
		require.Error(t, err, "Parse should fail for %q", input)

		var rerr ReadError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, KindUnexpectedEndOfStream, rerr.Kind, "kind for %q", input)
	}
}

func TestParseCharRefs(t *testing.T) {
	doc, err := ParseString(`<a>x&amp;y&#65;&#x1F600;</a>`)
	require.NoError(t, err, "Parse should succeed")

	children := doc.Root.Children
	require.Len(t, children, 5)

	txt := children[0].(*Text)
	require.Equal(t, "x", txt.Value)

	amp := children[1].(*EntityRef)
	require.True(t, amp.Symbolic())
	require.Equal(t, "amp", amp.Name)

	require.Equal(t, "y", children[2].(*Text).Value)

	dec := children[3].(*EntityRef)
	require.False(t, dec.Symbolic())
	require.Equal(t, rune(65), dec.Code)

	hex := children[4].(*EntityRef)
	require.Equal(t, rune(0x1F600), hex.Code)
}

func TestParseInvalidCharRef(t *testing.T) {
	inputs := []string{
		`<a>&#x110000;</a>`,
		`<a>&#xD800;</a>`,
		`<a>&#0;</a>`,
		`<a>&#x;</a>`,
	}
	for _, input := range inputs {
		_, err := ParseString(input)
		require.Error(t, err, "Parse should fail for %q", input)

		var rerr ReadError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, KindInvalidCharacterReference, rerr.Kind, "kind for %q", input)
		require.Equal(t, 3, rerr.Position.Offset, "position should point at the reference")
	}
}

func TestParseUndeclaredEntity(t *testing.T) {
	_, err := ParseString(`<a>&nbsp;</a>`)
	require.Error(t, err, "undeclared entities should fail by default")
	require.ErrorIs(t, err, ErrUndeclaredEntity)

	doc, err := ParseString(`<a>&nbsp;</a>`, WithUndeclaredEntities(true))
	require.NoError(t, err, "undeclared entities should pass when enabled")
	ref := doc.Root.Children[0].(*EntityRef)
	require.Equal(t, "nbsp", ref.Name)
}

func TestParseAttributeValueExpansion(t *testing.T) {
	doc, err := ParseString(`<a b="x&amp;y&#33;z" c='mixed "quotes"'/>`)
	require.NoError(t, err, "Parse should succeed")

	v, ok := doc.Root.Attr("b")
	require.True(t, ok)
	require.Equal(t, "x&y!z", v, "references in attribute values expand in place")

	v, ok = doc.Root.Attr("c")
	require.True(t, ok)
	require.Equal(t, `mixed "quotes"`, v)
}

func TestParseCDATA(t *testing.T) {
	doc, err := ParseString(`<a><![CDATA[1 < 2 && 3 > 2]]></a>`)
	require.NoError(t, err, "Parse should succeed")

	cd, ok := doc.Root.Children[0].(*CData)
	require.True(t, ok, "child should be CDATA")
	require.Equal(t, `<![CDATA[1 < 2 && 3 > 2]]>`, cd.Value, "CDATA is stored verbatim, wrapper included")
	require.Equal(t, `1 < 2 && 3 > 2`, cd.Text())
}

func TestParseComments(t *testing.T) {
	const input = `<!--prolog--><a><!--inner--></a><!--trailing-->`

	doc, err := ParseString(input)
	require.NoError(t, err, "Parse should succeed")

	require.Len(t, doc.Prolog.Leading, 1)
	require.Equal(t, "prolog", doc.Prolog.Leading[0].(*Comment).Value)

	require.Len(t, doc.Root.Children, 1)
	require.Equal(t, "inner", doc.Root.Children[0].(*Comment).Value)

	require.Len(t, doc.Trailing, 1)
	require.Equal(t, "trailing", doc.Trailing[0].(*Comment).Value)

	doc, err = ParseString(input, WithRetainComments(false))
	require.NoError(t, err, "Parse should succeed")
	require.Empty(t, doc.Prolog.Leading)
	require.Empty(t, doc.Root.Children)
	require.Empty(t, doc.Trailing)
}

func TestParseProlog(t *testing.T) {
	const input = `<?xml version="1.0"?>` + "\n" +
		`<?xml-stylesheet href="style.xsl"?>` + "\n" +
		`<!DOCTYPE html SYSTEM "about:legacy-compat">` + "\n" +
		`<!--pre-root-->` + "\n" +
		`<html/>`

	doc, err := ParseString(input)
	require.NoError(t, err, "Parse should succeed")

	require.Len(t, doc.Prolog.Leading, 2)
	decl := doc.Prolog.Leading[0].(*PI)
	require.Equal(t, "xml", decl.Target, "the XML declaration reads as a leading PI")
	require.Equal(t, `version="1.0"`, decl.Instruction)

	ss := doc.Prolog.Leading[1].(*PI)
	require.Equal(t, "xml-stylesheet", ss.Target)
	require.Equal(t, `href="style.xsl"`, ss.Instruction)

	dt := doc.Prolog.DocType
	require.NotNil(t, dt, "doctype should be captured")
	require.Equal(t, "html", dt.Name)
	require.NotNil(t, dt.External)
	require.Equal(t, "", dt.External.PublicID)
	require.Equal(t, "about:legacy-compat", dt.External.SystemID)

	require.Len(t, doc.Prolog.Misc, 1)
	require.Equal(t, "pre-root", doc.Prolog.Misc[0].(*Comment).Value)
}

func TestParsePublicDoctype(t *testing.T) {
	const input = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0//EN" "http://www.w3.org/xhtml1.dtd"><html/>`
	doc, err := ParseString(input)
	require.NoError(t, err, "Parse should succeed")

	dt := doc.Prolog.DocType
	require.NotNil(t, dt)
	require.Equal(t, "-//W3C//DTD XHTML 1.0//EN", dt.External.PublicID)
	require.Equal(t, "http://www.w3.org/xhtml1.dtd", dt.External.SystemID)
}

func TestReadDocumentNoTrailing(t *testing.T) {
	const input = `<a/><!--trailing-->`

	doc, err := ReadDocument(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Trailing, 1)

	doc, err = ReadDocumentNoTrailing(strings.NewReader(input))
	require.NoError(t, err)
	require.Empty(t, doc.Trailing, "trailing misc should be discarded")
}

func TestReadElement(t *testing.T) {
	e, err := ReadElement(strings.NewReader(`  <a>text</a>and then some`))
	require.NoError(t, err, "ReadElement should succeed")
	require.Equal(t, "a", e.Name)
	require.Len(t, e.Children, 1)
	require.Equal(t, "text", e.Children[0].(*Text).Value)
}

func TestSpans(t *testing.T) {
	doc, err := ParseString(`<a>日本</a>`)
	require.NoError(t, err)

	span := doc.Root.Span()
	require.True(t, span.Start.Known())
	require.Equal(t, 0, span.Start.Offset)
	require.Equal(t, 9, span.Stop.Offset, "offsets count characters by default")

	txt := doc.Root.Children[0].(*Text)
	require.Equal(t, 3, txt.Span().Start.Offset)
	require.Equal(t, 5, txt.Span().Stop.Offset)
}

func TestByteOffsets(t *testing.T) {
	doc, err := ParseString(`<a>日本</a>`, WithByteOffsets(true))
	require.NoError(t, err)

	require.Equal(t, 13, doc.Root.Span().Stop.Offset, "offsets count bytes when configured")

	txt := doc.Root.Children[0].(*Text)
	require.Equal(t, 3, txt.Span().Start.Offset)
	require.Equal(t, 9, txt.Span().Stop.Offset)
}

func TestMultilinePositions(t *testing.T) {
	_, err := ParseString("<a>\n  <b>\n</a>")
	require.Error(t, err)

	var rerr ReadError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, KindMismatchedEndTag, rerr.Kind)
	require.Equal(t, 3, rerr.Position.Line)
}

func TestParseEncodingSwitch(t *testing.T) {
	// 0xE9 is é in iso-8859-1
	input := append([]byte(`<?xml version="1.0" encoding="iso-8859-1"?><a>caf`), 0xE9)
	input = append(input, []byte(`</a>`)...)

	doc, err := Parse(input)
	require.NoError(t, err, "Parse should succeed")
	require.Equal(t, "café", doc.Root.Children[0].(*Text).Value)
}

func TestParseHyphenInComment(t *testing.T) {
	_, err := ParseString(`<a><!-- bad -- comment --></a>`)
	require.Error(t, err, "'--' inside a comment should fail")
	require.ErrorIs(t, err, ErrHyphenInComment)
}

func TestParseMisplacedCDATAEnd(t *testing.T) {
	_, err := ParseString(`<a>oops ]]> here</a>`)
	require.Error(t, err, "']]>' in character data should fail")
	require.ErrorIs(t, err, ErrMisplacedCDATAEnd)
}
