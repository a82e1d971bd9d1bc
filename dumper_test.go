package xylem

import (
	"strings"
	"testing"

	"github.com/lestrrat-go/xylem/loc"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, input string, options ...WriteOption) string {
	t.Helper()
	doc, err := ParseString(input)
	require.NoError(t, err, "Parse should succeed for '%s'", input)

	var sb strings.Builder
	require.NoError(t, NewDumper(options...).WriteDocument(&sb, doc))
	return sb.String()
}

func TestWriteRoundTrip(t *testing.T) {
	inputs := []string{
		`<root></root>`,
		`<root foo="bar"><child>text</child></root>`,
		`<a>x&amp;y&#65;</a>`,
		`<a><![CDATA[1 < 2]]></a>`,
		`<a><!--note--><?target data?></a>`,
	}
	for _, input := range inputs {
		require.Equal(t, input, roundTrip(t, input), "write should reproduce '%s'", input)
	}
}

func TestWriteDocumentDropsProlog(t *testing.T) {
	const input = `<?xml version="1.0"?><!DOCTYPE a SYSTEM "a.dtd"><a/><!--trailing-->`
	require.Equal(t, `<a></a>`, roundTrip(t, input), "only the root element is written")
}

func TestEmptyTagPolicies(t *testing.T) {
	const input = `<div><br></br><span></span></div>`

	require.Equal(t, `<div><br/><span></span></div>`, roundTrip(t, input),
		"the default policy shortens the HTML void elements only")

	require.Equal(t, `<div><br/><span/></div>`, roundTrip(t, input, WithEmptyTagPolicy(EmptyAlways())))

	require.Equal(t, `<div><br></br><span></span></div>`, roundTrip(t, input, WithEmptyTagPolicy(EmptyNever())))

	require.Equal(t, `<div><br></br><span/></div>`,
		roundTrip(t, input, WithEmptyTagPolicy(EmptyNames("span"))))
}

func TestEmptyTagPolicyNeedsNoChildren(t *testing.T) {
	require.Equal(t, `<br>x</br>`, roundTrip(t, `<br>x</br>`, WithEmptyTagPolicy(EmptyAlways())),
		"elements with children always get a paired tag")
}

func TestWriteEscaping(t *testing.T) {
	doc := NewDocument(NewElement("a",
		[]Attribute{NewAttribute("q", `say "hi" & <bye>`, loc.SynthesizedSpan())},
		[]Content{NewText(`1 < 2 & 3 > 2`, loc.SynthesizedSpan())},
		loc.SynthesizedSpan()))

	var sb strings.Builder
	require.NoError(t, NewDumper().WriteDocument(&sb, doc))
	require.Equal(t, `<a q="say &quot;hi&quot; &amp; &lt;bye&gt;">1 &lt; 2 &amp; 3 &gt; 2</a>`, sb.String())
}

func TestDisplay(t *testing.T) {
	doc, err := ParseString(`<root><p>hey</p><br/></root>`)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, NewDumper().DisplayDocument(&sb, doc))

	const expected = `<root>
  <p>
    hey
  </p>
  <br/>
</root>
`
	require.Equal(t, expected, sb.String())
}

func TestCollapseWhitespace(t *testing.T) {
	doc, err := ParseString("<a>one  \n\t two <![CDATA[  keep  ]]></a>")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, NewDumper(WithCollapseWhitespace(true)).WriteDocument(&sb, doc))
	require.Equal(t, `<a>one two <![CDATA[  keep  ]]></a>`, sb.String(),
		"text collapses, CDATA does not")
}

func TestWriteEntityRefs(t *testing.T) {
	span := loc.SynthesizedSpan()
	doc := NewDocument(NewElement("a", nil, []Content{
		NewEntityRef("amp", span),
		NewCharRef(169, span),
	}, span))

	var sb strings.Builder
	require.NoError(t, NewDumper().WriteDocument(&sb, doc))
	require.Equal(t, `<a>&amp;&#169;</a>`, sb.String())
}

func TestWriteForeignFails(t *testing.T) {
	span := loc.SynthesizedSpan()
	doc := NewDocument(NewElement("a", nil, []Content{
		NewForeign(42, span),
	}, span))

	var sb strings.Builder
	require.Error(t, NewDumper().WriteDocument(&sb, doc), "foreign values cannot be serialized")
}

func TestXMLString(t *testing.T) {
	doc, err := ParseString(`<a><b>c</b></a>`)
	require.NoError(t, err)

	s, err := doc.XMLString()
	require.NoError(t, err)
	require.Equal(t, `<a><b>c</b></a>`, s)

	s, err = doc.Root.Children[0].(*Element).XMLString()
	require.NoError(t, err)
	require.Equal(t, `<b>c</b>`, s)
}

func TestWrapCData(t *testing.T) {
	cd := WrapCData("a < b", loc.SynthesizedSpan())
	require.Equal(t, "<![CDATA[a < b]]>", cd.Value)
	require.Equal(t, "a < b", cd.Text())
}
