package xylem

import (
	"fmt"
	"testing"

	"github.com/lestrrat-go/xylem/loc"
	"github.com/lestrrat-go/xylem/sax"
	"github.com/stretchr/testify/require"
)

// eventsink records the event stream for inspection.
type eventsink struct {
	events []string
}

func (s *eventsink) add(format string, args ...interface{}) error {
	s.events = append(s.events, fmt.Sprintf(format, args...))
	return nil
}

func (s *eventsink) StartDocument(sax.Context) error { return s.add("start-document") }
func (s *eventsink) EndDocument(sax.Context) error   { return s.add("end-document") }
func (s *eventsink) DocumentType(_ sax.Context, name, publicID, systemID string, _ loc.Span) error {
	return s.add("doctype %s %q %q", name, publicID, systemID)
}
func (s *eventsink) ProcessingInstruction(_ sax.Context, target, data string, _ loc.Span) error {
	return s.add("pi %s %q", target, data)
}
func (s *eventsink) Comment(_ sax.Context, data string, _ loc.Span) error {
	return s.add("comment %q", data)
}
func (s *eventsink) StartElement(_ sax.Context, e sax.ParsedElement) error {
	ev := "start-element " + e.Name()
	for _, a := range e.Attributes() {
		ev += fmt.Sprintf(" %s=%q", a.Name(), a.Value())
	}
	return s.add("%s", ev)
}
func (s *eventsink) EndElement(_ sax.Context, name string, _ loc.Location) error {
	return s.add("end-element %s", name)
}
func (s *eventsink) Characters(_ sax.Context, data string, _ loc.Span) error {
	return s.add("characters %q", data)
}
func (s *eventsink) CDATABlock(_ sax.Context, data string, _ loc.Span) error {
	return s.add("cdata %q", data)
}
func (s *eventsink) EntityRef(_ sax.Context, name string, _ loc.Span) error {
	return s.add("entity %s", name)
}
func (s *eventsink) CharRef(_ sax.Context, code rune, _ loc.Span) error {
	return s.add("charref %#x", code)
}

func TestSAXEvents(t *testing.T) {
	const input = `<!DOCTYPE a SYSTEM "a.dtd"><a id="1"><b>hi&amp;</b><!--c--></a><?done now?>`

	sink := &eventsink{}
	p := NewParser()
	p.SetHandler(sink)

	doc, err := p.Parse([]byte(input))
	require.NoError(t, err, "Parse should succeed")
	require.Nil(t, doc, "a non tree building handler produces no document")

	require.Equal(t, []string{
		"start-document",
		`doctype a "" "a.dtd"`,
		`start-element a id="1"`,
		"start-element b",
		`characters "hi"`,
		"entity amp",
		"end-element b",
		`comment "c"`,
		"end-element a",
		`pi done "now"`,
		"end-document",
	}, sink.events)
}

func TestSAXSpansCoverStartTag(t *testing.T) {
	type record struct {
		span loc.Span
	}
	var got record

	p := NewParser()
	h := &spanProbe{onStart: func(e sax.ParsedElement) { got.span = e.Span() }}
	p.SetHandler(h)

	_, err := p.Parse([]byte(`<root attr="v">body</root>`))
	require.NoError(t, err)

	require.Equal(t, 0, got.span.Start.Offset)
	require.Equal(t, 15, got.span.Stop.Offset, "the element span covers the start tag only")
}

// spanProbe is an eventsink that also hands the parsed element to a
// callback.
type spanProbe struct {
	eventsink
	onStart func(sax.ParsedElement)
}

func (s *spanProbe) StartElement(ctx sax.Context, e sax.ParsedElement) error {
	s.onStart(e)
	return s.eventsink.StartElement(ctx, e)
}
