package plist_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lestrrat-go/xylem"
	"github.com/lestrrat-go/xylem/plist"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	inputs := []plist.Value{
		plist.String("hello"),
		plist.String(""),
		plist.Bool(true),
		plist.Bool(false),
		plist.Integer(-42),
		plist.Real(3.25),
		plist.Data("Zm9vYmFy"),
		plist.Date("2003-01-02T03:04:05Z"),
		plist.Array{},
		plist.NewDict(),
		plist.Array{plist.Integer(1), plist.String("two")},
		plist.NewDict().
			Add("name", plist.String("xylem")).
			Add("fast", plist.Bool(true)).
			Add("deps", plist.Array{plist.String("strcursor")}),
	}

	for _, v := range inputs {
		var buf bytes.Buffer
		require.NoError(t, plist.Write(&buf, v), "Write should succeed for %#v", v)
		t.Logf("%s", buf.String())

		got, err := plist.Read(&buf)
		require.NoError(t, err, "Read should succeed for %#v", v)
		require.Equal(t, v, got, "round trip should preserve %#v", v)
	}
}

func TestWriteFormat(t *testing.T) {
	v := plist.NewDict().Add("a", plist.Bool(true))

	var buf bytes.Buffer
	require.NoError(t, plist.Write(&buf, v))

	const expected = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist SYSTEM "file://localhost/System/Library/DTDs/PropertyList.dtd">
<plist version="0.9"><dict><key>a</key><true/></dict></plist>
`
	require.Equal(t, expected, buf.String())
}

func TestReadWhitespaceTolerant(t *testing.T) {
	const input = `<plist version="0.9">
  <dict>
    <key>x</key>
    <integer>7</integer>
  </dict>
</plist>`

	v, err := plist.Read(strings.NewReader(input))
	require.NoError(t, err)

	d := v.(*plist.Dict)
	got, ok := d.Get("x")
	require.True(t, ok)
	require.Equal(t, plist.Integer(7), got)
}

func TestReadLegacyBareForm(t *testing.T) {
	v, err := plist.Read(strings.NewReader(`<dict><key>a</key><string>b</string></dict>`))
	require.NoError(t, err)

	d := v.(*plist.Dict)
	got, ok := d.Get("a")
	require.True(t, ok)
	require.Equal(t, plist.String("b"), got)
}

func TestReadEntities(t *testing.T) {
	v, err := plist.Read(strings.NewReader(`<plist version="0.9"><string>a&amp;b&#33;</string></plist>`))
	require.NoError(t, err)
	require.Equal(t, plist.String("a&b!"), v)
}

func TestDuplicateKeys(t *testing.T) {
	const input = `<plist version="0.9"><dict>` +
		`<key>k</key><string>first</string>` +
		`<key>k</key><string>second</string>` +
		`</dict></plist>`

	v, err := plist.Read(strings.NewReader(input))
	require.NoError(t, err, "duplicate keys are kept")

	d := v.(*plist.Dict)
	require.Equal(t, 2, d.Len())

	got, ok := d.Get("k")
	require.True(t, ok)
	require.Equal(t, plist.String("first"), got, "Get returns the first occurrence")
}

func TestDictOrder(t *testing.T) {
	d := plist.NewDict().
		Add("z", plist.Integer(1)).
		Add("a", plist.Integer(2))

	var keys []string
	d.Range(func(key string, _ plist.Value) bool {
		keys = append(keys, key)
		return true
	})
	require.Equal(t, []string{"z", "a"}, keys, "insertion order is preserved")
}

func TestReadMalformed(t *testing.T) {
	inputs := map[string]string{
		"key without value":   `<plist version="0.9"><dict><key>a</key></dict></plist>`,
		"key after key":       `<plist version="0.9"><dict><key>a</key><key>b</key><string>c</string><string>d</string></dict></plist>`,
		"value without key":   `<plist version="0.9"><dict><string>a</string><string>b</string></dict></plist>`,
		"unknown element":     `<plist version="0.9"><bogus/></plist>`,
		"text in dict":        `<plist version="0.9"><dict>loose text</dict></plist>`,
		"two values in plist": `<plist version="0.9"><string>a</string><string>b</string></plist>`,
		"empty plist":         `<plist version="0.9"></plist>`,
		"bad integer":         `<plist version="0.9"><integer>seven</integer></plist>`,
		"bad real":            `<plist version="0.9"><real>pi</real></plist>`,
		"bad root":            `<stuff/>`,
	}

	for name, input := range inputs {
		_, err := plist.Read(strings.NewReader(input))
		require.Error(t, err, "Read should fail: %s", name)

		var merr *plist.MalformedError
		require.ErrorAs(t, err, &merr, "error should be MalformedError: %s", name)
	}
}

func TestReadXMLError(t *testing.T) {
	_, err := plist.Read(strings.NewReader(`<plist version="0.9"><dict>`))
	require.Error(t, err)

	var rerr xylem.ReadError
	require.ErrorAs(t, err, &rerr, "XML level failures surface as read errors")
	require.Equal(t, xylem.KindUnexpectedEndOfStream, rerr.Kind)
}
