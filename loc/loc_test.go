package loc_test

import (
	"testing"

	"github.com/lestrrat-go/xylem/loc"
	"github.com/stretchr/testify/require"
)

func TestLocationString(t *testing.T) {
	l := loc.New(3, 7, 42)
	require.Equal(t, "3.7/42", l.String())
	require.True(t, l.Known())
	require.False(t, l.IsSynthesized())
}

func TestUnknownLocation(t *testing.T) {
	var l loc.Location
	require.Equal(t, "(unknown)", l.String())
	require.False(t, l.Known())
	require.Equal(t, loc.Unknown(), l)
}

func TestSynthesizedLocation(t *testing.T) {
	l := loc.Synthesized()
	require.Equal(t, "(synthesized)", l.String())
	require.False(t, l.Known())
	require.True(t, l.IsSynthesized())
}

func TestSpanString(t *testing.T) {
	s := loc.NewSpan(loc.New(1, 1, 0), loc.New(1, 5, 4))
	require.Equal(t, "1.1/0-1.5/4", s.String())

	require.Equal(t, "(synthesized)-(synthesized)", loc.SynthesizedSpan().String())
}
