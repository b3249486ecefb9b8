package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVertices(t *testing.T) {
	cases := []struct {
		name string
		segs []Segment
		want []Point
	}{
		{
			name: "relative_accumulates",
			segs: []Segment{{'m', 10, 10}, {'l', 5, 0}, {'l', 0, 5}},
			want: []Point{{10, 10}, {15, 10}, {15, 15}},
		},
		{
			name: "absolute_resets",
			segs: []Segment{{'m', 10, 10}, {'L', 0, 0}, {'l', 1, 1}},
			want: []Point{{10, 10}, {0, 0}, {1, 1}},
		},
		{
			name: "close_skipped",
			segs: []Segment{{'M', 1, 2}, {'z', 0, 0}, {'l', 1, 1}},
			want: []Point{{1, 2}, {2, 3}},
		},
		{
			name: "horizontal_vertical_keep_other_axis",
			segs: []Segment{{'M', 4, 6}, {'h', 3, 0}, {'V', 0, 1}, {'H', 0, 0}, {'v', 0, 2}},
			want: []Point{{4, 6}, {7, 6}, {7, 1}, {0, 1}, {0, 3}},
		},
		{
			name: "empty",
			segs: nil,
			want: []Point{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, Vertices(c.segs))
		})
	}
}

func TestVerticesFromPathData(t *testing.T) {
	segs, err := ParsePathData("M4 6 h3 V1 H0 v2")
	require.NoError(t, err)
	require.Equal(t, []Point{{4, 6}, {7, 6}, {7, 1}, {0, 1}, {0, 3}}, Vertices(segs))
}

func TestParsePathData(t *testing.T) {
	cases := []struct {
		name string
		d    string
		want []Segment
	}{
		{
			name: "implicit_lineto_after_moveto",
			d:    "m 10,20 5,0 0,5 z",
			want: []Segment{{'m', 10, 20}, {'l', 5, 0}, {'l', 0, 5}, {'z', 0, 0}},
		},
		{
			name: "absolute_implicit_lineto",
			d:    "M0 0 10 0",
			want: []Segment{{'M', 0, 0}, {'L', 10, 0}},
		},
		{
			name: "compact_signs_and_decimals",
			d:    "M1-2l.5.5",
			want: []Segment{{'M', 1, -2}, {'l', 0.5, 0.5}},
		},
		{
			name: "exponent",
			d:    "M1e2,2E-1",
			want: []Segment{{'M', 100, 0.2}},
		},
		{
			name: "curve_endpoint_only",
			d:    "M0,0 c 1,1 2,2 3,4",
			want: []Segment{{'M', 0, 0}, {'c', 3, 4}},
		},
		{
			name: "arc_compact_flags",
			d:    "M0 0 a25,25 -30 0,1 50,-25 A5 5 0 1150 60",
			want: []Segment{{'M', 0, 0}, {'a', 50, -25}, {'A', 50, 60}},
		},
		{
			name: "horizontal_vertical",
			d:    "M0 0 H10 v5",
			want: []Segment{{'M', 0, 0}, {'H', 10, 0}, {'v', 0, 5}},
		},
		{
			name: "empty",
			d:    "   ",
			want: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParsePathData(c.d)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestParsePathDataErrors(t *testing.T) {
	cases := []struct {
		name string
		d    string
		want string
	}{
		{"number_before_command", "10 10", "expected command at offset 0"},
		{"truncated_pair", "M 10", "malformed number at offset 4"},
		{"garbage", "M 10 x", "malformed number at offset 5"},
		{"number_after_close", "M0 0 z 4", "unexpected number after close"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParsePathData(c.d)
			require.Error(t, err)
			require.Contains(t, err.Error(), c.want)
		})
	}
}

func TestParseTranslate(t *testing.T) {
	cases := []struct {
		name string
		attr string
		want Point
	}{
		{"comma", "translate(10, 20)", Point{10, 20}},
		{"space", "translate(-3.5 4)", Point{-3.5, 4}},
		{"x_only", "translate(7)", Point{7, 0}},
		{"with_other_functions", "rotate(45) translate(1,2) scale(2)", Point{1, 2}},
		{"missing", "", Point{}},
		{"no_translate", "scale(2)", Point{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, ParseTranslate(c.attr))
		})
	}
}

const sampleDoc = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" width="800px" height="600">
  <g id="crate" transform="translate(5, 6)">
    <g id="inner">
      <rect id="lid" x="0" y="0" width="4" height="2"/>
    </g>
    <path id="side" d="m 0,0 10,0 0,10 z" inkscape:label="side">
      <desc>fixed: true</desc>
    </path>
  </g>
</svg>`

func TestParseDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	require.Equal(t, 800.0, doc.Width())
	require.Equal(t, 600.0, doc.Height())

	groups := doc.Elements("g")
	require.Len(t, groups, 2)
	require.Equal(t, "crate", groups[0].ID())
	require.Equal(t, "inner", groups[1].ID())
	require.Equal(t, Point{5, 6}, groups[0].Translate())

	rects := doc.Elements("rect")
	require.Len(t, rects, 1)
	require.Equal(t, "inner", rects[0].Group().ID())
	require.Equal(t, 4.0, rects[0].Number("width"))

	paths := doc.Elements("path")
	require.Len(t, paths, 1)
	require.Equal(t, "crate", paths[0].Group().ID())
	_, namespaced := paths[0].Attrs["label"]
	require.False(t, namespaced)

	desc, ok := paths[0].Description()
	require.True(t, ok)
	require.Equal(t, "fixed: true", desc)

	_, ok = rects[0].Description()
	require.False(t, ok)

	segs, err := paths[0].PathData()
	require.NoError(t, err)
	require.Len(t, segs, 4)
}

func TestParseDocumentErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"wrong_root", "<html></html>"},
		{"truncated", "<svg><g>"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(c.src))
			require.Error(t, err)
		})
	}
}

func TestLeadingNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"100px", 100},
		{" 12.5em", 12.5},
		{"abc", 0},
		{"", 0},
		{"-3", -3},
		{"1e2", 100},
		{"3em", 3},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			require.Equal(t, c.want, leadingNumber(c.in))
		})
	}
}
