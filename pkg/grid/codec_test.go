package grid

import (
	"reflect"
	"testing"
)

func TestQuoteField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"has\ttab", "\"has\ttab\""},
		{"has\nnewline", "\"has\nnewline\""},
		{`has "quote"`, `"has ""quote"""`},
		{"\t", "\"\t\""},
	}
	for _, tt := range tests {
		if got := QuoteField(tt.in); got != tt.want {
			t.Errorf("QuoteField(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := UnquoteField(QuoteField(tt.in)); got != tt.in {
			t.Errorf("UnquoteField(QuoteField(%q)) = %q", tt.in, got)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		text string
	}{
		{
			name: "simple",
			rows: [][]string{{"a", "b"}, {"c", "d"}},
			text: "a\tb\nc\td",
		},
		{
			name: "embedded separator",
			rows: [][]string{{"a\tb", "c"}},
			text: "\"a\tb\"\tc",
		},
		{
			name: "embedded quotes",
			rows: [][]string{{`say "hi"`}},
			text: `"say ""hi"""`,
		},
		{
			name: "embedded newline",
			rows: [][]string{{"two\nlines", "x"}},
			text: "\"two\nlines\"\tx",
		},
		{
			name: "trailing empty field",
			rows: [][]string{{"a", ""}},
			text: "a\t",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.rows); got != tt.text {
				t.Errorf("Encode = %q, want %q", got, tt.text)
			}
			if got := Decode(tt.text); !reflect.DeepEqual(got, tt.rows) {
				t.Errorf("Decode(%q) = %v, want %v", tt.text, got, tt.rows)
			}
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{"empty", "", nil},
		{"ragged rows", "a\tb\nc", [][]string{{"a", "b"}, {"c"}}},
		{"crlf", "a\r\nb", [][]string{{"a"}, {"b"}}},
		{"lone separator", "\t", [][]string{{"", ""}}},
		{"quote mid-field is literal", `a"b`, [][]string{{`a"b`}}},
		{"unterminated quote runs out", `"abc`, [][]string{{"abc"}}},
		{"trailing newline adds no row", "a\n", [][]string{{"a"}}},
		{"leading empty row", "\nx", [][]string{{""}, {"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	g := New(0, 0)
	g.Set(Point{Row: 1, Col: 1}, "head")
	g.Set(Point{Row: 1, Col: 2}, "b")
	g.Set(Point{Row: 3, Col: 2}, "tab\there")

	text := g.Serialize(false)
	back := New(0, 0)
	back.LoadRows(Decode(text))

	if back.Len() != g.Len() {
		t.Fatalf("round trip lost cells: %d != %d", back.Len(), g.Len())
	}
	for _, c := range g.Cells() {
		if got := back.Get(c.Point); got != c.Text {
			t.Errorf("cell %v = %q, want %q", c.Point, got, c.Text)
		}
	}
}

func TestSerializeOmitOrigin(t *testing.T) {
	g := New(0, 0)
	g.Set(Point{Row: 1, Col: 1}, "^wrapper")
	g.Set(Point{Row: 2, Col: 1}, "x")

	text := g.Serialize(true)
	rows := Decode(text)
	if rows[0][0] != "" {
		t.Errorf("origin should be omitted, got %q", rows[0][0])
	}
	if rows[1][0] != "x" {
		t.Errorf("(2,1) = %q, want %q", rows[1][0], "x")
	}
}

func TestSerializeEmptyGrid(t *testing.T) {
	g := New(0, 0)
	if got := g.Serialize(false); got != "" {
		t.Errorf("empty grid serialized to %q", got)
	}
}
