package grid

import (
	"strings"
)

// Serialization characters. Fields are separated by tabs, records by
// newlines, and fields containing a separator, quote, or newline are wrapped
// in double quotes with embedded quotes doubled (RFC 4180 style, with a tab
// separator).
const (
	FieldSep  = '\t'
	RecordSep = '\n'
	Quote     = '"'
)

// NeedsQuoting reports whether a field must be quoted before it can be
// embedded in serialized grid text.
func NeedsQuoting(field string) bool {
	return strings.ContainsAny(field, "\t\n\r\"")
}

// QuoteField returns the field in serialized form: unchanged when it
// contains no separator, quote, or newline, otherwise wrapped in quotes with
// every embedded quote doubled.
func QuoteField(field string) string {
	if !NeedsQuoting(field) {
		return field
	}
	var b strings.Builder
	b.Grow(len(field) + 2)
	b.WriteByte(Quote)
	for i := 0; i < len(field); i++ {
		if field[i] == Quote {
			b.WriteByte(Quote)
		}
		b.WriteByte(field[i])
	}
	b.WriteByte(Quote)
	return b.String()
}

// UnquoteField reverses QuoteField: if the field is wrapped in quotes the
// wrapper is removed and doubled quotes collapse to one. Unquoted fields are
// returned unchanged, as are malformed ones (no trailing quote).
func UnquoteField(field string) string {
	if len(field) < 2 || field[0] != Quote || field[len(field)-1] != Quote {
		return field
	}
	inner := field[1 : len(field)-1]
	return strings.ReplaceAll(inner, `""`, `"`)
}

// Encode serializes a row/column dataset to delimited text. Every field is
// quoted as needed; rows are joined by newlines with no trailing newline.
func Encode(rows [][]string) string {
	var b strings.Builder
	for r, row := range rows {
		if r > 0 {
			b.WriteByte(RecordSep)
		}
		for c, field := range row {
			if c > 0 {
				b.WriteByte(FieldSep)
			}
			b.WriteString(QuoteField(field))
		}
	}
	return b.String()
}

// Decode parses delimited text into a row/column dataset. The parser is
// lenient: ragged rows are returned as-is (callers treat missing fields as
// empty), an unterminated quote runs to end of input, and a quote appearing
// mid-field is literal text. Decode of the empty string returns nil.
func Decode(text string) [][]string {
	if text == "" {
		return nil
	}
	var (
		rows    [][]string
		row     []string
		field   strings.Builder
		inQuote bool
		atStart = true // field builder is at the start of a new field
	)
	endField := func() {
		row = append(row, field.String())
		field.Reset()
		atStart = true
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuote {
			if c == Quote {
				if i+1 < len(text) && text[i+1] == Quote {
					field.WriteByte(Quote)
					i++
					continue
				}
				inQuote = false
				continue
			}
			field.WriteByte(c)
			continue
		}
		switch c {
		case Quote:
			if atStart {
				inQuote = true
				atStart = false
			} else {
				field.WriteByte(c)
			}
		case FieldSep:
			endField()
		case RecordSep:
			endRow()
		case '\r':
			// Tolerate CRLF; a lone CR also terminates the record.
			if i+1 < len(text) && text[i+1] == RecordSep {
				i++
			}
			endRow()
		default:
			field.WriteByte(c)
			atStart = false
		}
	}
	if field.Len() > 0 || len(row) > 0 || !atStart {
		endRow()
	} else if len(rows) == 0 {
		// Input consisted of a single terminator.
		rows = append(rows, []string{""})
	}
	return rows
}

// Rows converts the grid's filled cells into a rectangular-enough dataset
// covering rows 1..maxRow. Each row is trimmed after its last filled cell;
// fully empty rows appear as single empty fields so row indices survive a
// round trip. skip, when valid, is emitted as an empty field regardless of
// its stored text.
func (g *Grid) Rows(skip Point) [][]string {
	maxRow, _ := g.UsedBounds()
	rows := make([][]string, 0, maxRow)
	for r := 1; r <= maxRow; r++ {
		last := 0
		for p := range g.cells {
			if p.Row == r && p != skip && p.Col > last {
				last = p.Col
			}
		}
		row := make([]string, max(last, 1))
		for c := 1; c <= last; c++ {
			p := Point{Row: r, Col: c}
			if p == skip {
				continue
			}
			row[c-1] = g.cells[p]
		}
		rows = append(rows, row)
	}
	return rows
}

// Serialize encodes the entire grid to delimited text. When omitOrigin is
// true the (1, 1) cell is emitted as an empty field; the nesting protocol
// uses this to keep wrapper text out of ancestor snapshots. An empty grid
// serializes to the empty string.
func (g *Grid) Serialize(omitOrigin bool) string {
	if len(g.cells) == 0 {
		return ""
	}
	skip := Point{}
	if omitOrigin {
		skip = Point{Row: 1, Col: 1}
	}
	return Encode(g.Rows(skip))
}
