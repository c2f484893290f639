// Package tsv encodes and decodes tab-separated cell grids in the escaped
// form spreadsheet clipboards exchange.
//
// Inside a cell a tab, newline, carriage return or backslash is written as
// `\t`, `\n`, `\r` or `\\`; a backslash before a raw tab or newline is also
// read as that literal character. Unescaped tabs end a field and unescaped
// newlines end a row. A raw CRLF is accepted as a row delimiter; a lone raw
// CR is cell content. Any other backslash sequence decodes to itself, and a
// backslash at the very end of the input decodes to a literal backslash.
//
// Decoding then encoding reproduces the recognised escapes byte for byte.
// An unknown sequence such as `\x` decodes to the two characters `\x` and
// re-encodes as `\\x`, so it does not survive a round trip unchanged.
package tsv

import (
	"io"
	"strings"
)

// Span locates the raw (still escaped) bytes of one cell in the parsed text.
type Span struct {
	Start   int
	End     int
	Escaped bool // span contains at least one backslash
}

// Grid is a parsed TSV document. Cells are kept as byte spans into the
// source text and are only unescaped when read.
type Grid struct {
	src       string
	spans     []Span
	rowStarts []int // index into spans of each row's first cell
}

// Parse splits text into rows and fields. It never fails: malformed escapes
// are kept as literal text. The empty string parses to one row with one
// empty cell.
func Parse(text string) *Grid {
	g := &Grid{
		src:       text,
		spans:     make([]Span, 0, strings.Count(text, "\t")+strings.Count(text, "\n")+1),
		rowStarts: make([]int, 0, strings.Count(text, "\n")+1),
	}
	g.rowStarts = append(g.rowStarts, 0)

	start := 0
	escaped := false
	escEnd := -1 // index just past the most recent escape sequence
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			escaped = true
			if i+1 < len(text) {
				i++
			}
			escEnd = i + 1
		case '\t':
			g.spans = append(g.spans, Span{Start: start, End: i, Escaped: escaped})
			start, escaped = i+1, false
		case '\n':
			end := i
			if end > start && text[end-1] == '\r' && escEnd != end {
				end--
			}
			g.spans = append(g.spans, Span{Start: start, End: end, Escaped: escaped})
			g.rowStarts = append(g.rowStarts, len(g.spans))
			start, escaped = i+1, false
		}
	}
	g.spans = append(g.spans, Span{Start: start, End: len(text), Escaped: escaped})
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return len(g.rowStarts) }

// Cols returns the number of fields in row.
func (g *Grid) Cols(row int) int {
	if row < 0 || row >= len(g.rowStarts) {
		return 0
	}
	end := len(g.spans)
	if row+1 < len(g.rowStarts) {
		end = g.rowStarts[row+1]
	}
	return end - g.rowStarts[row]
}

// MaxCols returns the width of the widest row.
func (g *Grid) MaxCols() int {
	n := 0
	for r := range g.rowStarts {
		n = max(n, g.Cols(r))
	}
	return n
}

// Span returns the raw span of a cell. ok is false outside the grid.
func (g *Grid) Span(row, col int) (Span, bool) {
	if col < 0 || col >= g.Cols(row) {
		return Span{}, false
	}
	return g.spans[g.rowStarts[row]+col], true
}

// Raw returns the still-escaped text of a cell without allocating.
func (g *Grid) Raw(row, col int) string {
	sp, ok := g.Span(row, col)
	if !ok {
		return ""
	}
	return g.src[sp.Start:sp.End]
}

// Cell returns the decoded text of a cell, or "" outside the grid.
func (g *Grid) Cell(row, col int) string {
	sp, ok := g.Span(row, col)
	if !ok {
		return ""
	}
	raw := g.src[sp.Start:sp.End]
	if !sp.Escaped {
		return raw
	}
	return Unescape(raw)
}

// Strings materializes every decoded cell.
func (g *Grid) Strings() [][]string {
	out := make([][]string, g.Rows())
	for r := range out {
		row := make([]string, g.Cols(r))
		for c := range row {
			row[c] = g.Cell(r, c)
		}
		out[r] = row
	}
	return out
}

// Unescape decodes the escape sequences of a single raw cell.
func Unescape(raw string) string {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(raw) {
			b.WriteByte('\\')
			break
		}
		i++
		switch raw[i] {
		case 't', '\t':
			b.WriteByte('\t')
		case 'n', '\n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// Escape encodes a single cell value.
func Escape(s string) string {
	if !strings.ContainsAny(s, "\t\n\r\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	writeEscaped(&b, s)
	return b.String()
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
}

// Encode joins rows with newlines and fields with tabs, escaping every cell.
// There is no trailing delimiter. A row without cells encodes like a row
// holding one empty cell, so an empty grid and empty rows decode as [""].
// Every grid whose rows have at least one cell round-trips through Parse.
func Encode(rows [][]string) string {
	var b strings.Builder
	for r, row := range rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, cell := range row {
			if c > 0 {
				b.WriteByte('\t')
			}
			writeEscaped(&b, cell)
		}
	}
	return b.String()
}

// Write encodes rows to w.
func Write(w io.Writer, rows [][]string) error {
	_, err := io.WriteString(w, Encode(rows))
	return err
}
