package datagrid

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/javajack/datagrid/tsv"
)

// Record is a row of plain text cells, one per column.
type Record []string

// RecordContract is a ready-made Contract for Record rows. Typed columns
// sort by value and only accept text that parses as their type; text
// columns sort lexically. An empty cell is valid in every column.
type RecordContract struct {
	cols       []Column
	lineHeight float32
	readOnly   func(Record) bool
}

// NewRecordContract creates a contract over the given columns.
func NewRecordContract(cols ...Column) *RecordContract {
	return &RecordContract{cols: cols}
}

func (c *RecordContract) Columns() []Column { return c.cols }

// AutoRowHeight makes rows holding multi-line cells report lineHeight per
// line. Single-line rows keep the table default. Zero turns it off.
func (c *RecordContract) AutoRowHeight(lineHeight float32) *RecordContract {
	c.lineHeight = lineHeight
	return c
}

// ReadOnlyWhen marks the records matching pred as read-only. A nil pred
// makes every record editable.
func (c *RecordContract) ReadOnlyWhen(pred func(Record) bool) *RecordContract {
	c.readOnly = pred
	return c
}

func (c *RecordContract) ReadOnly(row Record) bool {
	return c.readOnly != nil && c.readOnly(row)
}

func (c *RecordContract) RowHeight(row Record) float32 {
	if c.lineHeight <= 0 {
		return 0
	}
	lines := 1
	for _, cell := range row {
		lines = max(lines, strings.Count(cell, "\n")+1)
	}
	if lines == 1 {
		return 0
	}
	return float32(lines) * c.lineHeight
}

// Index returns the data index of the named column, or -1.
func (c *RecordContract) Index(name string) int {
	for i, col := range c.cols {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}

func (c *RecordContract) Cell(row Record, col int) any {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// SetCell returns a copy of row with col replaced, padding short records.
func (c *RecordContract) SetCell(row Record, col int, value any) Record {
	out := make(Record, max(len(row), col+1, len(c.cols)))
	copy(out, row)
	out[col] = fmt.Sprint(value)
	return out
}

func (c *RecordContract) Comparator(col int) Comparator[Record] {
	if col < 0 || col >= len(c.cols) {
		return nil
	}
	switch c.cols[col].Type {
	case TypeInteger, TypeReal:
		return func(a, b Record) int {
			return compareValues(parseNumber(cellText(a, col)), parseNumber(cellText(b, col)))
		}
	case TypeBoolean:
		return func(a, b Record) int {
			return boolRank(cellText(a, col)) - boolRank(cellText(b, col))
		}
	}
	return func(a, b Record) int {
		return strings.Compare(cellText(a, col), cellText(b, col))
	}
}

func (c *RecordContract) EncodeCell(col int, value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func (c *RecordContract) DecodeCell(col int, text string) (any, error) {
	if col >= 0 && col < len(c.cols) && !validText(c.cols[col].Type, text) {
		return nil, fmt.Errorf("column %s: %q is not %s", c.cols[col].Name, text, article(c.cols[col].Type))
	}
	return text, nil
}

func (c *RecordContract) Accepts(_ Record, col int, value any) bool {
	s, ok := value.(string)
	if !ok || col < 0 || col >= len(c.cols) {
		return false
	}
	return validText(c.cols[col].Type, s)
}

// ValidateInsert rejects records whose width differs from the column set.
func (c *RecordContract) ValidateInsert(row Record) error {
	if len(row) != len(c.cols) {
		return fmt.Errorf("%d cells for %d columns", len(row), len(c.cols))
	}
	return nil
}

func validText(typ ColumnType, s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	switch typ {
	case TypeInteger:
		f, ok := toNumber(s)
		return ok && f == math.Trunc(f)
	case TypeReal:
		_, ok := toNumber(s)
		return ok
	case TypeBoolean:
		_, ok := toBool(s)
		return ok
	}
	return true
}

func article(typ ColumnType) string {
	switch typ {
	case TypeInteger:
		return "an integer"
	case TypeReal:
		return "a number"
	case TypeBoolean:
		return "a boolean"
	}
	return "text"
}

// Env returns the row as an expression environment: every column by name,
// numeric columns as float64, boolean columns as bool, plus the whole row
// under "row".
func (c *RecordContract) Env(row Record) map[string]any {
	env := make(map[string]any, len(c.cols)+1)
	fields := make(map[string]any, len(c.cols))
	for i, col := range c.cols {
		var v any = cellText(row, i)
		switch col.Type {
		case TypeInteger, TypeReal:
			v = parseNumber(cellText(row, i))
		case TypeBoolean:
			v, _ = toBool(cellText(row, i))
		}
		env[col.Name] = v
		fields[col.Name] = v
	}
	env["row"] = fields
	return env
}

// RecordsFromTSV parses TSV text whose first row is a header. A column with
// at least one value is typed by what all its non-empty values parse as:
// integer, then real, then boolean, falling back to text.
func RecordsFromTSV(text string) (*RecordContract, []Record) {
	if t, ok := strings.CutSuffix(text, "\r\n"); ok {
		text = t
	} else {
		text = strings.TrimSuffix(text, "\n")
	}
	g := tsv.Parse(text)
	all := g.Strings()
	width := g.MaxCols()

	cols := make([]Column, width)
	for i := range cols {
		cols[i].Name = ColToName(i)
		if len(all[0]) > i && all[0][i] != "" {
			cols[i].Name = all[0][i]
		}
	}

	rows := make([]Record, 0, len(all)-1)
	for _, r := range all[1:] {
		rec := make(Record, width)
		copy(rec, r)
		rows = append(rows, rec)
	}

	for i := range cols {
		cols[i].Type = inferType(rows, i)
	}
	return NewRecordContract(cols...), rows
}

// RecordsToTSV renders a header row and the records as TSV.
func RecordsToTSV(c *RecordContract, rows []Record) string {
	out := make([][]string, 0, len(rows)+1)
	header := make([]string, len(c.cols))
	for i, col := range c.cols {
		header[i] = col.Name
	}
	out = append(out, header)
	for _, r := range rows {
		out = append(out, []string(r))
	}
	return tsv.Encode(out)
}

func inferType(rows []Record, col int) ColumnType {
	seen := false
	candidates := []ColumnType{TypeInteger, TypeReal, TypeBoolean}
	for _, r := range rows {
		v := r[col]
		if strings.TrimSpace(v) == "" {
			continue
		}
		seen = true
		candidates = slices.DeleteFunc(candidates, func(typ ColumnType) bool {
			return !validText(typ, v)
		})
		if len(candidates) == 0 {
			return TypeText
		}
	}
	if !seen {
		return TypeText
	}
	return candidates[0]
}

func cellText(row Record, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// toNumber parses a cell as a number, ignoring surrounding space, a
// leading currency sign and thousands separators.
func toNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toBool parses true, false, 1 or 0 in any case.
func toBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

// boolRank orders empty cells before false before true.
func boolRank(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	b, _ := toBool(s)
	if b {
		return 2
	}
	return 1
}

// parseNumber is toNumber with unparseable text counting as zero.
func parseNumber(s string) float64 {
	f, _ := toNumber(s)
	return f
}

// compareValues orders two cell values. nil sorts first, numbers compare
// numerically and everything else by its formatted text.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	fa, aOk := toFloat64(a)
	fb, bOk := toFloat64(b)
	if aOk && bOk {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// CompareValues exposes the cell ordering used by RecordContract for
// contracts whose cells hold plain Go values.
func CompareValues(a, b any) int { return compareValues(a, b) }

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
