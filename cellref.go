package datagrid

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef addresses a cell of the current view: Row is a visible position
// and Col a visible column position, both 0-based.
type CellRef struct {
	Row int
	Col int
}

// ParseCellRef parses a reference like "B3" or "$B$3".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, err := NameToCol(s[:i])
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return CellRef{}, fmt.Errorf("invalid row in cell reference: %q", s)
	}
	return CellRef{Row: row - 1, Col: col}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formats the reference as "B3".
func (c CellRef) String() string {
	return ColToName(c.Col) + strconv.Itoa(c.Row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}

// Region is a rectangular selection span of the view. Anchor is the corner
// shift-extension pivots on; Focus is the opposite corner.
type Region struct {
	Anchor CellRef
	Focus  CellRef
}

// ParseRegion parses "A1:C5" or a single cell "B2".
func ParseRegion(s string) (Region, error) {
	first, last, found := strings.Cut(strings.TrimSpace(s), ":")
	a, err := ParseCellRef(first)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	if !found {
		return Region{Anchor: a, Focus: a}, nil
	}
	f, err := ParseCellRef(last)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	return Region{Anchor: a, Focus: f}, nil
}

// Bounds returns the inclusive normalized corners of the region.
func (r Region) Bounds() (top, left, bottom, right int) {
	return min(r.Anchor.Row, r.Focus.Row), min(r.Anchor.Col, r.Focus.Col),
		max(r.Anchor.Row, r.Focus.Row), max(r.Anchor.Col, r.Focus.Col)
}

// Size returns the region's height (rows) and width (columns).
func (r Region) Size() (rows, cols int) {
	top, left, bottom, right := r.Bounds()
	return bottom - top + 1, right - left + 1
}

// Contains reports whether the cell lies inside the region.
func (r Region) Contains(c CellRef) bool {
	top, left, bottom, right := r.Bounds()
	return c.Row >= top && c.Row <= bottom && c.Col >= left && c.Col <= right
}

// String formats the region as "A1:C5", or "B2" for a single cell.
func (r Region) String() string {
	top, left, bottom, right := r.Bounds()
	first := CellRef{Row: top, Col: left}
	if top == bottom && left == right {
		return first.String()
	}
	return first.String() + ":" + CellRef{Row: bottom, Col: right}.String()
}

// SafeSheetName sanitizes a string for use as an Excel sheet name.
// It replaces forbidden characters ([]*?/\:) with underscore and truncates to 31 chars.
func SafeSheetName(name string) string {
	runes := []rune(name)
	for i, r := range runes {
		if strings.ContainsRune(`/\:*?[]`, r) {
			runes[i] = '_'
		}
	}
	if len(runes) > 31 {
		runes = runes[:31]
	}
	if len(runes) == 0 {
		return "Sheet1"
	}
	return string(runes)
}
