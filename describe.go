package datagrid

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable dump of the table: columns, the current
// view with its rows rendered through the contract's codec, the cursor and
// the undo history. Useful for debugging during development.
func (t *Table[R]) Describe() string {
	t.ensureView()
	cols := t.contract.Columns()
	vis := t.cols.visible()

	var b strings.Builder
	fmt.Fprintf(&b, "Table: %d rows, %d visible\n", t.store.len(), len(t.view.rows))

	b.WriteString("Columns:\n")
	for pos, col := range t.cols.order {
		fmt.Fprintf(&b, "  %d %s%s\n", pos, cols[col].Name, t.columnAttrs(col))
	}

	if len(vis) > 0 && len(t.view.rows) > 0 {
		b.WriteString("View:\n")
		for p, id := range t.view.rows {
			row, _ := t.store.get(id)
			cells := make([]string, len(vis))
			for i, col := range vis {
				cells[i] = t.contract.EncodeCell(col, t.contract.Cell(row, col))
			}
			fmt.Fprintf(&b, "  %d #%d %s\n", p+1, id, strings.Join(cells, " | "))
		}
	}

	b.WriteString("Cursor: ")
	switch c := t.publicCursor().(type) {
	case EditCursor:
		fmt.Fprintf(&b, "edit #%d %s buffer=%v", c.Row, cols[c.Column].Name, c.Buffer)
		if !c.Validated {
			b.WriteString(" (unvalidated)")
		}
	case SelectCursor:
		if len(c.Regions) == 0 {
			b.WriteString("select (none)")
			break
		}
		parts := make([]string, len(c.Regions))
		for i, r := range c.Regions {
			parts[i] = r.String()
		}
		fmt.Fprintf(&b, "select %s", strings.Join(parts, ","))
	}
	b.WriteByte('\n')

	entries, next := t.HistoryLen()
	fmt.Fprintf(&b, "History: %d/%d", next, entries)
	if t.editDirty {
		b.WriteString(" edited")
	}
	b.WriteByte('\n')
	return b.String()
}

// columnAttrs returns the display attributes of a column.
func (t *Table[R]) columnAttrs(col int) string {
	var parts []string
	if t.sort.active && t.sort.column == col {
		parts = append(parts, fmt.Sprintf("sort=%s", t.sort.direction))
	}
	if t.ColumnHidden(col) {
		parts = append(parts, "hidden")
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
