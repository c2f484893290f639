package datagrid

import "fmt"

// UIGuard is exclusive access to a table's UI state for one rendering pass.
// While a guard is outstanding the table rejects every action and every
// direct mutation with ErrLent.
// Release returns the state; a released guard must not be used again.
type UIGuard[R any] struct {
	t        *Table[R]
	released bool
}

// Lend rebuilds the view cache if needed and lends the UI state to a
// renderer. Only one guard can be outstanding at a time.
func (t *Table[R]) Lend() (*UIGuard[R], error) {
	if err := t.checkLent("Lend"); err != nil {
		return nil, err
	}
	t.ensureView()
	t.lent = true
	return &UIGuard[R]{t: t}, nil
}

// Lent reports whether the UI state is currently lent out.
func (t *Table[R]) Lent() bool { return t.lent }

func (g *UIGuard[R]) check() {
	if g.released {
		panic("datagrid: use of released UI guard")
	}
}

// View returns the fresh view the guard was lent with.
func (g *UIGuard[R]) View() View {
	g.check()
	return g.t.View()
}

// Cursor returns the current cursor.
func (g *UIGuard[R]) Cursor() Cursor {
	g.check()
	return g.t.publicCursor()
}

// Row returns a row for rendering.
func (g *UIGuard[R]) Row(id RowID) (R, bool) {
	g.check()
	return g.t.store.get(id)
}

// Columns returns the column metadata of the visible columns in display
// order.
func (g *UIGuard[R]) Columns() []Column {
	g.check()
	all := g.t.contract.Columns()
	vis := g.t.cols.visible()
	out := make([]Column, len(vis))
	for i, c := range vis {
		out[i] = all[c]
	}
	return out
}

// SetRowHeight records a height measured by the renderer. It overrides the
// contract's height until it is reset with a value <= 0.
func (g *UIGuard[R]) SetRowHeight(id RowID, h float32) error {
	g.check()
	row, ok := g.t.store.get(id)
	if !ok {
		return fmt.Errorf("set row height: unknown row %d", id)
	}
	if h <= 0 {
		delete(g.t.heights, id)
	} else {
		g.t.heights[id] = h
	}
	if p, ok := g.t.view.pos[id]; ok && !g.t.cacheDirty {
		g.t.view.heights[p] = g.t.rowHeight(id, row)
	}
	return nil
}

// Release returns the UI state to the table. It is safe to call more than
// once.
func (g *UIGuard[R]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.t.lent = false
}
