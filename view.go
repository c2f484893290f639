package datagrid

import "slices"

type sortKey struct {
	column    int
	direction Direction
	active    bool
}

// viewCache is the derived, rebuildable index of visible rows. It is only
// meaningful while the table's cache-dirty flag is false.
type viewCache struct {
	rows    []RowID
	heights []float32
	pos     map[RowID]int
}

// columnState holds display order and visibility of data columns.
type columnState struct {
	order  []int
	hidden []bool
}

func newColumnState(n int) columnState {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return columnState{order: order, hidden: make([]bool, n)}
}

// visible returns data column indexes in display order, hidden ones omitted.
func (c columnState) visible() []int {
	out := make([]int, 0, len(c.order))
	for _, col := range c.order {
		if !c.hidden[col] {
			out = append(out, col)
		}
	}
	return out
}

func (c columnState) visibleCount() int {
	n := 0
	for _, h := range c.hidden {
		if !h {
			n++
		}
	}
	return n
}

// displayPos returns the visible position of a data column.
func (c columnState) displayPos(col int) (int, bool) {
	i := slices.Index(c.visible(), col)
	return i, i >= 0
}

func (c *columnState) move(from, to int) {
	col := c.order[from]
	c.order = slices.Delete(c.order, from, from+1)
	c.order = slices.Insert(c.order, to, col)
}

// View is a snapshot of the view cache for renderers. Rows holds the visible
// row identities in display order, Heights their rendering heights, and
// Columns the visible data columns in display order.
type View struct {
	Rows    []RowID
	Heights []float32
	Columns []int
	pos     map[RowID]int
}

// Len returns the number of visible rows.
func (v View) Len() int { return len(v.Rows) }

// Position returns the visible position of a row.
func (v View) Position(id RowID) (int, bool) {
	p, ok := v.pos[id]
	return p, ok
}

// View returns the current view, rebuilding the cache first when stale.
func (t *Table[R]) View() View {
	t.ensureView()
	return View{
		Rows:    slices.Clone(t.view.rows),
		Heights: slices.Clone(t.view.heights),
		Columns: t.cols.visible(),
		pos:     t.view.pos,
	}
}

// Rebuild forces a view cache rebuild and clears cache-dirty.
func (t *Table[R]) Rebuild() error {
	if err := t.checkLent("Rebuild"); err != nil {
		return err
	}
	t.rebuild()
	return nil
}

func (t *Table[R]) ensureView() {
	if t.cacheDirty {
		t.rebuild()
	}
}

// rebuild filters the store, sorts survivors by the active key with the
// store index as tiebreak, and re-resolves the selection against the new
// positions.
func (t *Table[R]) rebuild() {
	rows := t.store.rows
	idx := make([]int, 0, len(rows))
	for i, r := range rows {
		if t.filter == nil || t.filter(r) {
			idx = append(idx, i)
		}
	}

	if cmp := t.activeComparator(); cmp != nil {
		desc := t.sort.direction == Descending
		slices.SortFunc(idx, func(a, b int) int {
			c := cmp(rows[a], rows[b])
			if desc {
				c = -c
			}
			if c != 0 {
				return c
			}
			return a - b
		})
	}

	v := viewCache{
		rows:    make([]RowID, len(idx)),
		heights: make([]float32, len(idx)),
		pos:     make(map[RowID]int, len(idx)),
	}
	for p, i := range idx {
		id := t.store.ids[i]
		v.rows[p] = id
		v.heights[p] = t.rowHeight(id, rows[i])
		v.pos[id] = p
	}
	t.view = v
	t.cacheDirty = false

	if sel, ok := t.cursor.(selectState); ok {
		t.cursor = sel.normalize(&t.view, t.cols.visibleCount())
	}
}

func (t *Table[R]) activeComparator() Comparator[R] {
	if !t.sort.active {
		return nil
	}
	return t.contract.Comparator(t.sort.column)
}

func (t *Table[R]) rowHeight(id RowID, row R) float32 {
	if h, ok := t.heights[id]; ok {
		return h
	}
	if rh, ok := t.contract.(RowHeighter[R]); ok {
		if h := rh.RowHeight(row); h > 0 {
			return h
		}
	}
	return t.opts.defaultRowHeight
}
