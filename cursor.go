package datagrid

import "slices"

// SelectMode selects how UpdateSelection changes the regions.
type SelectMode int

const (
	SelectReplace SelectMode = iota // single-cell region replaces all regions
	SelectExtend                    // grow or shrink the last region from its anchor
	SelectAdd                       // append a disjoint single-cell region
	SelectAll                       // one region spanning the whole view
	SelectNone                      // clear all regions
)

func (m SelectMode) String() string {
	switch m {
	case SelectReplace:
		return "replace"
	case SelectExtend:
		return "extend"
	case SelectAdd:
		return "add"
	case SelectAll:
		return "all"
	case SelectNone:
		return "none"
	default:
		return "unknown"
	}
}

// Cursor is the interaction state: either a SelectCursor or an EditCursor,
// never both.
type Cursor interface {
	isCursor()
}

// SelectCursor holds the selected regions in view coordinates.
type SelectCursor struct {
	Regions []Region
}

// EditCursor is a single cell being edited. Column is a data column index.
// Buffer holds the in-progress value; Validated reports whether the buffer
// passed the contract's checks.
type EditCursor struct {
	Row       RowID
	Column    int
	Buffer    any
	Validated bool
}

func (SelectCursor) isCursor() {}
func (EditCursor) isCursor()   {}

// cursorState is the internal form of Cursor. Selections are held by row
// identity so they survive re-sorting.
type cursorState interface {
	clone() cursorState
}

type selectState struct {
	regions []selRegion
}

// selRegion is a selection rectangle by identity: rows lists the selected
// rows in view order; anchor and focus are the corner rows; the columns are
// visible column positions.
type selRegion struct {
	rows      []RowID
	anchor    RowID
	focus     RowID
	anchorCol int
	focusCol  int
}

func (s selectState) clone() cursorState {
	return selectState{regions: slices.Clone(s.regions)}
}

func (e EditCursor) clone() cursorState { return e }

func (s selectState) rowIDs() []RowID {
	var ids []RowID
	seen := make(map[RowID]bool)
	for _, r := range s.regions {
		for _, id := range r.rows {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// normalize drops rows no longer visible and splits regions whose rows are
// no longer contiguous in the view, so every region is a true rectangle.
func (s selectState) normalize(v *viewCache, ncols int) selectState {
	var out []selRegion
	if ncols == 0 {
		return selectState{}
	}
	for _, r := range s.regions {
		ac, fc := min(r.anchorCol, ncols-1), min(r.focusCol, ncols-1)
		ps := make([]int, 0, len(r.rows))
		for _, id := range r.rows {
			if p, ok := v.pos[id]; ok {
				ps = append(ps, p)
			}
		}
		if len(ps) == 0 {
			continue
		}
		slices.Sort(ps)
		ps = slices.Compact(ps)

		start := 0
		for i := 1; i <= len(ps); i++ {
			if i < len(ps) && ps[i] == ps[i-1]+1 {
				continue
			}
			ids := slices.Clone(v.rows[ps[start] : ps[i-1]+1])
			first, last := ids[0], ids[len(ids)-1]
			run := selRegion{rows: ids, anchor: first, focus: last, anchorCol: ac, focusCol: fc}
			if r.anchor == last && first != last {
				run.anchor, run.focus = last, first
			}
			out = append(out, run)
			start = i
		}
	}
	return selectState{regions: out}
}

// resolve maps the identity regions onto view coordinates. The view must be
// fresh.
func (s selectState) resolve(v *viewCache, ncols int) []Region {
	out := make([]Region, 0, len(s.regions))
	for _, r := range s.regions {
		ap, aok := v.pos[r.anchor]
		fp, fok := v.pos[r.focus]
		if !aok || !fok || ncols == 0 {
			continue
		}
		out = append(out, Region{
			Anchor: CellRef{Row: ap, Col: min(r.anchorCol, ncols-1)},
			Focus:  CellRef{Row: fp, Col: min(r.focusCol, ncols-1)},
		})
	}
	return out
}

func cellRegion(id RowID, col int) selRegion {
	return selRegion{rows: []RowID{id}, anchor: id, focus: id, anchorCol: col, focusCol: col}
}

// spanRegion builds a region over view rows [top, bottom] and columns
// [left, right]; the anchor is the top-left corner.
func spanRegion(v *viewCache, top, bottom, left, right int) selRegion {
	ids := slices.Clone(v.rows[top : bottom+1])
	return selRegion{rows: ids, anchor: ids[0], focus: ids[len(ids)-1], anchorCol: left, focusCol: right}
}

// Cursor returns the current cursor with selections resolved against a
// fresh view.
func (t *Table[R]) Cursor() Cursor {
	t.ensureView()
	return t.publicCursor()
}

func (t *Table[R]) publicCursor() Cursor {
	switch c := t.cursor.(type) {
	case EditCursor:
		return c
	case selectState:
		return SelectCursor{Regions: c.resolve(&t.view, t.cols.visibleCount())}
	}
	return SelectCursor{}
}

// Editing reports whether a cell is being edited.
func (t *Table[R]) Editing() bool {
	_, ok := t.cursor.(EditCursor)
	return ok
}

// cellSelection selects the single cell holding a data column of a row, or
// the row's first visible column when that column is hidden. With selection
// switched off it is empty.
func (t *Table[R]) cellSelection(id RowID, col int) selectState {
	if t.noSelect {
		return selectState{}
	}
	p, _ := t.cols.displayPos(col)
	return selectState{regions: []selRegion{cellRegion(id, max(p, 0))}}
}

// selectAll spans every visible row and column. Read-only rows are left
// out, splitting the selection into one region per run of selectable rows.
func (t *Table[R]) selectAll(ncols int) selectState {
	var all selectState
	if ncols == 0 {
		return all
	}
	start := -1
	for p := 0; p <= len(t.view.rows); p++ {
		open := p < len(t.view.rows)
		if open {
			row, _ := t.store.get(t.view.rows[p])
			open = !t.readOnly(row)
		}
		switch {
		case open && start < 0:
			start = p
		case !open && start >= 0:
			all.regions = append(all.regions, spanRegion(&t.view, start, p-1, 0, ncols-1))
			start = -1
		}
	}
	return all
}

func (t *Table[R]) updateSelection(a UpdateSelection) (Result, error) {
	sel, ok := t.cursor.(selectState)
	if !ok {
		return Result{}, invalidState(a, "selection cannot change while editing")
	}
	if t.noSelect {
		return Result{}, invalidState(a, "selection is disabled")
	}
	t.ensureView()
	nrows, ncols := len(t.view.rows), t.cols.visibleCount()

	switch a.Mode {
	case SelectNone:
		t.cursor = selectState{}
		return Result{Changed: true}, nil
	case SelectAll:
		t.cursor = t.selectAll(ncols)
		return Result{Changed: true}, nil
	}

	if a.Row < 0 || a.Row >= nrows || a.Col < 0 || a.Col >= ncols {
		return Result{}, invalidState(a, "cell %s outside view (%d rows, %d columns)",
			CellRef{Row: a.Row, Col: a.Col}, nrows, ncols)
	}
	id := t.view.rows[a.Row]

	switch a.Mode {
	case SelectReplace:
		t.cursor = selectState{regions: []selRegion{cellRegion(id, a.Col)}}
	case SelectAdd:
		regions := append(slices.Clone(sel.regions), cellRegion(id, a.Col))
		t.cursor = selectState{regions: regions}
	case SelectExtend:
		last := len(sel.regions) - 1
		if last < 0 {
			t.cursor = selectState{regions: []selRegion{cellRegion(id, a.Col)}}
			break
		}
		r := sel.regions[last]
		ap, ok := t.view.pos[r.anchor]
		if !ok {
			t.cursor = selectState{regions: []selRegion{cellRegion(id, a.Col)}}
			break
		}
		top, bottom := min(ap, a.Row), max(ap, a.Row)
		next := selRegion{
			rows:      slices.Clone(t.view.rows[top : bottom+1]),
			anchor:    r.anchor,
			focus:     id,
			anchorCol: r.anchorCol,
			focusCol:  a.Col,
		}
		regions := slices.Clone(sel.regions)
		regions[last] = next
		t.cursor = selectState{regions: regions}
	default:
		return Result{}, invalidState(a, "unknown selection mode %d", a.Mode)
	}
	return Result{Changed: true}, nil
}
