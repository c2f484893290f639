package datagrid

import (
	"fmt"
	"reflect"
	"slices"
)

// Table owns the rows of one data table together with its UI state: view
// cache, cursor, undo history and copy buffer. Every mutation goes through
// Submit. A Table is not safe for concurrent use.
type Table[R any] struct {
	contract Contract[R]
	opts     *Options
	store    *rowStore[R]

	filter  Filter[R]
	sort    sortKey
	cols    columnState
	view    viewCache
	heights map[RowID]float32

	cursor cursorState
	hist   history[R]
	clip   clipboardSlab

	cacheDirty bool
	editDirty  bool
	lent       bool
	noEdit     bool
	noSelect   bool
	applied    effect // effects raised by the action being submitted
}

// New creates a table over rows. The slice is copied; rows receive fresh
// identities in slice order.
func New[R any](contract Contract[R], rows []R, opts ...Option) *Table[R] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	n := len(contract.Columns())
	t := &Table[R]{
		contract:   contract,
		opts:       o,
		store:      newRowStore(rows),
		cols:       newColumnState(n),
		heights:    make(map[RowID]float32),
		cursor:     selectState{},
		hist:       history[R]{limit: o.historyLimit},
		cacheDirty: true,
		noEdit:     !o.editing,
		noSelect:   !o.selection,
	}
	if o.sorted && o.sortColumn >= 0 && o.sortColumn < n && contract.Comparator(o.sortColumn) != nil {
		t.sort = sortKey{column: o.sortColumn, direction: o.sortDirection, active: true}
	}
	return t
}

// Contract returns the table's row contract.
func (t *Table[R]) Contract() Contract[R] { return t.contract }

// Len returns the number of rows in the store, visible or not.
func (t *Table[R]) Len() int { return t.store.len() }

// Rows returns a copy of every row in store order.
func (t *Table[R]) Rows() []R { return slices.Clone(t.store.rows) }

// IDs returns a copy of every row identity in store order.
func (t *Table[R]) IDs() []RowID { return slices.Clone(t.store.ids) }

// Row returns the row with the given identity.
func (t *Table[R]) Row(id RowID) (R, bool) { return t.store.get(id) }

// RowAt returns the row at a visible position.
func (t *Table[R]) RowAt(pos int) (RowID, R, bool) {
	t.ensureView()
	if pos < 0 || pos >= len(t.view.rows) {
		var zero R
		return 0, zero, false
	}
	id := t.view.rows[pos]
	row, _ := t.store.get(id)
	return id, row, true
}

// CacheDirty reports whether the view cache is stale.
func (t *Table[R]) CacheDirty() bool { return t.cacheDirty }

// EditDirty reports whether a user edit happened since ClearEditDirty.
func (t *Table[R]) EditDirty() bool { return t.editDirty }

// ClearEditDirty resets the edit-dirty flag, typically after the caller
// persisted the rows.
func (t *Table[R]) ClearEditDirty() error {
	if err := t.checkLent("ClearEditDirty"); err != nil {
		return err
	}
	t.editDirty = false
	return nil
}

// checkLent rejects a direct table operation while the UI state is lent.
func (t *Table[R]) checkLent(op string) error {
	if t.lent {
		return rejectOp(RejectLent, op, ErrLent)
	}
	return nil
}

// SetFilter replaces the filter predicate; nil shows every row. Filtering is
// view state and is not recorded for undo.
func (t *Table[R]) SetFilter(f Filter[R]) error {
	if err := t.checkLent("SetFilter"); err != nil {
		return err
	}
	t.filter = f
	t.cacheDirty = true
	return nil
}

// Editable reports whether cells can be edited and pasted into.
func (t *Table[R]) Editable() bool { return !t.noEdit }

// SetEditing switches cell editing on or off. Switching it off abandons an
// in-progress edit.
func (t *Table[R]) SetEditing(allow bool) error {
	if err := t.checkLent("SetEditing"); err != nil {
		return err
	}
	t.noEdit = !allow
	if e, ok := t.cursor.(EditCursor); ok && !allow {
		t.cursor = t.cellSelection(e.Row, e.Column)
	}
	return nil
}

// Selectable reports whether the selection can be changed.
func (t *Table[R]) Selectable() bool { return !t.noSelect }

// SetSelection switches selection on or off. Switching it off clears the
// current selection.
func (t *Table[R]) SetSelection(allow bool) error {
	if err := t.checkLent("SetSelection"); err != nil {
		return err
	}
	t.noSelect = !allow
	if _, ok := t.cursor.(selectState); ok && !allow {
		t.cursor = selectState{}
	}
	return nil
}

// Sort returns the active sort key.
func (t *Table[R]) Sort() (col int, dir Direction, ok bool) {
	return t.sort.column, t.sort.direction, t.sort.active
}

// VisibleColumns returns the visible data columns in display order.
func (t *Table[R]) VisibleColumns() []int { return t.cols.visible() }

// ColumnOrder returns every data column in display order, hidden included.
func (t *Table[R]) ColumnOrder() []int { return slices.Clone(t.cols.order) }

// ColumnHidden reports whether a data column is hidden.
func (t *Table[R]) ColumnHidden(col int) bool {
	return col >= 0 && col < len(t.cols.hidden) && t.cols.hidden[col]
}

// Submit validates and applies one action. A rejected action returns a
// *RejectionError and leaves the table untouched. Undo and Redo with nothing
// to undo or redo succeed without changing anything.
func (t *Table[R]) Submit(a Action) (Result, error) {
	if a == nil {
		return Result{}, &RejectionError{Kind: RejectInvalidState, Action: "<nil>", Err: fmt.Errorf("nil action")}
	}
	if t.lent {
		err := &RejectionError{Kind: RejectLent, Action: a.Name(), Err: ErrLent}
		t.notifyReject(a, err)
		return Result{}, err
	}

	t.applied = 0
	res, err := t.dispatch(a)
	if err != nil {
		t.notifyReject(a, err)
		return Result{}, err
	}
	if len(t.opts.listeners) > 0 {
		ev := Event{
			Action:      a.Name(),
			Recorded:    res.Recorded,
			Changed:     res.Changed,
			UserEdit:    t.applied&effectEdit != 0,
			ViewChanged: t.applied&effectView != 0,
			Skipped:     res.Skipped,
		}
		for _, l := range t.opts.listeners {
			l.AfterApply(ev)
		}
	}
	return res, nil
}

func (t *Table[R]) notifyReject(a Action, err error) {
	for _, l := range t.opts.listeners {
		l.AfterReject(a.Name(), err)
	}
}

func (t *Table[R]) dispatch(a Action) (Result, error) {
	switch a := a.(type) {
	case Undo:
		return t.undo(), nil
	case Redo:
		return t.redo(), nil
	case SetSort:
		return t.setSort(a, a.Column, a.Direction)
	case ToggleSort:
		dir := Ascending
		if t.sort.active && t.sort.column == a.Column {
			dir = t.sort.direction.Reverse()
		}
		return t.setSort(a, a.Column, dir)
	case ClearSort:
		if !t.sort.active {
			return Result{}, nil
		}
		return t.execute(setSortCmd[R]{}, t.cursor.clone(), nil), nil
	case ToggleColumnVisibility:
		return t.toggleColumn(a)
	case ReorderColumn:
		return t.reorderColumn(a)
	case SetCellValue:
		return t.setCellValue(a)
	case InsertRows[R]:
		return t.insertRows(a)
	case DeleteRows:
		return t.deleteRows(a)
	case BeginEdit:
		return t.beginEdit(a)
	case UpdateEdit:
		return t.updateEdit(a)
	case CommitEdit:
		return t.commitEdit(a)
	case CancelEdit:
		e, ok := t.cursor.(EditCursor)
		if !ok {
			return Result{}, invalidState(a, "no edit in progress")
		}
		t.cursor = t.cellSelection(e.Row, e.Column)
		return Result{Changed: true}, nil
	case UpdateSelection:
		return t.updateSelection(a)
	case Paste:
		return t.paste(a)
	default:
		return Result{}, invalidState(a, "unsupported action %T", a)
	}
}

func (t *Table[R]) checkColumn(a Action, col int) error {
	if col < 0 || col >= len(t.cols.order) {
		return invalidState(a, "column %d out of range [0,%d)", col, len(t.cols.order))
	}
	return nil
}

func (t *Table[R]) setSort(a Action, col int, dir Direction) (Result, error) {
	if err := t.checkColumn(a, col); err != nil {
		return Result{}, err
	}
	if t.contract.Comparator(col) == nil {
		return Result{}, contractRejected(a, fmt.Errorf("column %d is not sortable", col))
	}
	key := sortKey{column: col, direction: dir, active: true}
	if t.sort == key {
		return Result{}, nil
	}
	return t.execute(setSortCmd[R]{key: key}, t.cursor.clone(), nil), nil
}

func (t *Table[R]) toggleColumn(a ToggleColumnVisibility) (Result, error) {
	if err := t.checkColumn(a, a.Column); err != nil {
		return Result{}, err
	}
	hide := !t.cols.hidden[a.Column]
	if hide && t.cols.visibleCount() == 1 {
		return Result{}, invalidState(a, "cannot hide the last visible column")
	}
	return t.execute(setHiddenCmd[R]{column: a.Column, hidden: hide}, t.cursor.clone(), nil), nil
}

func (t *Table[R]) reorderColumn(a ReorderColumn) (Result, error) {
	n := len(t.cols.order)
	if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
		return Result{}, invalidState(a, "column move %d→%d out of range [0,%d)", a.From, a.To, n)
	}
	if a.From == a.To {
		return Result{}, nil
	}
	return t.execute(moveColumnCmd[R]{from: a.From, to: a.To}, t.cursor.clone(), nil), nil
}

// validateCell runs the contract's read-only, acceptance and edit checks.
func (t *Table[R]) validateCell(row R, col int, value any) error {
	if t.readOnly(row) {
		return errReadOnly
	}
	if !t.contract.Accepts(row, col, value) {
		return fmt.Errorf("column %d does not accept %v (%T)", col, value, value)
	}
	if v, ok := t.contract.(EditValidator[R]); ok {
		if err := v.ValidateEdit(row, col, value); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table[R]) readOnly(row R) bool {
	l, ok := t.contract.(RowLocker[R])
	return ok && l.ReadOnly(row)
}

// validateInsert checks every cell of a new row against the contract and
// gives an InsertValidator the final word.
func (t *Table[R]) validateInsert(row R) error {
	for col := range t.contract.Columns() {
		v := t.contract.Cell(row, col)
		if !t.contract.Accepts(row, col, v) {
			return fmt.Errorf("column %d does not accept %v (%T)", col, v, v)
		}
	}
	if iv, ok := t.contract.(InsertValidator[R]); ok {
		return iv.ValidateInsert(row)
	}
	return nil
}

func (t *Table[R]) setCellValue(a SetCellValue) (Result, error) {
	e, ok := t.cursor.(EditCursor)
	if !ok {
		return Result{}, invalidState(a, "no cell is being edited")
	}
	row, ok := t.store.get(e.Row)
	if !ok {
		return Result{}, invalidState(a, "edited row %d no longer exists", e.Row)
	}
	if err := t.validateCell(row, e.Column, a.Value); err != nil {
		return Result{}, contractRejected(a, err)
	}
	after := EditCursor{Row: e.Row, Column: e.Column, Buffer: a.Value, Validated: true}
	return t.execute(setCellCmd[R]{id: e.Row, column: e.Column, value: a.Value}, e, after), nil
}

func (t *Table[R]) insertRows(a InsertRows[R]) (Result, error) {
	if _, ok := t.cursor.(selectState); !ok {
		return Result{}, invalidState(a, "rows cannot be inserted while editing")
	}
	if len(a.Rows) == 0 {
		return Result{}, invalidState(a, "no rows to insert")
	}
	for i, row := range a.Rows {
		if err := t.validateInsert(row); err != nil {
			return Result{}, contractRejected(a, fmt.Errorf("row %d: %w", i, err))
		}
	}
	t.ensureView()
	at := t.store.len()
	if a.At >= 0 && a.At < len(t.view.rows) {
		at, _ = t.store.index(t.view.rows[a.At])
	}

	ids := t.store.allocate(len(a.Rows))
	entries := make([]rowEntry[R], len(a.Rows))
	for i, row := range a.Rows {
		entries[i] = rowEntry[R]{index: at + i, id: ids[i], row: row}
	}

	var after selectState
	if n := t.cols.visibleCount(); n > 0 && !t.noSelect {
		after.regions = []selRegion{{
			rows: ids, anchor: ids[0], focus: ids[len(ids)-1], anchorCol: 0, focusCol: n - 1,
		}}
	}
	return t.execute(insertRowsCmd[R]{entries: entries}, t.cursor.clone(), after), nil
}

func (t *Table[R]) deleteRows(a DeleteRows) (Result, error) {
	sel, ok := t.cursor.(selectState)
	if !ok {
		return Result{}, invalidState(a, "rows cannot be deleted while editing")
	}
	ids := a.Rows
	if len(ids) == 0 {
		ids = sel.rowIDs()
	}
	if len(ids) == 0 {
		return Result{}, invalidState(a, "no rows selected")
	}
	rv, guarded := t.contract.(RemoveValidator[R])
	for _, id := range ids {
		row, ok := t.store.get(id)
		if !ok {
			return Result{}, invalidState(a, "unknown row %d", id)
		}
		if t.readOnly(row) {
			return Result{}, contractRejected(a, fmt.Errorf("row %d: %w", id, errReadOnly))
		}
		if guarded {
			if err := rv.ValidateRemove(row); err != nil {
				return Result{}, contractRejected(a, fmt.Errorf("row %d: %w", id, err))
			}
		}
	}
	return t.execute(deleteRowsCmd[R]{ids: slices.Clone(ids)}, sel.clone(), selectState{}), nil
}

func (t *Table[R]) beginEdit(a BeginEdit) (Result, error) {
	t.ensureView()
	vis := t.cols.visible()
	if t.noEdit {
		return Result{}, invalidState(a, "editing is disabled")
	}
	if a.Row < 0 || a.Row >= len(t.view.rows) || a.Col < 0 || a.Col >= len(vis) {
		return Result{}, invalidState(a, "cell %s outside view", CellRef{Row: a.Row, Col: a.Col})
	}
	id, col := t.view.rows[a.Row], vis[a.Col]
	if target, _ := t.store.get(id); t.readOnly(target) {
		return Result{}, contractRejected(a, fmt.Errorf("row %d: %w", id, errReadOnly))
	}

	res := Result{Changed: true}
	if _, editing := t.cursor.(EditCursor); editing {
		committed, err := t.commitEdit(a)
		if err != nil {
			return Result{}, err
		}
		res.Recorded = committed.Recorded
	}
	row, _ := t.store.get(id)
	t.cursor = EditCursor{Row: id, Column: col, Buffer: t.contract.Cell(row, col)}
	return res, nil
}

func (t *Table[R]) updateEdit(a UpdateEdit) (Result, error) {
	e, ok := t.cursor.(EditCursor)
	if !ok {
		return Result{}, invalidState(a, "no cell is being edited")
	}
	e.Buffer = a.Value
	e.Validated = false
	if row, ok := t.store.get(e.Row); ok {
		e.Validated = t.validateCell(row, e.Column, a.Value) == nil
	}
	t.cursor = e
	return Result{Changed: true}, nil
}

// commitEdit is shared by CommitEdit and by BeginEdit on another cell; a is
// the action reported in rejections.
func (t *Table[R]) commitEdit(a Action) (Result, error) {
	e, ok := t.cursor.(EditCursor)
	if !ok {
		return Result{}, invalidState(a, "no cell is being edited")
	}
	sel := t.cellSelection(e.Row, e.Column)
	row, ok := t.store.get(e.Row)
	if !ok {
		t.cursor = selectState{}
		return Result{Changed: true}, nil
	}
	if reflect.DeepEqual(t.contract.Cell(row, e.Column), e.Buffer) {
		t.cursor = sel
		return Result{Changed: true}, nil
	}
	if err := t.validateCell(row, e.Column, e.Buffer); err != nil {
		return Result{}, contractRejected(a, err)
	}
	return t.execute(setCellCmd[R]{id: e.Row, column: e.Column, value: e.Buffer}, sel, sel), nil
}
