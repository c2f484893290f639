package datagrid

// Action is a semantic request submitted to Table.Submit.
type Action interface {
	Name() string
}

// SetSort makes Column the single active sort key.
type SetSort struct {
	Column    int
	Direction Direction
}

// ClearSort removes the active sort key; rows return to store order.
type ClearSort struct{}

// ToggleSort flips the direction when Column is already the sort key and
// otherwise sorts Column ascending, like clicking a column header.
type ToggleSort struct {
	Column int
}

// ToggleColumnVisibility hides or shows a data column.
type ToggleColumnVisibility struct {
	Column int
}

// ReorderColumn moves the column at display-order position From (hidden
// columns included) to position To.
type ReorderColumn struct {
	From int
	To   int
}

// SetCellValue writes Value to the cell being edited and keeps editing.
type SetCellValue struct {
	Value any
}

// InsertRows inserts Rows before visible position At. An At outside the
// view appends to the store.
type InsertRows[R any] struct {
	At   int
	Rows []R
}

// DeleteRows deletes the given rows, or every selected row when Rows is empty.
type DeleteRows struct {
	Rows []RowID
}

// BeginEdit starts editing the cell at view position (Row, Col). An edit in
// progress is committed first.
type BeginEdit struct {
	Row int
	Col int
}

// UpdateEdit replaces the in-progress edit buffer without touching the row.
type UpdateEdit struct {
	Value any
}

// CommitEdit writes the edit buffer to the row when it changed and returns
// to selection.
type CommitEdit struct{}

// CancelEdit discards the edit buffer and returns to selection.
type CancelEdit struct{}

// UpdateSelection changes the selected regions; Row and Col are view
// coordinates and are ignored by SelectAll and SelectNone.
type UpdateSelection struct {
	Row  int
	Col  int
	Mode SelectMode
}

// Paste writes TSV text at the selection anchor. An empty Text, or the text
// last produced by Copy, pastes the internal copy buffer.
type Paste struct {
	Text string
}

// Undo reverts the most recent recorded command.
type Undo struct{}

// Redo re-applies the most recently undone command.
type Redo struct{}

func (SetSort) Name() string                { return "SetSort" }
func (ClearSort) Name() string              { return "ClearSort" }
func (ToggleSort) Name() string             { return "ToggleSort" }
func (ToggleColumnVisibility) Name() string { return "ToggleColumnVisibility" }
func (ReorderColumn) Name() string          { return "ReorderColumn" }
func (SetCellValue) Name() string           { return "SetCellValue" }
func (InsertRows[R]) Name() string          { return "InsertRows" }
func (DeleteRows) Name() string             { return "DeleteRows" }
func (BeginEdit) Name() string              { return "BeginEdit" }
func (UpdateEdit) Name() string             { return "UpdateEdit" }
func (CommitEdit) Name() string             { return "CommitEdit" }
func (CancelEdit) Name() string             { return "CancelEdit" }
func (UpdateSelection) Name() string        { return "UpdateSelection" }
func (Paste) Name() string                  { return "Paste" }
func (Undo) Name() string                   { return "Undo" }
func (Redo) Name() string                   { return "Redo" }

// Result reports what an accepted action did.
type Result struct {
	Changed  bool // rows, view parameters or cursor changed
	Recorded bool // an undo entry was pushed
	Skipped  int  // paste cells that failed to decode or were vetoed
}
