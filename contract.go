package datagrid

// Direction is the order of the active sort key.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ColumnType is the kind of value a column holds.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeReal
	TypeBoolean
)

func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Column describes one column of the row type.
type Column struct {
	Name string
	Type ColumnType
}

// Numeric reports whether the column holds numbers. Numeric columns
// right-align and export as numbers.
func (c Column) Numeric() bool { return c.Type == TypeInteger || c.Type == TypeReal }

// Comparator orders two rows by one column, returning <0, 0 or >0.
type Comparator[R any] func(a, b R) int

// Filter decides whether a row is visible.
type Filter[R any] func(row R) bool

// Contract is what a table needs to know about its row type R. One contract
// instance serves one table; its column set must not change during the
// table's lifetime.
type Contract[R any] interface {
	// Columns returns the column metadata in data order.
	Columns() []Column

	// Cell returns the value stored in a column of row.
	Cell(row R, col int) any

	// SetCell returns row with col set to value. Implementations over
	// reference types should copy before writing so captured undo state
	// stays intact.
	SetCell(row R, col int, value any) R

	// Comparator returns the ordering for a column, or nil when the column
	// is not sortable.
	Comparator(col int) Comparator[R]

	// EncodeCell renders a cell value as clipboard text.
	EncodeCell(col int, value any) string

	// DecodeCell parses clipboard text into a value for col.
	DecodeCell(col int, text string) (any, error)

	// Accepts reports whether value can be stored in col of row.
	Accepts(row R, col int, value any) bool
}

// RowObserver is an optional Contract capability notified after rows are
// inserted, updated or removed, including by undo and redo.
type RowObserver[R any] interface {
	RowInserted(id RowID, row R)
	RowUpdated(id RowID, col int, old, value any)
	RowRemoved(id RowID, row R)
}

// EditValidator is an optional Contract capability that can veto a cell
// edit before it is applied. A non-nil error rejects the edit.
type EditValidator[R any] interface {
	ValidateEdit(row R, col int, value any) error
}

// InsertValidator is an optional Contract capability that can veto a new
// row after each of its cells passed Accepts.
type InsertValidator[R any] interface {
	ValidateInsert(row R) error
}

// RemoveValidator is an optional Contract capability that can veto the
// deletion of a row.
type RemoveValidator[R any] interface {
	ValidateRemove(row R) error
}

// RowLocker is an optional Contract capability marking rows read-only.
// Read-only rows reject cell edits and removal and are left out of
// select-all.
type RowLocker[R any] interface {
	ReadOnly(row R) bool
}

// RowHeighter is an optional Contract capability supplying the rendering
// height of a row. Heights are opaque to the table; a height <= 0 falls back
// to the table default.
type RowHeighter[R any] interface {
	RowHeight(row R) float32
}
