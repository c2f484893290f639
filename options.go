package datagrid

// Options holds configuration for a Table.
type Options struct {
	historyLimit     int
	defaultRowHeight float32
	listeners        []Listener
	sortColumn       int
	sortDirection    Direction
	sorted           bool
	editing          bool
	selection        bool
}

func defaultOptions() *Options {
	return &Options{
		historyLimit:     1000,
		defaultRowHeight: 52,
		editing:          true,
		selection:        true,
	}
}

// Option configures a Table.
type Option func(*Options)

// WithHistoryLimit bounds the undo queue (default: 1000). When the queue is
// full the oldest entry is dropped. A limit <= 0 disables undo history.
func WithHistoryLimit(n int) Option {
	return func(o *Options) { o.historyLimit = n }
}

// WithDefaultRowHeight sets the height reported for rows whose contract
// supplies none and the renderer has not measured (default: 52).
func WithDefaultRowHeight(h float32) Option {
	return func(o *Options) { o.defaultRowHeight = h }
}

// WithListener adds a listener notified after every submitted action.
func WithListener(l Listener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}

// WithSort sets the initial sort key. It is ignored when the column is out
// of range or not sortable.
func WithSort(col int, dir Direction) Option {
	return func(o *Options) {
		o.sortColumn = col
		o.sortDirection = dir
		o.sorted = true
	}
}

// WithEditing switches cell editing and paste on or off (default: on).
func WithEditing(allow bool) Option {
	return func(o *Options) { o.editing = allow }
}

// WithSelection switches selection on or off (default: on).
func WithSelection(allow bool) Option {
	return func(o *Options) { o.selection = allow }
}
