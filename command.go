package datagrid

// effect records which dirty flags an applied command raises.
type effect uint8

const (
	effectView effect = 1 << iota // row identities, order or visibility may have changed
	effectEdit                    // user edit
)

// command is a concrete mutation. apply performs it unconditionally (all
// validation happens while translating the action) and returns the command
// that exactly undoes it.
type command[R any] interface {
	apply(t *Table[R]) (inverse command[R], eff effect)
}

type setSortCmd[R any] struct {
	key sortKey
}

func (c setSortCmd[R]) apply(t *Table[R]) (command[R], effect) {
	prev := t.sort
	t.sort = c.key
	return setSortCmd[R]{key: prev}, effectView
}

type setHiddenCmd[R any] struct {
	column int
	hidden bool
}

func (c setHiddenCmd[R]) apply(t *Table[R]) (command[R], effect) {
	prev := t.cols.hidden[c.column]
	t.cols.hidden[c.column] = c.hidden
	return setHiddenCmd[R]{column: c.column, hidden: prev}, 0
}

type moveColumnCmd[R any] struct {
	from, to int
}

func (c moveColumnCmd[R]) apply(t *Table[R]) (command[R], effect) {
	t.cols.move(c.from, c.to)
	return moveColumnCmd[R]{from: c.to, to: c.from}, 0
}

type setCellCmd[R any] struct {
	id     RowID
	column int
	value  any
}

func (c setCellCmd[R]) apply(t *Table[R]) (command[R], effect) {
	row, ok := t.store.get(c.id)
	if !ok {
		return setCellCmd[R]{}, 0
	}
	old := t.contract.Cell(row, c.column)
	t.store.set(c.id, t.contract.SetCell(row, c.column, c.value))
	if obs, ok := t.contract.(RowObserver[R]); ok {
		obs.RowUpdated(c.id, c.column, old, c.value)
	}
	return setCellCmd[R]{id: c.id, column: c.column, value: old}, effectView | effectEdit
}

type insertRowsCmd[R any] struct {
	entries []rowEntry[R]
}

func (c insertRowsCmd[R]) apply(t *Table[R]) (command[R], effect) {
	t.store.insert(c.entries)
	ids := make([]RowID, len(c.entries))
	obs, notify := t.contract.(RowObserver[R])
	for i, e := range c.entries {
		ids[i] = e.id
		if notify {
			obs.RowInserted(e.id, e.row)
		}
	}
	return deleteRowsCmd[R]{ids: ids}, effectView | effectEdit
}

type deleteRowsCmd[R any] struct {
	ids []RowID
}

func (c deleteRowsCmd[R]) apply(t *Table[R]) (command[R], effect) {
	entries := t.store.remove(c.ids)
	if obs, ok := t.contract.(RowObserver[R]); ok {
		for _, e := range entries {
			obs.RowRemoved(e.id, e.row)
		}
	}
	return insertRowsCmd[R]{entries: entries}, effectView | effectEdit
}

// batchCmd applies commands in order; its inverse applies their inverses in
// reverse order.
type batchCmd[R any] struct {
	cmds []command[R]
}

func (c batchCmd[R]) apply(t *Table[R]) (command[R], effect) {
	inv := make([]command[R], len(c.cmds))
	var eff effect
	for i, cmd := range c.cmds {
		ic, e := cmd.apply(t)
		inv[len(c.cmds)-1-i] = ic
		eff |= e
	}
	return batchCmd[R]{cmds: inv}, eff
}
