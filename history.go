package datagrid

// undoEntry pairs an applied command with its inverse and the cursor on
// either side, so undo restores UI state as well as data.
type undoEntry[R any] struct {
	cmd     command[R]
	inverse command[R]
	before  cursorState
	after   cursorState
}

// history is a bounded linear undo queue. next points at the entry Redo
// would re-apply; entries before it can be undone.
type history[R any] struct {
	entries []undoEntry[R]
	next    int
	limit   int
}

func (h *history[R]) push(e undoEntry[R]) {
	if h.limit <= 0 {
		return
	}
	clear(h.entries[h.next:])
	h.entries = append(h.entries[:h.next], e)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.next = len(h.entries)
}

func (h *history[R]) canUndo() bool { return h.next > 0 }

func (h *history[R]) canRedo() bool { return h.next < len(h.entries) }

func (h *history[R]) reset() {
	h.entries = nil
	h.next = 0
}

// CanUndo reports whether Undo would change anything.
func (t *Table[R]) CanUndo() bool { return t.hist.canUndo() }

// CanRedo reports whether Redo would change anything.
func (t *Table[R]) CanRedo() bool { return t.hist.canRedo() }

// HistoryLen returns the number of recorded entries and the redo cursor.
func (t *Table[R]) HistoryLen() (entries, cursor int) {
	return len(t.hist.entries), t.hist.next
}

// ClearHistory drops every undo and redo entry.
func (t *Table[R]) ClearHistory() error {
	if err := t.checkLent("ClearHistory"); err != nil {
		return err
	}
	t.hist.reset()
	return nil
}

// execute applies a translated command, records it, and raises dirty flags.
// before is the cursor restored by undo; after, when non-nil, becomes the
// cursor.
func (t *Table[R]) execute(cmd command[R], before, after cursorState) Result {
	inv, eff := cmd.apply(t)
	if after != nil {
		t.cursor = after
	}
	t.invalidate(eff)
	t.hist.push(undoEntry[R]{cmd: cmd, inverse: inv, before: before, after: t.cursor.clone()})
	return Result{Changed: true, Recorded: t.hist.limit > 0}
}

func (t *Table[R]) invalidate(eff effect) {
	t.applied |= eff
	if eff&effectView != 0 {
		t.cacheDirty = true
	}
	if eff&effectEdit != 0 {
		t.editDirty = true
	}
}

// undo applies the inverse at next-1. The live cursor is captured as the
// entry's after-state so a following redo returns to exactly this point.
func (t *Table[R]) undo() Result {
	if !t.hist.canUndo() {
		return Result{}
	}
	e := &t.hist.entries[t.hist.next-1]
	e.after = t.cursor.clone()
	cmd, eff := e.inverse.apply(t)
	e.cmd = cmd
	t.cursor = e.before.clone()
	t.invalidate(eff)
	t.hist.next--
	return Result{Changed: true}
}

func (t *Table[R]) redo() Result {
	if !t.hist.canRedo() {
		return Result{}
	}
	e := &t.hist.entries[t.hist.next]
	inv, eff := e.cmd.apply(t)
	e.inverse = inv
	t.cursor = e.after.clone()
	t.invalidate(eff)
	t.hist.next++
	return Result{Changed: true}
}
