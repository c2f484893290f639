package datagrid

import "slices"

// RowID is the stable identity of a row. It survives sorting, filtering and
// structural edits; undoing a deletion restores the row under its old ID.
type RowID uint64

type rowEntry[R any] struct {
	index int // position in the store after insertion
	id    RowID
	row   R
}

// rowStore is the insertion-ordered row arena. Row count only changes
// through insert and remove so every change can be captured for undo.
type rowStore[R any] struct {
	rows []R
	ids  []RowID
	pos  map[RowID]int
	next RowID
}

func newRowStore[R any](rows []R) *rowStore[R] {
	s := &rowStore[R]{
		rows: slices.Clone(rows),
		ids:  make([]RowID, len(rows)),
		next: 1,
	}
	for i := range s.ids {
		s.ids[i] = s.next
		s.next++
	}
	s.reindex()
	return s
}

func (s *rowStore[R]) len() int { return len(s.rows) }

func (s *rowStore[R]) reindex() {
	s.pos = make(map[RowID]int, len(s.ids))
	for i, id := range s.ids {
		s.pos[id] = i
	}
}

// allocate reserves n fresh identities.
func (s *rowStore[R]) allocate(n int) []RowID {
	ids := make([]RowID, n)
	for i := range ids {
		ids[i] = s.next
		s.next++
	}
	return ids
}

func (s *rowStore[R]) index(id RowID) (int, bool) {
	i, ok := s.pos[id]
	return i, ok
}

func (s *rowStore[R]) get(id RowID) (R, bool) {
	i, ok := s.pos[id]
	if !ok {
		var zero R
		return zero, false
	}
	return s.rows[i], true
}

func (s *rowStore[R]) set(id RowID, row R) {
	if i, ok := s.pos[id]; ok {
		s.rows[i] = row
	}
}

// insert places entries at their recorded indexes. Entries must be sorted
// by ascending index.
func (s *rowStore[R]) insert(entries []rowEntry[R]) {
	for _, e := range entries {
		at := min(max(e.index, 0), len(s.rows))
		s.rows = slices.Insert(s.rows, at, e.row)
		s.ids = slices.Insert(s.ids, at, e.id)
	}
	s.reindex()
}

// remove deletes the given rows and returns them as entries sorted by their
// former index, ready to be re-inserted by insert. Unknown IDs are ignored.
func (s *rowStore[R]) remove(ids []RowID) []rowEntry[R] {
	entries := make([]rowEntry[R], 0, len(ids))
	for _, id := range ids {
		if i, ok := s.pos[id]; ok {
			entries = append(entries, rowEntry[R]{index: i, id: id, row: s.rows[i]})
		}
	}
	slices.SortFunc(entries, func(a, b rowEntry[R]) int { return a.index - b.index })
	entries = slices.CompactFunc(entries, func(a, b rowEntry[R]) bool { return a.id == b.id })

	rows := make([]R, 0, len(s.rows)-len(entries))
	keep := make([]RowID, 0, len(s.ids)-len(entries))
	j := 0
	for i := range s.rows {
		if j < len(entries) && entries[j].index == i {
			j++
			continue
		}
		rows = append(rows, s.rows[i])
		keep = append(keep, s.ids[i])
	}
	s.rows, s.ids = rows, keep
	s.reindex()
	return entries
}
