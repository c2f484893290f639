package datagrid

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/javajack/datagrid/tsv"
)

// Clipboard is the system clipboard collaborator. It only ever exchanges a
// single TSV string.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

type clipCell struct {
	value any
	text  string
	set   bool // false for gaps between disjoint regions
}

// clipboardSlab is the internal copy buffer: the copied values, their
// encoded text and the TSV rendering handed to the system clipboard.
type clipboardSlab struct {
	cells [][]clipCell
	text  string
	valid bool
}

func (s *clipboardSlab) rows() int { return len(s.cells) }

func (s *clipboardSlab) cols() int {
	n := 0
	for _, r := range s.cells {
		n = max(n, len(r))
	}
	return n
}

func rejectOp(kind RejectionKind, op string, err error) error {
	return &RejectionError{Kind: kind, Action: op, Err: err}
}

// Copy stores the selected cells in the internal copy buffer and returns
// their TSV encoding. Rows are emitted in view order and columns in display
// order; with several regions the copied grid covers the union of their
// rows and columns and cells outside every region are left empty.
func (t *Table[R]) Copy() (string, error) {
	if err := t.checkLent("Copy"); err != nil {
		return "", err
	}
	sel, ok := t.cursor.(selectState)
	if !ok {
		return "", rejectOp(RejectInvalidState, "Copy", fmt.Errorf("cannot copy while editing"))
	}
	t.ensureView()
	sel = t.cursor.(selectState)
	regions := sel.resolve(&t.view, t.cols.visibleCount())
	if len(regions) == 0 {
		return "", rejectOp(RejectInvalidState, "Copy", fmt.Errorf("nothing selected"))
	}
	slices.SortFunc(regions, func(a, b Region) int {
		at, al, _, _ := a.Bounds()
		bt, bl, _, _ := b.Bounds()
		if at != bt {
			return at - bt
		}
		return al - bl
	})

	var rowPos, colPos []int
	for _, r := range regions {
		top, left, bottom, right := r.Bounds()
		for p := top; p <= bottom; p++ {
			rowPos = append(rowPos, p)
		}
		for c := left; c <= right; c++ {
			colPos = append(colPos, c)
		}
	}
	slices.Sort(rowPos)
	rowPos = slices.Compact(rowPos)
	slices.Sort(colPos)
	colPos = slices.Compact(colPos)

	vis := t.cols.visible()
	cells := make([][]clipCell, len(rowPos))
	text := make([][]string, len(rowPos))
	for i, p := range rowPos {
		row, _ := t.store.get(t.view.rows[p])
		cells[i] = make([]clipCell, len(colPos))
		text[i] = make([]string, len(colPos))
		for j, c := range colPos {
			if !regionsContain(regions, p, c) {
				continue
			}
			col := vis[c]
			v := t.contract.Cell(row, col)
			s := t.contract.EncodeCell(col, v)
			cells[i][j] = clipCell{value: v, text: s, set: true}
			text[i][j] = s
		}
	}

	t.clip = clipboardSlab{cells: cells, text: tsv.Encode(text), valid: true}
	return t.clip.text, nil
}

func regionsContain(regions []Region, row, col int) bool {
	for _, r := range regions {
		if r.Contains(CellRef{Row: row, Col: col}) {
			return true
		}
	}
	return false
}

// ClipboardText returns the TSV text of the internal copy buffer.
func (t *Table[R]) ClipboardText() (string, bool) {
	return t.clip.text, t.clip.valid
}

// ClipboardShape returns the row and column count of the internal copy
// buffer.
func (t *Table[R]) ClipboardShape() (rows, cols int) {
	if !t.clip.valid {
		return 0, 0
	}
	return t.clip.rows(), t.clip.cols()
}

// ClearClipboard empties the internal copy buffer.
func (t *Table[R]) ClearClipboard() error {
	if err := t.checkLent("ClearClipboard"); err != nil {
		return err
	}
	t.clip = clipboardSlab{}
	return nil
}

// CopyTo copies the selection and hands the TSV text to cb.
func (t *Table[R]) CopyTo(cb Clipboard) error {
	text, err := t.Copy()
	if err != nil {
		return err
	}
	if err := cb.WriteText(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// PasteFrom reads TSV text from cb and submits it as a Paste.
func (t *Table[R]) PasteFrom(cb Clipboard) (Result, error) {
	text, err := cb.ReadText()
	if err != nil {
		return Result{}, fmt.Errorf("read clipboard: %w", err)
	}
	if text == "" {
		return Result{}, nil
	}
	return t.Submit(Paste{Text: text})
}

// pasteSource yields the cells being pasted, either from the internal copy
// buffer or from parsed TSV text.
type pasteSource struct {
	slab *clipboardSlab
	grid *tsv.Grid
	rows int
}

func (t *Table[R]) pasteSource(text string) pasteSource {
	if t.clip.valid && (text == "" || text == t.clip.text) {
		return pasteSource{slab: &t.clip, rows: t.clip.rows()}
	}
	g := tsv.Parse(text)
	rows := g.Rows()
	if rows > 1 && strings.HasSuffix(text, "\n") && g.Cols(rows-1) == 1 && g.Raw(rows-1, 0) == "" {
		rows--
	}
	return pasteSource{grid: g, rows: rows}
}

func (s pasteSource) cols(row int) int {
	if s.slab != nil {
		return len(s.slab.cells[row])
	}
	return s.grid.Cols(row)
}

// gap reports a copied cell that lay outside every selected region.
func (s pasteSource) gap(r, c int) bool {
	return s.slab != nil && !s.slab.cells[r][c].set
}

func (s pasteSource) maxCols() int {
	n := 0
	for r := 0; r < s.rows; r++ {
		n = max(n, s.cols(r))
	}
	return n
}

// value resolves one source cell for a destination column. Values from the
// internal buffer are used as-is when the column accepts them and decoded
// from their text otherwise.
func (t *Table[R]) pasteValue(s pasteSource, r, c int, row R, col int) (any, bool) {
	text := ""
	if s.slab != nil {
		cell := s.slab.cells[r][c]
		if t.validateCell(row, col, cell.value) == nil {
			return cell.value, true
		}
		text = cell.text
	} else {
		text = s.grid.Cell(r, c)
	}
	v, err := t.contract.DecodeCell(col, text)
	if err != nil {
		return nil, false
	}
	if t.validateCell(row, col, v) != nil {
		return nil, false
	}
	return v, true
}

// paste writes a grid at the top-left corner of the first selected region.
// The grid is clipped at the last visible row and column. Cells that fail to
// decode or are vetoed are counted in Result.Skipped; the remaining cells
// are applied as a single undo entry.
func (t *Table[R]) paste(a Paste) (Result, error) {
	sel, ok := t.cursor.(selectState)
	if !ok {
		return Result{}, invalidState(a, "cannot paste while editing")
	}
	if t.noEdit {
		return Result{}, invalidState(a, "editing is disabled")
	}
	if a.Text == "" && !t.clip.valid {
		return Result{}, invalidState(a, "nothing to paste")
	}
	t.ensureView()
	sel = t.cursor.(selectState)
	vis := t.cols.visible()
	regions := sel.resolve(&t.view, len(vis))
	if len(regions) == 0 {
		return Result{}, invalidState(a, "no paste target selected")
	}
	top, left := len(t.view.rows), len(vis)
	for _, r := range regions {
		rt, rl, _, _ := r.Bounds()
		if rt < top || (rt == top && rl < left) {
			top, left = rt, rl
		}
	}

	src := t.pasteSource(a.Text)
	h := min(src.rows, len(t.view.rows)-top)
	w := min(src.maxCols(), len(vis)-left)
	if h <= 0 || w <= 0 {
		return Result{}, nil
	}

	var (
		cmds    []command[R]
		skipped int
	)
	for r := 0; r < h; r++ {
		id := t.view.rows[top+r]
		row, _ := t.store.get(id)
		for c := 0; c < min(src.cols(r), w); c++ {
			if src.gap(r, c) {
				continue
			}
			col := vis[left+c]
			v, ok := t.pasteValue(src, r, c, row, col)
			if !ok {
				skipped++
				continue
			}
			if reflect.DeepEqual(t.contract.Cell(row, col), v) {
				continue
			}
			cmds = append(cmds, setCellCmd[R]{id: id, column: col, value: v})
			row = t.contract.SetCell(row, col, v)
		}
	}
	if len(cmds) == 0 {
		return Result{Skipped: skipped}, nil
	}

	after := selectState{regions: []selRegion{spanRegion(&t.view, top, top+h-1, left, left+w-1)}}
	res := t.execute(batchCmd[R]{cmds: cmds}, sel.clone(), after)
	res.Skipped = skipped
	return res, nil
}
