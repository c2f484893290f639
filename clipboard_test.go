package datagrid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/datagrid/tsv"
)

type memClipboard struct {
	text string
	err  error
}

func (m *memClipboard) ReadText() (string, error) { return m.text, m.err }

func (m *memClipboard) WriteText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func TestCopy_TwoByTwo(t *testing.T) {
	tbl, c := newPeople(t, []person{{Name: "Bob", Age: 30}, {Name: "Al", Age: 25}})
	submit(t, tbl,
		SetSort{Column: 1},
		UpdateSelection{Row: 0, Col: 0, Mode: SelectReplace},
		UpdateSelection{Row: 1, Col: 1, Mode: SelectExtend},
	)

	text, err := tbl.Copy()
	require.NoError(t, err)
	assert.Equal(t, "Al\t25\nBob\t30", text)

	rows, cols := tbl.ClipboardShape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	g := tsv.Parse(text)
	var decoded [][]any
	for r := 0; r < g.Rows(); r++ {
		var row []any
		for col := 0; col < g.Cols(r); col++ {
			v, err := c.DecodeCell(col, g.Cell(r, col))
			require.NoError(t, err)
			row = append(row, v)
		}
		decoded = append(decoded, row)
	}
	assert.Equal(t, [][]any{{"Al", 25}, {"Bob", 30}}, decoded)
}

func TestCopy_DisjointRegionsLeaveGaps(t *testing.T) {
	rows := fivePeople()
	rows[2].Note = "n3"
	tbl, _ := newPeople(t, rows)
	submit(t, tbl,
		UpdateSelection{Row: 2, Col: 2, Mode: SelectReplace},
		UpdateSelection{Row: 0, Col: 0, Mode: SelectAdd},
	)
	text, err := tbl.Copy()
	require.NoError(t, err)
	assert.Equal(t, "Bob\t\n\tn3", text)

	// The copied grid is pasted as a compact 2x2 block: gaps are left
	// alone and are not counted, "n3" lands in Age and is skipped.
	submit(t, tbl, UpdateSelection{Row: 3, Col: 0, Mode: SelectReplace})
	res := submit(t, tbl, Paste{})
	assert.Equal(t, 1, res.Skipped)
	got := tbl.Rows()
	assert.Equal(t, person{Name: "Bob", Age: 25}, got[3])
	assert.Equal(t, person{Name: "Ed", Age: 52}, got[4])
}

func TestCopy_Rejections(t *testing.T) {
	tbl, _ := newPeople(t, fivePeople())
	_, err := tbl.Copy()
	assert.ErrorIs(t, err, ErrInvalidState, "nothing selected")

	submit(t, tbl, BeginEdit{Row: 0, Col: 0})
	_, err = tbl.Copy()
	assert.ErrorIs(t, err, ErrInvalidState, "editing")
	_, ok := tbl.ClipboardText()
	assert.False(t, ok)
}

func TestPaste_ClipsAtLastRow(t *testing.T) {
	tbl, _ := newPeople(t, fivePeople())
	submit(t, tbl, UpdateSelection{Row: 3, Col: 1, Mode: SelectReplace})

	res := submit(t, tbl, Paste{Text: "60\n61\n62"})
	assert.True(t, res.Recorded)
	assert.Zero(t, res.Skipped)
	ages := func() []int {
		var out []int
		for _, p := range tbl.Rows() {
			out = append(out, p.Age)
		}
		return out
	}
	assert.Equal(t, []int{30, 25, 41, 60, 61}, ages())
	assert.Equal(t, []Region{region(3, 1, 4, 1)}, regions(t, tbl))

	submit(t, tbl, UpdateSelection{Row: 4, Col: 2, Mode: SelectReplace})
	submit(t, tbl, Paste{Text: "a\tb\nc\td"})
	assert.Equal(t, "a", tbl.Rows()[4].Note, "clipped to one row and one column")
	assert.Equal(t, []Region{region(4, 2, 4, 2)}, regions(t, tbl))
}

func TestPaste_SkipsUndecodableCells(t *testing.T) {
	rows := fivePeople()
	rows[2].Locked = true
	tbl, _ := newPeople(t, rows)
	submit(t, tbl, UpdateSelection{Row: 0, Col: 1, Mode: SelectReplace})

	res := submit(t, tbl, Paste{Text: "x\tabc\n-3\tdef\n44\tghi\n"})
	assert.Equal(t, 4, res.Skipped, "bad number, negative age, and the locked row's two cells")
	assert.True(t, res.Recorded)

	got := tbl.Rows()
	assert.Equal(t, person{Name: "Bob", Age: 30, Note: "abc"}, got[0])
	assert.Equal(t, person{Name: "Al", Age: 25, Note: "def"}, got[1])
	assert.Equal(t, rows[2], got[2])

	submit(t, tbl, Undo{})
	assert.Equal(t, rows, tbl.Rows(), "one undo reverts the whole paste")
	assert.Equal(t, []Region{region(0, 1, 0, 1)}, regions(t, tbl))
}

func TestPaste_NothingApplicable(t *testing.T) {
	tbl, _ := newPeople(t, fivePeople())
	submit(t, tbl, UpdateSelection{Row: 0, Col: 0, Mode: SelectReplace})

	res := submit(t, tbl, Paste{Text: "Bob\t30"})
	assert.Equal(t, Result{}, res, "unchanged cells are not an edit")

	res = submit(t, tbl, Paste{Text: "Bob\tnope"})
	assert.Equal(t, Result{Skipped: 1}, res)
	assert.False(t, tbl.CanUndo())
	assert.False(t, tbl.EditDirty())
}

func TestPaste_InternalBufferKeepsValues(t *testing.T) {
	tbl, _ := newPeople(t, fivePeople())
	submit(t, tbl,
		UpdateSelection{Row: 0, Col: 0, Mode: SelectReplace},
		UpdateSelection{Row: 1, Col: 1, Mode: SelectExtend},
	)
	text, err := tbl.Copy()
	require.NoError(t, err)

	submit(t, tbl, UpdateSelection{Row: 3, Col: 0, Mode: SelectReplace})
	res := submit(t, tbl, Paste{Text: text})
	assert.True(t, res.Recorded)
	got := tbl.Rows()
	assert.Equal(t, "Bob", got[3].Name)
	assert.Equal(t, 30, got[3].Age)
	assert.Equal(t, "Al", got[4].Name)
	assert.Equal(t, 25, got[4].Age)

	require.NoError(t, tbl.ClearClipboard())
	_, err = tbl.Submit(Paste{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPaste_RejectedWhileEditing(t *testing.T) {
	tbl, _ := newPeople(t, fivePeople())
	submit(t, tbl, BeginEdit{Row: 0, Col: 0})
	_, err := tbl.Submit(Paste{Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPaste_FollowsViewOrder(t *testing.T) {
	tbl, _ := newPeople(t, fivePeople())
	submit(t, tbl,
		SetSort{Column: 1, Direction: Descending},
		UpdateSelection{Row: 0, Col: 2, Mode: SelectReplace},
		Paste{Text: "oldest\nnext"},
	)
	got := tbl.Rows()
	assert.Equal(t, "oldest", got[4].Note)
	assert.Equal(t, "next", got[2].Note)
}

func TestClipboard_Bridge(t *testing.T) {
	tbl, _ := newPeople(t, fivePeople())
	cb := &memClipboard{}
	submit(t, tbl, UpdateSelection{Row: 1, Col: 0, Mode: SelectReplace})
	require.NoError(t, tbl.CopyTo(cb))
	assert.Equal(t, "Al", cb.text)

	cb.text = "Zoe\t19"
	submit(t, tbl, UpdateSelection{Row: 2, Col: 0, Mode: SelectReplace})
	res, err := tbl.PasteFrom(cb)
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.Equal(t, person{Name: "Zoe", Age: 19}, tbl.Rows()[2])

	cb.text = ""
	res, err = tbl.PasteFrom(cb)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	boom := errors.New("no display")
	cb.err = boom
	_, err = tbl.PasteFrom(cb)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "read clipboard")
	assert.ErrorIs(t, tbl.CopyTo(cb), boom)
}

// adultNoteContract only allows the note "adult" on rows aged 18 or over.
type adultNoteContract struct {
	personContract
}

func (c *adultNoteContract) ValidateEdit(p person, col int, value any) error {
	if col == 2 && value == "adult" && p.Age < 18 {
		return errors.New("too young")
	}
	return nil
}

func TestPaste_ValidatesAgainstEarlierCellsOfTheRow(t *testing.T) {
	tbl := New[person](&adultNoteContract{}, []person{{Name: "Kid", Age: 10}, {Name: "Old", Age: 70}})
	submit(t, tbl, UpdateSelection{Row: 0, Col: 1})

	res := submit(t, tbl, Paste{Text: "20\tadult\n5\tadult"})
	assert.Equal(t, 1, res.Skipped, "the second row turns 5 before its note is checked")
	assert.Equal(t, []person{{Name: "Kid", Age: 20, Note: "adult"}, {Name: "Old", Age: 5}}, tbl.Rows())
}
