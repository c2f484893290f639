package datagrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventory = "Item\tPrice\tQty\nWidget\t$1,200.50\t3\nGadget\t$99\t\nBolt\t0.25\t1000\n"

func TestRecordsFromTSV(t *testing.T) {
	c, rows := RecordsFromTSV(inventory)
	assert.Equal(t, []Column{{Name: "Item"}, {Name: "Price", Type: TypeReal}, {Name: "Qty", Type: TypeInteger}}, c.Columns())
	require.Len(t, rows, 3)
	assert.Equal(t, Record{"Gadget", "$99", ""}, rows[1])
	assert.Equal(t, 1, c.Index("price"))
	assert.Equal(t, -1, c.Index("Weight"))
}

func TestRecordsFromTSV_CRLF(t *testing.T) {
	c, rows := RecordsFromTSV("Name\tAge\r\nAl\t25\r\nBob\t30\r\n")
	assert.Equal(t, []Column{{Name: "Name"}, {Name: "Age", Type: TypeInteger}}, c.Columns())
	assert.Equal(t, []Record{{"Al", "25"}, {"Bob", "30"}}, rows)
}

func TestRecordsFromTSV_InfersTypes(t *testing.T) {
	c, _ := RecordsFromTSV("Flag\tBits\tRatio\tName\nTRUE\t1\t1\tinf\n0\t0\t2.5\tnan\n\t\t\t\n")
	var types []ColumnType
	for _, col := range c.Columns() {
		types = append(types, col.Type)
	}
	assert.Equal(t, []ColumnType{TypeBoolean, TypeInteger, TypeReal, TypeText}, types)
	assert.Equal(t, "boolean", TypeBoolean.String())
	assert.Equal(t, "unknown", ColumnType(9).String())
	assert.True(t, Column{Type: TypeInteger}.Numeric())
	assert.False(t, Column{Type: TypeBoolean}.Numeric())
}

func TestRecordsFromTSV_RaggedAndUnnamed(t *testing.T) {
	c, rows := RecordsFromTSV("Name\nAl\t7\nBob")
	assert.Equal(t, []Column{{Name: "Name"}, {Name: "B", Type: TypeInteger}}, c.Columns())
	assert.Equal(t, []Record{{"Al", "7"}, {"Bob", ""}}, rows)
}

func TestRecordContract_NumericSort(t *testing.T) {
	c, rows := RecordsFromTSV(inventory)
	tbl := New[Record](c, rows)

	submit2 := func(a Action) {
		_, err := tbl.Submit(a)
		require.NoError(t, err)
	}
	submit2(SetSort{Column: 1})
	var items []string
	for _, id := range tbl.View().Rows {
		r, _ := tbl.Row(id)
		items = append(items, r[0])
	}
	assert.Equal(t, []string{"Bolt", "Gadget", "Widget"}, items)

	submit2(SetSort{Column: 0, Direction: Descending})
	_, first, _ := tbl.RowAt(0)
	assert.Equal(t, "Widget", first[0])
}

func TestRecordContract_Edits(t *testing.T) {
	c, rows := RecordsFromTSV(inventory)
	tbl := New[Record](c, rows)

	_, err := tbl.Submit(BeginEdit{Row: 0, Col: 2})
	require.NoError(t, err)
	_, err = tbl.Submit(SetCellValue{Value: "many"})
	assert.ErrorIs(t, err, ErrContractRejected)
	_, err = tbl.Submit(SetCellValue{Value: 4})
	assert.ErrorIs(t, err, ErrContractRejected, "records hold text")
	_, err = tbl.Submit(SetCellValue{Value: "4"})
	require.NoError(t, err)
	assert.Equal(t, Record{"Widget", "$1,200.50", "4"}, tbl.Rows()[0])
	assert.Equal(t, Record{"Widget", "$1,200.50", "3"}, rows[0], "caller slice untouched")

	_, err = tbl.Submit(Undo{})
	require.NoError(t, err)
	assert.Equal(t, "3", tbl.Rows()[0][2])
}

func TestRecordContract_Codec(t *testing.T) {
	c := NewRecordContract(Column{Name: "Name"}, Column{Name: "Score", Type: TypeReal})

	v, err := c.DecodeCell(1, " 12 ")
	require.NoError(t, err)
	assert.Equal(t, " 12 ", v)
	_, err = c.DecodeCell(1, "twelve")
	assert.ErrorContains(t, err, `column Score: "twelve" is not a number`)
	v, err = c.DecodeCell(1, "")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	assert.Equal(t, "", c.EncodeCell(0, nil))
	assert.Equal(t, "x", c.EncodeCell(0, "x"))
	assert.Equal(t, "", c.Cell(Record{"a"}, 1))
	assert.Equal(t, Record{"a", "5"}, c.SetCell(Record{"a"}, 1, "5"))
	assert.False(t, c.Accepts(nil, 5, "x"))
	assert.Nil(t, c.Comparator(9))
}

func TestRecordContract_Env(t *testing.T) {
	c, rows := RecordsFromTSV(inventory)
	env := c.Env(rows[0])
	assert.Equal(t, "Widget", env["Item"])
	assert.Equal(t, 1200.5, env["Price"])
	assert.Equal(t, 3.0, env["Qty"])
	assert.Equal(t, map[string]any{"Item": "Widget", "Price": 1200.5, "Qty": 3.0}, env["row"])
}

func TestRecordsToTSV(t *testing.T) {
	c, rows := RecordsFromTSV(inventory)
	assert.Equal(t, inventory[:len(inventory)-1], RecordsToTSV(c, rows))
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b any
		want int
	}{
		{nil, nil, 0},
		{nil, 1, -1},
		{1, nil, 1},
		{2, 10, -1},
		{int64(3), 2.5, 1},
		{float32(1), uint(1), 0},
		{"b", "a", 1},
		{"10", "9", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareValues(tt.a, tt.b), "%v vs %v", tt.a, tt.b)
	}
}

func TestRecordContract_AutoRowHeight(t *testing.T) {
	c := NewRecordContract(Column{Name: "Text"}, Column{Name: "N", Type: TypeInteger})
	rows := []Record{{"one", "1"}, {"two\nlines", "2"}, {"a\nb\nc", "3"}}

	tbl := New[Record](c, rows, WithDefaultRowHeight(20))
	assert.Equal(t, []float32{20, 20, 20}, tbl.View().Heights, "off by default")

	c.AutoRowHeight(15)
	tbl = New[Record](c, rows, WithDefaultRowHeight(20))
	assert.Equal(t, []float32{20, 30, 45}, tbl.View().Heights)

	submit := func(a Action) {
		_, err := tbl.Submit(a)
		require.NoError(t, err)
	}
	submit(BeginEdit{Row: 0, Col: 0})
	submit(UpdateEdit{Value: "x\ny\nz\nw"})
	submit(CommitEdit{})
	assert.Equal(t, float32(60), tbl.View().Heights[0])
}

func TestRecordContract_TypedColumns(t *testing.T) {
	c := NewRecordContract(
		Column{Name: "Count", Type: TypeInteger},
		Column{Name: "Price", Type: TypeReal},
		Column{Name: "Done", Type: TypeBoolean},
	)
	tests := []struct {
		col  int
		text string
		want bool
	}{
		{0, "12", true},
		{0, "$1,200", true},
		{0, "2.5", false},
		{0, "", true},
		{1, "2.5", true},
		{1, "cheap", false},
		{2, "TRUE", true},
		{2, "false", true},
		{2, "1", true},
		{2, "0", true},
		{2, "yes", false},
		{2, " ", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Accepts(nil, tt.col, tt.text), "%s %q", c.Columns()[tt.col].Name, tt.text)
		_, err := c.DecodeCell(tt.col, tt.text)
		assert.Equal(t, tt.want, err == nil, "decode %s %q", c.Columns()[tt.col].Name, tt.text)
	}
	_, err := c.DecodeCell(0, "2.5")
	assert.ErrorContains(t, err, `column Count: "2.5" is not an integer`)
	_, err = c.DecodeCell(2, "yes")
	assert.ErrorContains(t, err, `column Done: "yes" is not a boolean`)

	rows := []Record{{"1", "1", "true"}, {"2", "2", ""}, {"3", "3", "0"}}
	assert.Equal(t, map[string]any{"Count": 1.0, "Price": 1.0, "Done": true}, c.Env(rows[0])["row"])
	tbl := New[Record](c, rows, WithSort(2, Ascending))
	var order []string
	for _, id := range tbl.View().Rows {
		r, _ := tbl.Row(id)
		order = append(order, r[0])
	}
	assert.Equal(t, []string{"2", "3", "1"}, order, "empty, false, true")
}

func TestRecordContract_InsertValidation(t *testing.T) {
	c, rows := RecordsFromTSV(inventory)
	tbl := New[Record](c, rows)

	for _, bad := range [][]Record{
		{{"Nut", "not-a-number", "1"}},
		{{"Nut"}},
		{{"Nut", "1", "1", "extra"}},
		{{"Nut", "1", "1"}, {"Washer", "1", "1.5"}},
	} {
		_, err := tbl.Submit(InsertRows[Record]{Rows: bad, At: -1})
		assert.ErrorIs(t, err, ErrContractRejected, "%v", bad)
	}
	assert.Equal(t, 3, tbl.Len(), "rejected inserts leave the store alone")
	assert.False(t, tbl.CanUndo())

	_, err := tbl.Submit(InsertRows[Record]{Rows: []Record{{"Nut", "0.10", "50"}}, At: -1})
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())
}

func TestRecordContract_ReadOnlyRows(t *testing.T) {
	c, rows := RecordsFromTSV(inventory)
	c.ReadOnlyWhen(func(r Record) bool { return r[0] == "Gadget" })
	tbl := New[Record](c, rows)
	do := func(a Action) (Result, error) { return tbl.Submit(a) }

	_, err := do(BeginEdit{Row: 1, Col: 2})
	assert.ErrorIs(t, err, ErrContractRejected)
	assert.False(t, tbl.Editing())

	_, err = do(DeleteRows{Rows: []RowID{tbl.IDs()[1]}})
	assert.ErrorIs(t, err, ErrContractRejected)

	_, err = do(UpdateSelection{Mode: SelectAll})
	require.NoError(t, err)
	sel, ok := tbl.Cursor().(SelectCursor)
	require.True(t, ok)
	assert.Equal(t, []Region{
		{Anchor: CellRef{Row: 0, Col: 0}, Focus: CellRef{Row: 0, Col: 2}},
		{Anchor: CellRef{Row: 2, Col: 0}, Focus: CellRef{Row: 2, Col: 2}},
	}, sel.Regions, "select-all leaves read-only rows out")

	_, err = do(UpdateSelection{Row: 0, Col: 2, Mode: SelectReplace})
	require.NoError(t, err)
	res, err := do(Paste{Text: "7\n8\n9"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	got := tbl.Rows()
	assert.Equal(t, "7", got[0][2])
	assert.Equal(t, "", got[1][2])
	assert.Equal(t, "9", got[2][2])

	c.ReadOnlyWhen(nil)
	assert.False(t, c.ReadOnly(rows[1]))
}
