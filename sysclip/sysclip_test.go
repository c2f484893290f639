package sysclip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/datagrid"
)

var (
	_ datagrid.Clipboard = System{}
	_ datagrid.Clipboard = (*Memory)(nil)
)

func TestMemory_RoundTrip(t *testing.T) {
	var m Memory
	require.NoError(t, m.WriteText("a\tb"))
	got, err := m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "a\tb", got)
}

func TestSystem_Unsupported(t *testing.T) {
	if Available() {
		t.Skip("system clipboard available")
	}
	_, err := System{}.ReadText()
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, System{}.WriteText("x"), ErrUnsupported)
}

func TestMemory_TablePasteFrom(t *testing.T) {
	c, rows := datagrid.RecordsFromTSV("Name\tAge\nAl\t25\nBob\t30")
	tbl := datagrid.New(c, rows)
	_, err := tbl.Submit(datagrid.UpdateSelection{Row: 0, Col: 0, Mode: datagrid.SelectReplace})
	require.NoError(t, err)

	m := &Memory{Text: "Cy\t41"}
	res, err := tbl.PasteFrom(m)
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.Equal(t, []datagrid.Record{{"Cy", "41"}, {"Bob", "30"}}, tbl.Rows())

	require.NoError(t, tbl.CopyTo(m))
	assert.Equal(t, "Cy\t41", m.Text)
}
