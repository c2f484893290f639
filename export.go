package datagrid

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/datagrid/tsv"
)

// ExportTSV writes a header row with the visible column names followed by
// the visible rows in view order, each cell rendered through the contract's
// codec.
func (t *Table[R]) ExportTSV(w io.Writer) error {
	t.ensureView()
	vis := t.cols.visible()
	cols := t.contract.Columns()

	out := make([][]string, 0, len(t.view.rows)+1)
	header := make([]string, len(vis))
	for i, c := range vis {
		header[i] = cols[c].Name
	}
	out = append(out, header)
	for _, id := range t.view.rows {
		row, _ := t.store.get(id)
		cells := make([]string, len(vis))
		for i, c := range vis {
			cells[i] = t.contract.EncodeCell(c, t.contract.Cell(row, c))
		}
		out = append(out, cells)
	}
	return tsv.Write(w, out)
}

// ExportXLSX writes the visible rows and columns as a single-sheet workbook:
// a bold header row with the column names followed by one row per visible
// row in view order. Numeric cells are written as numbers.
func (t *Table[R]) ExportXLSX(w io.Writer, sheet string) error {
	t.ensureView()
	vis := t.cols.visible()
	cols := t.contract.Columns()

	grid := make([][]any, 0, len(t.view.rows)+1)
	header := make([]any, len(vis))
	for i, c := range vis {
		header[i] = cols[c].Name
	}
	grid = append(grid, header)
	for _, id := range t.view.rows {
		row, _ := t.store.get(id)
		cells := make([]any, len(vis))
		for i, c := range vis {
			cells[i] = t.xlsxValue(c, t.contract.Cell(row, c))
		}
		grid = append(grid, cells)
	}
	return writeWorkbook(w, sheet, grid, true)
}

// ExportSelectionXLSX copies the selection, as Copy does, and writes the
// copied grid as a workbook without a header row.
func (t *Table[R]) ExportSelectionXLSX(w io.Writer, sheet string) error {
	if _, err := t.Copy(); err != nil {
		return err
	}
	grid := make([][]any, len(t.clip.cells))
	for i, r := range t.clip.cells {
		grid[i] = make([]any, len(r))
		for j, cell := range r {
			if cell.set {
				grid[i][j] = cell.text
			}
		}
	}
	return writeWorkbook(w, sheet, grid, false)
}

func (t *Table[R]) xlsxValue(col int, v any) any {
	if v == nil {
		return nil
	}
	if f, ok := toFloat64(v); ok {
		return f
	}
	s := t.contract.EncodeCell(col, v)
	if t.contract.Columns()[col].Numeric() {
		if f, ok := toNumber(s); ok {
			return f
		}
	}
	return s
}

func writeWorkbook(w io.Writer, sheet string, grid [][]any, header bool) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet = SafeSheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet %q: %w", sheet, err)
	}

	widths := make(map[int]int)
	for r, cells := range grid {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
		for c, v := range cells {
			if v != nil {
				widths[c] = max(widths[c], len(fmt.Sprint(v)))
			}
		}
	}

	for c, n := range widths {
		name := ColToName(c)
		if err := f.SetColWidth(sheet, name, name, float64(min(max(n+2, 8), 60))); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}

	if header && len(grid) > 0 && len(grid[0]) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("create header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(grid[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// XLSXToTSV reads a worksheet and renders it as TSV, the text form Paste and
// RecordsFromTSV consume. An empty sheet name selects the first sheet.
func XLSXToTSV(r io.Reader, sheet string) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return tsv.Encode(rows), nil
}
