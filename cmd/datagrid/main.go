// Command datagrid loads a table from TSV or XLSX, applies filter, sort,
// column and cell edits through the table's command engine and writes the
// result as TSV or XLSX.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javajack/datagrid"
	"github.com/javajack/datagrid/sysclip"
)

var version = "dev"

type viewOptions struct {
	inputFormat   string
	inputSheet    string
	filter        string
	sort          string
	hide          []string
	set           []string
	selection     string
	fromClipboard bool
	toClipboard   bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "datagrid",
		Short:        "Filter, sort and edit tabular data from TSV or XLSX",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/datagrid/config.*, or $DATAGRID_CONFIG)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log every applied and rejected action to stderr")
	root.PersistentFlags().Int("history-limit", 1000, "undo history size")

	root.AddCommand(newViewCommand(&configPath), newDescribeCommand(&configPath), newVersionCommand())
	return root
}

func newViewCommand(configPath *string) *cobra.Command {
	var o viewOptions
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Apply actions to a table and write the visible rows",
		Long: `Load a table (first row is the header) from a TSV or XLSX file, stdin or
the system clipboard, apply actions and write the result.

Cell references address the view: A1 is the first visible data row and the
first visible column after filtering, sorting and hiding.

Examples:
  datagrid view people.tsv --filter 'Age > 30' --sort Age:desc
  datagrid view book.xlsx --hide Notes --format xlsx > out.xlsx
  datagrid view people.tsv --set B1=42 --select A1:B2 --to-clipboard`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args, o)
			if err != nil {
				return err
			}
			tbl, err := buildTable(cfg, text, o)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), tbl, cfg, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.inputFormat, "input-format", "", "input format: tsv or xlsx (default from file extension)")
	f.StringVar(&o.inputSheet, "input-sheet", "", "worksheet to read from an XLSX input (default first sheet)")
	f.StringVar(&o.filter, "filter", "", "filter expression, e.g. 'Age > 30 && Name != \"Bob\"'")
	f.StringVar(&o.sort, "sort", "", "sort column, optionally with direction: Name or Age:desc")
	f.StringSliceVar(&o.hide, "hide", nil, "columns to hide")
	f.StringArrayVar(&o.set, "set", nil, "cell edit REF=VALUE, e.g. B2=42 (repeatable)")
	f.StringVar(&o.selection, "select", "", "write only this region of the view, e.g. A1:C3")
	f.BoolVar(&o.fromClipboard, "from-clipboard", false, "read TSV input from the system clipboard")
	f.BoolVar(&o.toClipboard, "to-clipboard", false, "write TSV output to the system clipboard")
	f.String("format", "tsv", "output format: tsv or xlsx")
	f.String("sheet", "Sheet1", "worksheet name for XLSX output")
	return cmd
}

func newDescribeCommand(configPath *string) *cobra.Command {
	var o viewOptions
	cmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Print columns, view, cursor and history after applying actions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args, o)
			if err != nil {
				return err
			}
			tbl, err := buildTable(cfg, text, o)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), tbl.Describe())
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.inputFormat, "input-format", "", "input format: tsv or xlsx")
	f.StringVar(&o.filter, "filter", "", "filter expression")
	f.StringVar(&o.sort, "sort", "", "sort column[:desc]")
	f.StringSliceVar(&o.hide, "hide", nil, "columns to hide")
	f.StringArrayVar(&o.set, "set", nil, "cell edit REF=VALUE (repeatable)")
	f.StringVar(&o.selection, "select", "", "region to select")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "datagrid version %s\n", version)
		},
	}
}

func readInput(stdin io.Reader, args []string, o viewOptions) (string, error) {
	if o.fromClipboard {
		text, err := sysclip.System{}.ReadText()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	}

	var (
		data []byte
		err  error
	)
	format := strings.ToLower(o.inputFormat)
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
		if format == "" && strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
			format = "xlsx"
		}
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	switch format {
	case "", "tsv":
		return string(data), nil
	case "xlsx":
		return datagrid.XLSXToTSV(bytes.NewReader(data), o.inputSheet)
	default:
		return "", fmt.Errorf("unknown input format %q", o.inputFormat)
	}
}

// buildTable loads the records and replays the requested actions through
// Submit.
func buildTable(cfg Config, text string, o viewOptions) (*datagrid.Table[datagrid.Record], error) {
	c, rows := datagrid.RecordsFromTSV(text)
	opts := []datagrid.Option{datagrid.WithHistoryLimit(cfg.History.Limit)}
	if cfg.Verbose {
		opts = append(opts, datagrid.WithListener(datagrid.ListenerFuncs{
			Applied: func(ev datagrid.Event) {
				log.Printf("applied %s changed=%v recorded=%v skipped=%d", ev.Action, ev.Changed, ev.Recorded, ev.Skipped)
			},
			Rejected: func(action string, err error) {
				log.Printf("rejected %s: %v", action, err)
			},
		}))
	}
	tbl := datagrid.New(c, rows, opts...)

	if o.filter != "" {
		f, err := datagrid.RecordFilter(c, o.filter)
		if err != nil {
			return nil, err
		}
		if err := tbl.SetFilter(f); err != nil {
			return nil, err
		}
	}

	if o.sort != "" {
		name, dir, _ := strings.Cut(o.sort, ":")
		col, err := columnIndex(c, name)
		if err != nil {
			return nil, err
		}
		d := datagrid.Ascending
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			d = datagrid.Descending
		default:
			return nil, fmt.Errorf("unknown sort direction %q", dir)
		}
		if _, err := tbl.Submit(datagrid.SetSort{Column: col, Direction: d}); err != nil {
			return nil, err
		}
	}

	for _, name := range o.hide {
		col, err := columnIndex(c, name)
		if err != nil {
			return nil, err
		}
		if !tbl.ColumnHidden(col) {
			if _, err := tbl.Submit(datagrid.ToggleColumnVisibility{Column: col}); err != nil {
				return nil, err
			}
		}
	}

	for _, s := range o.set {
		ref, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: want REF=VALUE", s)
		}
		cell, err := datagrid.ParseCellRef(ref)
		if err != nil {
			return nil, err
		}
		for _, a := range []datagrid.Action{
			datagrid.BeginEdit{Row: cell.Row, Col: cell.Col},
			datagrid.UpdateEdit{Value: value},
			datagrid.CommitEdit{},
		} {
			if _, err := tbl.Submit(a); err != nil {
				_, _ = tbl.Submit(datagrid.CancelEdit{})
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	if o.selection != "" {
		r, err := datagrid.ParseRegion(o.selection)
		if err != nil {
			return nil, err
		}
		for _, a := range []datagrid.Action{
			datagrid.UpdateSelection{Row: r.Anchor.Row, Col: r.Anchor.Col, Mode: datagrid.SelectReplace},
			datagrid.UpdateSelection{Row: r.Focus.Row, Col: r.Focus.Col, Mode: datagrid.SelectExtend},
		} {
			if _, err := tbl.Submit(a); err != nil {
				return nil, fmt.Errorf("select %s: %w", r, err)
			}
		}
	}
	return tbl, nil
}

// columnIndex resolves a column by header name or by letter.
func columnIndex(c *datagrid.RecordContract, name string) (int, error) {
	if i := c.Index(name); i >= 0 {
		return i, nil
	}
	if i, err := datagrid.NameToCol(name); err == nil && i < len(c.Columns()) {
		return i, nil
	}
	return 0, fmt.Errorf("unknown column %q", name)
}

func writeOutput(w io.Writer, tbl *datagrid.Table[datagrid.Record], cfg Config, o viewOptions) error {
	if cfg.Output.Format == "xlsx" {
		if o.toClipboard {
			return fmt.Errorf("--to-clipboard needs tsv output")
		}
		if o.selection != "" {
			return tbl.ExportSelectionXLSX(w, cfg.Output.Sheet)
		}
		return tbl.ExportXLSX(w, cfg.Output.Sheet)
	}

	var buf bytes.Buffer
	if o.selection != "" {
		text, err := tbl.Copy()
		if err != nil {
			return err
		}
		buf.WriteString(text)
	} else if err := tbl.ExportTSV(&buf); err != nil {
		return err
	}

	if o.toClipboard {
		if err := (sysclip.System{}).WriteText(buf.String()); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
		return nil
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
