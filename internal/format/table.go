package format

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Style picks how tables are drawn.
type Style int

const (
	Box      Style = iota // terminal box-drawing
	Markdown              // pipe tables for pasting into a chamado
)

// ParseStyle maps a flag value to a Style.
func ParseStyle(raw string) (Style, error) {
	switch raw {
	case "", "table", "box":
		return Box, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return Box, fmt.Errorf("unknown table style %q", raw)
	}
}

// Table is a small wrapper over a go-pretty writer.
type Table struct {
	w     table.Writer
	style Style
	cols  []table.ColumnConfig
}

// NewTable returns an empty table rendered in style.
func NewTable(style Style) *Table {
	w := table.NewWriter()
	if style == Box {
		w.SetStyle(table.StyleLight)
	}
	return &Table{w: w, style: style}
}

// Title sets a caption above the table.
func (t *Table) Title(title string) {
	t.w.SetTitle(title)
}

// Header sets the column headers.
func (t *Table) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.w.AppendHeader(row)
}

// Row appends one row.
func (t *Table) Row(vals ...any) {
	t.w.AppendRow(table.Row(vals))
}

// Footer appends a footer row.
func (t *Table) Footer(vals ...any) {
	t.w.AppendFooter(table.Row(vals))
}

// RightAlign right-aligns the given 1-based columns.
func (t *Table) RightAlign(cols ...int) {
	for _, n := range cols {
		t.cols = append(t.cols, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	t.w.SetColumnConfigs(t.cols)
}

// WrapColumn caps the width of a 1-based column.
func (t *Table) WrapColumn(col, width int) {
	t.cols = append(t.cols, table.ColumnConfig{Number: col, WidthMax: width})
	t.w.SetColumnConfigs(t.cols)
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return t.w.Length()
}

// String renders the table.
func (t *Table) String() string {
	if t.style == Markdown {
		return t.w.RenderMarkdown()
	}
	return t.w.Render()
}

// Truncate shortens s to max runes, ending with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Mark renders a boolean as a check or a cross.
func Mark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
