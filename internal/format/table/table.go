// Package table aligns plain-text cells into columns.
package table

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const gutter = "  "

// Columns pads each cell to the display width of the widest cell in its
// column. Rows may be ragged; missing cells count as empty.
func Columns(rows [][]string, alignments []Alignment) [][]string {
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], runewidth.StringWidth(cell))
		}
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, len(row))
		for c, cell := range row {
			align := AlignLeft
			if c < len(alignments) {
				align = alignments[c]
			}
			padded[c] = pad(cell, widths[c], align)
		}
		out[i] = padded
	}
	return out
}

// Format returns the rows as lines with the columns separated by a gutter.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := Columns(rows, alignments)
	out := make([]string, len(cols))
	for i, row := range cols {
		out[i] = strings.TrimRight(strings.Join(row, gutter), " ")
	}
	return out
}

func pad(cell string, width int, align Alignment) string {
	fill := width - runewidth.StringWidth(cell)
	if fill <= 0 {
		return cell
	}
	if align == AlignRight {
		return strings.Repeat(" ", fill) + cell
	}
	return cell + strings.Repeat(" ", fill)
}
