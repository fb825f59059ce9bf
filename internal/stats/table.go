// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

type gestureColumn struct {
	title string
	right bool
	cell  func(GestureRow) string
}

var gestureColumns = []gestureColumn{
	{title: "Gesture", cell: func(r GestureRow) string { return r.Gesture.String() }},
	{title: "Accuracy", right: true, cell: func(r GestureRow) string { return fmt.Sprintf("%.2f%%", r.Accuracy*100) }},
	{title: "Avg Reaction (ms)", right: true, cell: func(r GestureRow) string { return fmt.Sprintf("%.1f", r.ReactionMs) }},
	{title: "Passed", right: true, cell: func(r GestureRow) string { return fmt.Sprintf("%d", r.Successes) }},
	{title: "Failed", right: true, cell: func(r GestureRow) string { return fmt.Sprintf("%d", r.Failures) }},
}

// gestureTableLines lays rows out under gestureColumns, header first. Each
// column is as wide as its widest cell in terminal cells.
func gestureTableLines(rows []GestureRow) []string {
	titles := lo.Map(gestureColumns, func(c gestureColumn, _ int) string { return c.title })
	cells := lo.Map(rows, func(r GestureRow, _ int) []string {
		return lo.Map(gestureColumns, func(c gestureColumn, _ int) string { return c.cell(r) })
	})
	widths := lo.Map(titles, func(title string, i int) int {
		column := lo.Map(cells, func(row []string, _ int) int { return runewidth.StringWidth(row[i]) })
		return lo.Max(append(column, runewidth.StringWidth(title)))
	})

	lines := make([]string, 0, len(cells)+1)
	lines = append(lines, joinGestureCells(titles, widths))
	for _, row := range cells {
		lines = append(lines, joinGestureCells(row, widths))
	}
	return lines
}

func joinGestureCells(cells []string, widths []int) string {
	padded := lo.Map(cells, func(cell string, i int) string {
		if gestureColumns[i].right {
			return runewidth.FillLeft(cell, widths[i])
		}
		return runewidth.FillRight(cell, widths[i])
	})
	return strings.Join(padded, " ")
}
