package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"embedding-conn/internal/embeddings"
	"embedding-conn/internal/similarity"
)

const maxLabelWidth = 24

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// renderEmbeddings prints one column per input and one row per dimension,
// limited to maxRows rows when maxRows > 0.
func renderEmbeddings(labels []string, t embeddings.Table, maxRows int) string {
	headers := make([]string, 0, len(labels)+1)
	headers = append(headers, "dim")
	for _, l := range labels {
		headers = append(headers, truncate(l))
	}
	tbl := newTable(headers...)

	rows := t.Rows()
	shown := rows
	if maxRows > 0 && len(rows) > maxRows {
		shown = rows[:maxRows]
	}
	for i, row := range shown {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, v := range row {
			cells = append(cells, formatFloat(v, 6))
		}
		tbl.Row(cells...)
	}

	out := tbl.String()
	if len(shown) < len(rows) {
		out += "\n" + noteStyle.Render(fmt.Sprintf("%d of %d dimensions shown", len(shown), len(rows)))
	}
	return out
}

// renderHeatmap prints the distance matrix with the diagonal left blank.
func renderHeatmap(hm similarity.Heatmap) string {
	n := len(hm.Labels)
	grid := make([][]string, n)
	for i := range grid {
		grid[i] = make([]string, n)
	}
	for _, c := range hm.Cells {
		grid[c.Row][c.Col] = c.Label
	}

	headers := make([]string, 0, n+1)
	headers = append(headers, "")
	for _, l := range hm.Labels {
		headers = append(headers, truncate(l))
	}
	tbl := newTable(headers...)
	for i, row := range grid {
		tbl.Row(append([]string{truncate(hm.Labels[i])}, row...)...)
	}
	return tbl.String() + "\n" + noteStyle.Render(fmt.Sprintf("cosine distance, scale %.2f to %.2f", hm.ColorDomain[0], hm.ColorDomain[1]))
}

func renderTokens(texts []string, batch [][]int) string {
	tbl := newTable("text", "count", "tokens")
	for i, ids := range batch {
		parts := make([]string, len(ids))
		for j, id := range ids {
			parts[j] = strconv.Itoa(id)
		}
		tbl.Row(truncate(texts[i]), strconv.Itoa(len(ids)), strings.Join(parts, " "))
	}
	return tbl.String()
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelWidth {
		return s
	}
	return string(r[:maxLabelWidth-3]) + "..."
}
