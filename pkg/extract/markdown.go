package extract

import (
	"fmt"
	"sort"
	"strings"
)

// RenderText renders the per-page text content as markdown, one section
// per page in ascending page order.
func RenderText(content map[int][]Block) string {
	pages := make([]int, 0, len(content))
	for page := range content {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	var b strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&b, "\n\n### Page %d\n", page)
		for _, block := range content[page] {
			b.WriteString(block.Content)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderTables renders the extracted tables as markdown. Each table is
// reconstructed as a row/column grid with cells joined by " | ".
func RenderTables(tables []TableData) string {
	if len(tables) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n## Tables\n")

	for i, table := range tables {
		fmt.Fprintf(&b, "\n### Table %d\n", i+1)
		fmt.Fprintf(&b, "Pages: %s\n\n", joinInts(table.PageNumbers))

		grid := make([][]string, table.RowCount)
		for row := range grid {
			grid[row] = make([]string, table.ColumnCount)
		}
		for _, cell := range table.Cells {
			if cell.RowIndex < table.RowCount && cell.ColumnIndex < table.ColumnCount {
				grid[cell.RowIndex][cell.ColumnIndex] = cell.Content
			}
		}

		for _, row := range grid {
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
