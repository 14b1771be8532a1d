package extract

import (
	"encoding/json"
	"fmt"
	"sort"
)

// AnalyzeResult is the layout analysis result returned by the document
// intelligence service for the prebuilt-layout model.
type AnalyzeResult struct {
	Content    string      `json:"content"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Pages      []Page      `json:"pages"`
	Tables     []Table     `json:"tables"`
}

// Span locates a piece of content within the document's reading order.
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// BoundingRegion ties content to a page.
type BoundingRegion struct {
	PageNumber int `json:"pageNumber"`
}

// Paragraph is a block of text with an optional semantic role
// (e.g. title, sectionHeading, pageFooter).
type Paragraph struct {
	Content         string           `json:"content"`
	Role            string           `json:"role,omitempty"`
	Spans           []Span           `json:"spans"`
	BoundingRegions []BoundingRegion `json:"boundingRegions"`
}

// Page holds the raw lines of a single page.
type Page struct {
	PageNumber int    `json:"pageNumber"`
	Lines      []Line `json:"lines"`
}

// Line is a single line of recognized text.
type Line struct {
	Content string `json:"content"`
}

// Table is a recognized table with its cell grid.
type Table struct {
	RowCount        int              `json:"rowCount"`
	ColumnCount     int              `json:"columnCount"`
	Cells           []Cell           `json:"cells"`
	BoundingRegions []BoundingRegion `json:"boundingRegions"`
}

// Cell is a single table cell. Kind is "columnHeader" for header cells.
type Cell struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	Content     string `json:"content"`
	Kind        string `json:"kind,omitempty"`
	ColumnSpan  int    `json:"columnSpan,omitempty"`
}

// Block is a unit of extracted text content on a page.
type Block struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Role    string `json:"role,omitempty"`
}

// TableData is the extracted representation of a recognized table.
type TableData struct {
	TableID     int        `json:"tableId"`
	RowCount    int        `json:"rowCount"`
	ColumnCount int        `json:"columnCount"`
	PageNumbers []int      `json:"pageNumbers"`
	Cells       []CellData `json:"cells"`
}

// CellData is the extracted representation of a table cell.
type CellData struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	Content     string `json:"content"`
	IsHeader    bool   `json:"isHeader"`
	Spans       int    `json:"spans"`
}

// ParseResult decodes a layout analysis result.
func ParseResult(data []byte) (*AnalyzeResult, error) {
	var result AnalyzeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("error decoding analysis result: %w", err)
	}
	return &result, nil
}

// Text extracts the text content of the result, keyed by page number.
// Paragraphs are preferred and ordered by their span offset; when the result
// carries no paragraphs, the raw page lines are used instead.
func Text(result *AnalyzeResult) map[int][]Block {
	content := make(map[int][]Block)

	if len(result.Paragraphs) > 0 {
		paragraphs := make([]Paragraph, len(result.Paragraphs))
		copy(paragraphs, result.Paragraphs)
		sort.SliceStable(paragraphs, func(i, j int) bool {
			return spanOffset(paragraphs[i]) < spanOffset(paragraphs[j])
		})

		for _, p := range paragraphs {
			for _, region := range p.BoundingRegions {
				content[region.PageNumber] = append(content[region.PageNumber], Block{
					Type:    "paragraph",
					Content: p.Content,
					Role:    p.Role,
				})
			}
		}
	}

	if len(content) == 0 {
		for _, page := range result.Pages {
			blocks := []Block{}
			for _, line := range page.Lines {
				blocks = append(blocks, Block{Type: "line", Content: line.Content})
			}
			content[page.PageNumber] = blocks
		}
	}

	return content
}

// Tables extracts the recognized tables of the result.
func Tables(result *AnalyzeResult) []TableData {
	var tables []TableData

	for i, table := range result.Tables {
		data := TableData{
			TableID:     i,
			RowCount:    table.RowCount,
			ColumnCount: table.ColumnCount,
		}

		for _, region := range table.BoundingRegions {
			if !containsInt(data.PageNumbers, region.PageNumber) {
				data.PageNumbers = append(data.PageNumbers, region.PageNumber)
			}
		}

		for _, cell := range table.Cells {
			spans := cell.ColumnSpan
			if spans == 0 {
				spans = 1
			}
			data.Cells = append(data.Cells, CellData{
				RowIndex:    cell.RowIndex,
				ColumnIndex: cell.ColumnIndex,
				Content:     cell.Content,
				IsHeader:    cell.Kind == "columnHeader",
				Spans:       spans,
			})
		}

		tables = append(tables, data)
	}

	return tables
}

func spanOffset(p Paragraph) int {
	if len(p.Spans) == 0 {
		return 0
	}
	return p.Spans[0].Offset
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
