package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dcunha/narravox/internal/document"
)

// CSVExtractor handles CSV files by narrating each row as labeled cells.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Document{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]

	var blocks []string
	blocks = append(blocks, "Columns: "+strings.Join(headers, ", ")+".")

	for _, row := range records[1:] {
		var line strings.Builder
		for j, cell := range row {
			if j > 0 {
				line.WriteString(", ")
			}
			if j < len(headers) {
				line.WriteString(headers[j] + ": " + cell)
			} else {
				line.WriteString(cell)
			}
		}
		line.WriteString(".")
		blocks = append(blocks, line.String())
	}

	doc.Text = joinBlocks(blocks)
	return doc, nil
}
