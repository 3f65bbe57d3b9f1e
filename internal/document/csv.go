package document

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LoadCSV extracts one document per CSV row, rendering each row as
// "header: value" lines, then splits and cleans the result. name is the
// uploaded file's display name and becomes the fallback source.
func LoadCSV(r io.Reader, name string) ([]Chunk, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv %q is empty", name)
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var raw []Chunk
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		var b strings.Builder
		for i, field := range record {
			col := fmt.Sprintf("column%d", i+1)
			if i < len(header) {
				col = header[i]
			}
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(col)
			b.WriteString(": ")
			b.WriteString(field)
		}
		raw = append(raw, Chunk{PageContent: b.String(), Metadata: map[string]string{}})
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("csv %q has no data rows", name)
	}

	split := NewSplitter(ChunkSize, ChunkOverlap).SplitChunks(raw)
	return Clean(split, name), nil
}
