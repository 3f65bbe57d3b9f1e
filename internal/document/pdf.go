package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LoadPDF extracts plain text from a PDF, one raw document per page, then
// splits and cleans the result. name is the uploaded file's display name and
// becomes the fallback source. data must be the complete file contents.
func LoadPDF(data []byte, name string) ([]Chunk, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf %q: %w", name, err)
	}

	var raw []Chunk
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the whole file.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		raw = append(raw, Chunk{PageContent: text, Metadata: map[string]string{}})
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("pdf %q contains no extractable text", name)
	}

	split := NewSplitter(ChunkSize, ChunkOverlap).SplitChunks(raw)
	return Clean(split, name), nil
}
