// Package document normalizes raw input — pasted text, uploaded PDF/CSV
// files, crawled web pages — into an ordered sequence of text chunks with
// cleaned source metadata. Chunks are the unit of embedding and retrieval.
package document

// Source type identifiers accepted by the ingestion endpoint.
const (
	SourceTypeText = "text"
	SourceTypeFile = "file"
	SourceTypeURL  = "url"
)

// PastedTextSource is the source label attached to pasted-text chunks.
const PastedTextSource = "pasted-text"

// Chunk is a contiguous slice of a source's text after splitting.
// Metadata is sparse: only source, url and title survive cleaning.
// Chunks are never mutated after creation.
type Chunk struct {
	PageContent string            `json:"pageContent"`
	Metadata    map[string]string `json:"metadata"`
}

// metadata keys that survive Clean.
const (
	MetaSource = "source"
	MetaURL    = "url"
	MetaTitle  = "title"
)

// Clean strips chunk metadata down to the source/url/title keys and applies
// fallbackSource wherever a chunk has no source of its own. Every returned
// chunk carries a non-empty source when a fallback is supplied.
func Clean(chunks []Chunk, fallbackSource string) []Chunk {
	cleaned := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		meta := make(map[string]string)
		for _, key := range []string{MetaSource, MetaURL, MetaTitle} {
			if v, ok := c.Metadata[key]; ok && v != "" {
				meta[key] = v
			}
		}
		if meta[MetaSource] == "" && fallbackSource != "" {
			meta[MetaSource] = fallbackSource
		}
		cleaned = append(cleaned, Chunk{PageContent: c.PageContent, Metadata: meta})
	}
	return cleaned
}
