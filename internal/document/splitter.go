package document

import "strings"

// Splitting parameters for file and URL sources. Character units.
// Pasted text is deliberately not split; see LoadText.
const (
	ChunkSize    = 1000
	ChunkOverlap = 200
)

// defaultSeparators are tried in order; the first one present in the text is
// used at that level, the remainder are used to re-split oversized pieces.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter implements recursive character splitting: split on the coarsest
// separator that appears in the text, greedily merge the pieces back into
// chunks of at most ChunkSize characters, and carry up to ChunkOverlap
// characters of trailing context into the next chunk. Pieces that are still
// too large are re-split with the finer separators.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewSplitter creates a splitter with the given chunk size and overlap.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = ChunkOverlap
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// SplitText splits text into chunks of at most chunkSize characters with up
// to chunkOverlap characters shared between consecutive chunks.
func (s *Splitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	return s.split(text, s.separators)
}

// SplitChunks splits each chunk's content, propagating its metadata to every
// resulting piece.
func (s *Splitter) SplitChunks(chunks []Chunk) []Chunk {
	var out []Chunk
	for _, c := range chunks {
		for _, piece := range s.SplitText(c.PageContent) {
			meta := make(map[string]string, len(c.Metadata))
			for k, v := range c.Metadata {
				meta[k] = v
			}
			out = append(out, Chunk{PageContent: piece, Metadata: meta})
		}
	}
	return out
}

func (s *Splitter) split(text string, separators []string) []string {
	// Pick the coarsest separator present in the text.
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	splits := splitOn(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		// Flush accumulated small pieces before recursing into the big one.
		if len(good) > 0 {
			final = append(final, s.merge(good, separator)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, separator)...)
	}
	return final
}

// merge greedily joins small pieces into chunks of at most chunkSize,
// sliding a window so consecutive chunks overlap by up to chunkOverlap.
func (s *Splitter) merge(pieces []string, separator string) []string {
	sepLen := len(separator)

	var docs []string
	var current []string
	total := 0

	for _, piece := range pieces {
		pl := len(piece)
		joinLen := 0
		if len(current) > 0 {
			joinLen = sepLen
		}
		if total+pl+joinLen > s.chunkSize && len(current) > 0 {
			if doc := joinPieces(current, separator); doc != "" {
				docs = append(docs, doc)
			}
			// Drop leading pieces until the retained tail fits within the
			// overlap budget and leaves room for the incoming piece.
			for total > s.chunkOverlap || (total+pl+joinLen > s.chunkSize && total > 0) {
				removed := len(current[0])
				if len(current) > 1 {
					removed += sepLen
				}
				total -= removed
				current = current[1:]
			}
		}
		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		total += pl
	}

	if doc := joinPieces(current, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinPieces(pieces []string, separator string) string {
	return strings.TrimSpace(strings.Join(pieces, separator))
}

// splitOn splits text on separator, dropping empty pieces. The empty
// separator splits into individual characters.
func splitOn(text, separator string) []string {
	var raw []string
	if separator == "" {
		raw = strings.Split(text, "")
	} else {
		raw = strings.Split(text, separator)
	}
	pieces := raw[:0]
	for _, p := range raw {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}
