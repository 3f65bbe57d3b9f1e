package document

// LoadText wraps pasted text as a single chunk labeled "pasted-text".
// No splitting is applied: the pasted-text path predates the splitter and
// existing collections depend on whole submissions being retrievable as one
// chunk.
func LoadText(text string) []Chunk {
	return []Chunk{{
		PageContent: text,
		Metadata:    map[string]string{MetaSource: PastedTextSource},
	}}
}
