package retrieval

import "strings"

// DefaultMaxChunkLength is the nominal chunk size for knowledge-base passages.
const DefaultMaxChunkLength = 500

// Chunk splits text into passages of at most maxLength characters, preferring
// paragraph boundaries and falling back to sentence boundaries for oversized
// paragraphs. A single sentence longer than maxLength is emitted whole rather
// than truncated, so no content is ever lost. Input that is empty after
// trimming yields no chunks.
func Chunk(text string, maxLength int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var chunks []string
	current := ""

	flush := func() {
		if c := strings.TrimSpace(current); c != "" {
			chunks = append(chunks, c)
		}
		current = ""
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) > maxLength {
			flush()
			for _, sentence := range splitSentences(para) {
				if current != "" && len(current)+len(sentence) >= maxLength {
					flush()
				}
				current += sentence
			}
			continue
		}

		if current != "" && len(current)+len(para)+2 >= maxLength {
			flush()
		}
		current += para + "\n\n"
	}
	flush()

	if len(chunks) == 0 {
		return []string{trimmed}
	}
	return chunks
}

// splitSentences splits a paragraph on ". ", keeping the delimiter attached
// to every piece but the last.
func splitSentences(para string) []string {
	parts := strings.Split(para, ". ")
	for i := 0; i < len(parts)-1; i++ {
		parts[i] += ". "
	}
	return parts
}
