package services

import (
	"strings"
)

const DefaultMaxChunkChars = 1500

type TextChunker interface {
	ChunkText(text string, maxChars int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits text into bounded segments. Blank lines delimit
// paragraph-like units; a unit longer than maxChars is sliced into
// consecutive maxChars-wide pieces with no regard for word boundaries.
// Output order follows source order.
func (tc *textChunker) ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		runes := []rune(para)
		if len(runes) <= maxChars {
			chunks = append(chunks, para)
			continue
		}

		for pos := 0; pos < len(runes); pos += maxChars {
			end := pos + maxChars
			if end > len(runes) {
				end = len(runes)
			}
			chunks = append(chunks, string(runes[pos:end]))
		}
	}

	return chunks
}
