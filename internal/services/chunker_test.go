package services

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1500))
	assert.Empty(t, chunker.ChunkText("   \n\n  \t ", 1500))
}

func TestChunkTextParagraphSplit(t *testing.T) {
	chunker := NewTextChunker()

	text := "First paragraph.\n\nSecond paragraph.\n\n\n\nThird paragraph."
	chunks := chunker.ChunkText(text, 1500)

	require.Len(t, chunks, 3)
	assert.Equal(t, "First paragraph.", chunks[0])
	assert.Equal(t, "Second paragraph.", chunks[1])
	assert.Equal(t, "Third paragraph.", chunks[2])
}

func TestChunkTextSlicesLongParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	long := strings.Repeat("abcdefghij", 25) // 250 chars, no blank lines
	chunks := chunker.ChunkText(long, 100)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 50)
	assert.Equal(t, long, strings.Join(chunks, ""))
}

func TestChunkTextPreservesContentAndBounds(t *testing.T) {
	chunker := NewTextChunker()

	inputs := []string{
		"Senior backend engineer. 5 years Go.",
		"para one\n\n" + strings.Repeat("x", 4000) + "\n\npara three",
		strings.Repeat("word ", 1000),
		"unicode: héllo wörld ünïcode\n\n" + strings.Repeat("é", 2000),
	}

	for _, input := range inputs {
		chunks := chunker.ChunkText(input, 1500)

		for _, chunk := range chunks {
			assert.LessOrEqual(t, len([]rune(chunk)), 1500)
			assert.NotEmpty(t, strings.TrimSpace(chunk))
		}

		// All non-whitespace characters survive, in order.
		assert.Equal(t, stripWhitespace(input), stripWhitespace(strings.Join(chunks, "")))
	}
}

func TestChunkTextDefaultMaxChars(t *testing.T) {
	chunker := NewTextChunker()

	long := strings.Repeat("a", DefaultMaxChunkChars+1)
	chunks := chunker.ChunkText(long, 0)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], DefaultMaxChunkChars)
	assert.Len(t, chunks[1], 1)
}

func TestChunkTextDeterministic(t *testing.T) {
	chunker := NewTextChunker()

	text := "alpha\n\nbeta\n\n" + strings.Repeat("gamma ", 500)
	first := chunker.ChunkText(text, 300)
	second := chunker.ChunkText(text, 300)

	assert.Equal(t, first, second)
}
