package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.3, 0.5, 0.2}

	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-6)

	// Mismatched or empty vectors score zero
	assert.Zero(t, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, CosineSimilarity(nil, []float32{1}))
	assert.Zero(t, CosineSimilarity([]float32{1}, nil))

	// Zero vectors must not divide by zero
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}

func makeChunk(source, chunkID, text string, vec []float32) models.DocumentChunk {
	chunk := models.DocumentChunk{Source: source, ChunkID: chunkID, Text: text}
	if err := chunk.SetVector(vec); err != nil {
		panic(err)
	}
	return chunk
}

func TestSearchSimilarRankingAndTopK(t *testing.T) {
	repo := newStubChunkRepo()
	require.NoError(t, repo.ReplaceSource("job_description", []models.DocumentChunk{
		makeChunk("job_description", "a", "orthogonal", []float32{0, 1, 0}),
		makeChunk("job_description", "b", "exact", []float32{1, 0, 0}),
		makeChunk("job_description", "c", "close", []float32{0.9, 0.1, 0}),
	}))

	rag := NewRAGService(repo, &stubGemini{}, NewTextChunker())

	results, err := rag.SearchSimilar([]float32{1, 0, 0}, []string{"job_description"}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "exact", results[0].Chunk.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "close", results[1].Chunk.Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchSimilarTieBreakDeterministic(t *testing.T) {
	repo := newStubChunkRepo()
	// Identical vectors, identical scores: order must fall back to chunk ID.
	require.NoError(t, repo.ReplaceSource("cv_rubric", []models.DocumentChunk{
		makeChunk("cv_rubric", "z-last", "tie one", []float32{1, 0}),
		makeChunk("cv_rubric", "a-first", "tie two", []float32{1, 0}),
	}))

	rag := NewRAGService(repo, &stubGemini{}, NewTextChunker())

	for i := 0; i < 5; i++ {
		results, err := rag.SearchSimilar([]float32{1, 0}, []string{"cv_rubric"}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a-first", results[0].Chunk.ChunkID)
		assert.Equal(t, "z-last", results[1].Chunk.ChunkID)
	}
}

func TestSearchSimilarNoMatchingSource(t *testing.T) {
	rag := NewRAGService(newStubChunkRepo(), &stubGemini{}, NewTextChunker())

	results, err := rag.SearchSimilar([]float32{1, 0}, []string{"nothing_here"}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIngestDocumentReplaceSemantics(t *testing.T) {
	repo := newStubChunkRepo()
	gemini := &stubGemini{embedFn: func(text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}}
	rag := NewRAGService(repo, gemini, NewTextChunker())
	ctx := context.Background()

	count, err := rag.IngestDocument(ctx, "job_description", "JD v1", "Old job description text.")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = rag.IngestDocument(ctx, "job_description", "JD v2", "New job description text.")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := rag.SearchSimilar([]float32{1, 0, 0}, []string{"job_description"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "New job description text.", results[0].Chunk.Text)
}

func TestIngestDocumentEmptyText(t *testing.T) {
	repo := newStubChunkRepo()
	rag := NewRAGService(repo, &stubGemini{}, NewTextChunker())
	ctx := context.Background()

	count, err := rag.IngestDocument(ctx, "case_study", "empty", "   \n\n  ")
	require.NoError(t, err)
	assert.Zero(t, count)

	results, err := rag.SearchSimilar([]float32{1, 0, 0}, []string{"case_study"}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIngestDocumentEmbeddingFailureLeavesOldChunks(t *testing.T) {
	repo := newStubChunkRepo()
	gemini := &stubGemini{}
	rag := NewRAGService(repo, gemini, NewTextChunker())
	ctx := context.Background()

	_, err := rag.IngestDocument(ctx, "project_rubric", "v1", "Original rubric.")
	require.NoError(t, err)

	gemini.embedFn = func(text string) ([]float32, error) {
		return nil, fmt.Errorf("provider unavailable")
	}

	_, err = rag.IngestDocument(ctx, "project_rubric", "v2", "Replacement rubric.")
	require.Error(t, err)

	// The failed replace must not have touched the committed set.
	results, searchErr := rag.SearchSimilar([]float32{1, 0, 0}, []string{"project_rubric"}, 3)
	require.NoError(t, searchErr)
	require.Len(t, results, 1)
	assert.Equal(t, "Original rubric.", results[0].Chunk.Text)
}

func TestRetrieveIdempotent(t *testing.T) {
	repo := newStubChunkRepo()
	gemini := &stubGemini{embedFn: func(text string) ([]float32, error) {
		if text == "query" {
			return []float32{1, 0}, nil
		}
		return []float32{0.8, 0.2}, nil
	}}
	rag := NewRAGService(repo, gemini, NewTextChunker())
	ctx := context.Background()

	_, err := rag.IngestDocument(ctx, "job_description", "JD", "Alpha.\n\nBeta.\n\nGamma.")
	require.NoError(t, err)

	first, err := rag.Retrieve(ctx, "query", []string{"job_description"}, 2)
	require.NoError(t, err)
	second, err := rag.Retrieve(ctx, "query", []string{"job_description"}, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
