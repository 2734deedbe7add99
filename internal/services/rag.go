package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/google/uuid"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
)

// RAGService is the retrieval engine: it owns chunk ingestion (replace by
// source label) and exact cosine-similarity lookup over the stored vectors.
// The corpus is a handful of reference documents, so search is a linear scan
// over the candidate rows; no index involved.
type RAGService interface {
	IngestDocument(ctx context.Context, source, title, text string) (int, error)
	SearchSimilar(queryVec []float32, sources []string, topK int) ([]RetrievedChunk, error)
	Retrieve(ctx context.Context, query string, sources []string, topK int) ([]RetrievedChunk, error)
}

type RetrievedChunk struct {
	Chunk models.DocumentChunk
	Score float64
}

type ragService struct {
	chunkRepo repositories.ChunkRepository
	gemini    GeminiService
	chunker   TextChunker
}

func NewRAGService(
	chunkRepo repositories.ChunkRepository,
	gemini GeminiService,
	chunker TextChunker,
) RAGService {
	return &ragService{
		chunkRepo: chunkRepo,
		gemini:    gemini,
		chunker:   chunker,
	}
}

// IngestDocument replaces every chunk under the source label with a freshly
// chunked and embedded set. All embeddings are computed before anything is
// written, so an embedding failure mid-batch leaves the previous chunks
// intact. Returns the number of chunks stored.
func (r *ragService) IngestDocument(ctx context.Context, source, title, text string) (int, error) {
	pieces := r.chunker.ChunkText(text, DefaultMaxChunkChars)

	chunks := make([]models.DocumentChunk, 0, len(pieces))
	for _, piece := range pieces {
		vec, err := r.gemini.GenerateEmbedding(ctx, piece)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk for source %s: %w", source, err)
		}

		chunk := models.DocumentChunk{
			ID:      uuid.New(),
			Source:  source,
			ChunkID: uuid.New().String(),
			Text:    piece,
		}
		if err := chunk.SetVector(vec); err != nil {
			return 0, fmt.Errorf("failed to serialize embedding: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := r.chunkRepo.ReplaceSource(source, chunks); err != nil {
		return 0, err
	}

	refDoc := &models.ReferenceDocument{
		ID:       uuid.New(),
		Title:    title,
		Category: source,
		Content:  text,
	}
	if err := r.chunkRepo.UpsertReferenceDocument(refDoc); err != nil {
		// Bookkeeping only; the chunks are already committed.
		log.Printf("⚠️ Failed to record reference document for %s: %v", source, err)
	}

	log.Printf("📚 Ingested %d chunks for source %s", len(chunks), source)
	return len(chunks), nil
}

// SearchSimilar scores every candidate chunk under the given source labels
// against the query vector and returns the topK best, descending. Ties break
// on chunk ID so repeated calls return identical orderings.
func (r *ragService) SearchSimilar(queryVec []float32, sources []string, topK int) ([]RetrievedChunk, error) {
	candidates, err := r.chunkRepo.FindBySources(sources)
	if err != nil {
		return nil, err
	}

	results := make([]RetrievedChunk, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, RetrievedChunk{
			Chunk: c,
			Score: CosineSimilarity(queryVec, c.Vector()),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ChunkID < results[j].Chunk.ChunkID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Retrieve embeds the query and delegates to SearchSimilar.
func (r *ragService) Retrieve(ctx context.Context, query string, sources []string, topK int) ([]RetrievedChunk, error) {
	queryVec, err := r.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return r.SearchSimilar(queryVec, sources, topK)
}

// CosineSimilarity is dot(a,b) / (‖a‖·‖b‖ + ε). Mismatched or empty vectors
// score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-12)
}
