package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumatch/internal/models"
)

type ChunkRepository interface {
	ReplaceSource(source string, chunks []models.DocumentChunk) error
	FindBySources(sources []string) ([]models.DocumentChunk, error)
	UpsertReferenceDocument(doc *models.ReferenceDocument) error
}

type chunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &chunkRepository{db: db}
}

// ReplaceSource swaps out every chunk under a source label in a single
// transaction. Readers see either the old set or the new set, never a mix.
func (r *chunkRepository) ReplaceSource(source string, chunks []models.DocumentChunk) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", source).Delete(&models.DocumentChunk{}).Error; err != nil {
			return fmt.Errorf("failed to delete chunks for source %s: %w", source, err)
		}
		if len(chunks) == 0 {
			return nil
		}
		if err := tx.Create(&chunks).Error; err != nil {
			return fmt.Errorf("failed to insert chunks for source %s: %w", source, err)
		}
		return nil
	})
}

func (r *chunkRepository) FindBySources(sources []string) ([]models.DocumentChunk, error) {
	var chunks []models.DocumentChunk
	if len(sources) == 0 {
		return chunks, nil
	}
	if err := r.db.Where("source IN ?", sources).Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("failed to find chunks: %w", err)
	}
	return chunks, nil
}

func (r *chunkRepository) UpsertReferenceDocument(doc *models.ReferenceDocument) error {
	doc.UpdatedAt = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
	}).Create(doc).Error
	if err != nil {
		return fmt.Errorf("failed to upsert reference document: %w", err)
	}
	return nil
}
