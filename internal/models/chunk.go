package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one bounded segment of a reference document, stored with
// its embedding vector serialized as a JSON float array. Chunks are grouped
// and replaced by source label.
type DocumentChunk struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Source    string    `gorm:"type:text;not null;index" json:"source"`
	ChunkID   string    `gorm:"type:text;not null" json:"chunk_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Embedding string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

func (c *DocumentChunk) SetVector(vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	c.Embedding = string(data)
	return nil
}

// Vector deserializes the stored embedding. A malformed column yields an
// empty vector, which similarity scoring treats as score 0.
func (c *DocumentChunk) Vector() []float32 {
	var vec []float32
	if err := json.Unmarshal([]byte(c.Embedding), &vec); err != nil {
		return nil
	}
	return vec
}

// ReferenceDocument is a bookkeeping record for an ingested source document.
// Retrieval only reads chunks; this row exists so admins can see what was
// ingested and when.
type ReferenceDocument struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title     string    `gorm:"type:text" json:"title"`
	Category  string    `gorm:"type:text;not null;uniqueIndex" json:"category"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ReferenceDocument) TableName() string {
	return "reference_documents"
}
