package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Media struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;index;not null"`
	URL       string    `json:"url" gorm:"not null"` // reference into object storage
	Type      string    `json:"type"`                // content-type hint for rendering
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
