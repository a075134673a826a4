package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Skill struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PortfolioID uuid.UUID `json:"portfolio_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Level       string    `json:"level"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
