package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PortfolioID uuid.UUID `json:"portfolio_id" gorm:"type:uuid;index;not null"`
	RepoURL     string    `json:"repo_url" gorm:"not null"`
	RepoName    string    `json:"repo_name" gorm:"not null"` // last path segment of the URL
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (r *Repo) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
