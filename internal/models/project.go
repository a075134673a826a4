package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PortfolioID   uuid.UUID `json:"portfolio_id" gorm:"type:uuid;index;not null"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description"`
	GithubURL     string    `json:"github_url"`
	LiveURL       string    `json:"live_url"`
	Documentation string    `json:"documentation"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Media []Media `json:"media" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
