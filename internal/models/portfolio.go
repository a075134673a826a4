package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Portfolio struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Populated on the public listing only.
	Username string `json:"username,omitempty" gorm:"-"`

	Projects []Project `json:"projects" gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE"`
	Skills   []Skill   `json:"skills" gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE"`
	Repos    []Repo    `json:"repos" gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE"`
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
