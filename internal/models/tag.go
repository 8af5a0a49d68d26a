package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID   string `gorm:"type:char(36);primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`

	// Relationships
	Articles []Article `gorm:"many2many:article_tags"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
