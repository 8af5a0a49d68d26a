package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is soft-deleted: IsDeleted marks it gone from every read path while
// the row stays in place so reply trees keep their structure.
type Comment struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Content   string `gorm:"not null"`
	IsDeleted bool   `gorm:"not null;default:false"`

	AuthorID  string  `gorm:"type:char(36);not null;index"`
	ArticleID string  `gorm:"type:char(36);not null;index"`
	ParentID  *string `gorm:"type:char(36);index"`

	// Relationships
	Author  User      `gorm:"foreignKey:AuthorID"`
	Article Article   `gorm:"foreignKey:ArticleID"`
	Replies []Comment `gorm:"foreignKey:ParentID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
