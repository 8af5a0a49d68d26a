package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Article struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string `gorm:"not null"`
	Description string
	Published   time.Time

	AuthorID string `gorm:"type:char(36);not null;index"`

	MainImageID string `gorm:"type:char(36)"`

	// Relationships
	Author    User           `gorm:"foreignKey:AuthorID"`
	GameInfo  GameInfo       `gorm:"foreignKey:ArticleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Content   ArticleContent `gorm:"foreignKey:ArticleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	MainImage *ArticleImage  `gorm:"foreignKey:MainImageID"`
	Tags      []Tag          `gorm:"many2many:article_tags"`
	Comments  []Comment      `gorm:"foreignKey:ArticleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Likes     []User         `gorm:"many2many:user_favorites;joinForeignKey:ArticleID;joinReferences:UserID"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type GameInfo struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	ArticleID string `gorm:"type:char(36);uniqueIndex;not null"`

	GameType string
	Platform string
	Year     int
}

func (g *GameInfo) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

type ArticleContent struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	ArticleID string `gorm:"type:char(36);uniqueIndex;not null"`

	Content string `gorm:"type:text"`
}

func (c *ArticleContent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ArticleImage is stored outside the article row. Content images uploaded
// through the editor are rows without a backreference; the main image is
// pointed at by Article.MainImageID.
type ArticleImage struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time

	Image       []byte `gorm:"not null"`
	ContentType string `gorm:"not null"`
}

func (i *ArticleImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
