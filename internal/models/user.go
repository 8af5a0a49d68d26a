package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAuthor     = "Author"
	RoleUser       = "User"
)

type User struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	Name           string
	Surname        string
	Role           string `gorm:"not null;default:User"`
	EmailConfirmed bool   `gorm:"not null;default:false"`

	ConfirmToken string
	ResetToken   string

	RefreshToken       string
	RefreshTokenExpiry time.Time

	// Relationships
	Avatar    *Avatar   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Articles  []Article `gorm:"foreignKey:AuthorID"`
	Favorites []Article `gorm:"many2many:user_favorites;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Avatar struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID      string `gorm:"type:char(36);uniqueIndex;not null"`
	Image       []byte `gorm:"not null"`
	ContentType string `gorm:"not null"`
}

func (a *Avatar) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
