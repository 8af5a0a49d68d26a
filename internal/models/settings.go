package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StorageProviderDatabase = "database"
	StorageProviderBlob     = "blob"
)

// AppSettings is a singleton row upserted in place.
type AppSettings struct {
	ID string `gorm:"type:char(36);primaryKey"`

	StorageProvider string `gorm:"not null;default:database"`
	UseBlob         bool   `gorm:"not null;default:false"`
	UseCache        bool   `gorm:"not null;default:true"`
	CompressImages  bool   `gorm:"not null;default:false"`
}

func (s *AppSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
