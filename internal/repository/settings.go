package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gamehub-dev/gamehub/internal/models"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the singleton settings row, or nil when it was never seeded.
func (r *SettingsRepository) Get() (*models.AppSettings, error) {
	var settings models.AppSettings

	err := r.db.First(&settings).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &settings, nil
}

// Upsert patches the singleton row in place, creating it on first write.
func (r *SettingsRepository) Upsert(settings *models.AppSettings) error {
	existing, err := r.Get()

	if err != nil {
		return err
	}

	if existing == nil {
		return r.db.Create(settings).Error
	}

	existing.StorageProvider = settings.StorageProvider
	existing.UseBlob = settings.UseBlob
	existing.UseCache = settings.UseCache
	existing.CompressImages = settings.CompressImages

	if err := r.db.Save(existing).Error; err != nil {
		return err
	}

	settings.ID = existing.ID

	return nil
}
