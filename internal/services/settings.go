package services

import (
	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/cache"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

type SettingsService struct {
	settings *repository.SettingsRepository
	cache    *cache.Cache
}

func NewSettingsService(settings *repository.SettingsRepository, c *cache.Cache) *SettingsService {
	return &SettingsService{settings: settings, cache: c}
}

// Get returns the application settings, serving from the cache when a copy
// is present and loading through otherwise.
func (s *SettingsService) Get() (*models.AppSettings, error) {
	if cached, ok := s.cache.GetSettings(); ok {
		return cached, nil
	}

	settings, err := s.settings.Get()

	if err != nil {
		return nil, err
	}

	if settings == nil {
		return nil, apperr.NotFound("Application settings not found")
	}

	s.cache.SetSettings(settings)

	return settings, nil
}

// Upsert writes through to the store and patches any cached copy field by
// field rather than invalidating it. A Get racing this sees either the old
// or the new values, never a torn object.
func (s *SettingsService) Upsert(settings *models.AppSettings) error {
	if err := s.settings.Upsert(settings); err != nil {
		return err
	}

	if cached, ok := s.cache.GetSettings(); ok {
		cached.StorageProvider = settings.StorageProvider
		cached.UseBlob = settings.UseBlob
		cached.UseCache = settings.UseCache
		cached.CompressImages = settings.CompressImages
	}

	return nil
}
