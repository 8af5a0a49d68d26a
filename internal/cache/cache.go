// Package cache is the process-local read cache in front of settings and
// image loads. Both stores are size-bounded LRUs with absolute expiration;
// each entry costs one slot.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gamehub-dev/gamehub/internal/models"
)

const (
	SettingsTTL = 30 * time.Minute
	ImageTTL    = 10 * time.Minute

	settingsKey = "application_settings"
)

type Cache struct {
	settings *lru.LRU[string, *models.AppSettings]
	images   *lru.LRU[string, *models.ArticleImage]
}

func New(capacity int) *Cache {
	return &Cache{
		settings: lru.NewLRU[string, *models.AppSettings](1, nil, SettingsTTL),
		images:   lru.NewLRU[string, *models.ArticleImage](capacity, nil, ImageTTL),
	}
}

func (c *Cache) GetSettings() (*models.AppSettings, bool) {
	return c.settings.Get(settingsKey)
}

func (c *Cache) SetSettings(settings *models.AppSettings) {
	c.settings.Add(settingsKey, settings)
}

func (c *Cache) GetImage(id string) (*models.ArticleImage, bool) {
	return c.images.Get(id)
}

func (c *Cache) SetImage(image *models.ArticleImage) {
	c.images.Add(image.ID, image)
}
