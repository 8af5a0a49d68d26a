package services

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/disintegration/imaging"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/cache"
	"github.com/gamehub-dev/gamehub/internal/config"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

type ImageService struct {
	articles   *repository.ArticleRepository
	settings   *SettingsService
	cache      *cache.Cache
	cfg        config.ImageConfig
	backendURL string
}

func NewImageService(articles *repository.ArticleRepository, settings *SettingsService, c *cache.Cache, cfg config.ImageConfig, backendURL string) *ImageService {
	return &ImageService{
		articles:   articles,
		settings:   settings,
		cache:      c,
		cfg:        cfg,
		backendURL: backendURL,
	}
}

// Compress re-encodes the payload as JPEG at the configured quality. The
// declared content type must be on the allow-list and the result must fit
// the configured maximum.
func (s *ImageService) Compress(data []byte, contentType string) ([]byte, error) {
	if !slices.Contains(s.cfg.AllowedTypes, contentType) {
		return nil, apperr.Conflict("Unsupported image format: %s", contentType)
	}

	img, err := imaging.Decode(bytes.NewReader(data))

	if err != nil {
		return nil, apperr.Conflict("Unsupported image format: %s", contentType)
	}

	var buf bytes.Buffer

	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.cfg.JPEGQuality)); err != nil {
		return nil, err
	}

	result := buf.Bytes()

	if len(result) > s.cfg.MaxBytes {
		return nil, apperr.Conflict("Image exceeds the maximum allowed size")
	}

	return result, nil
}

// SaveContentImage stores an editor-uploaded image, compressing it when the
// application settings say so, and returns the URL it is served from.
func (s *ImageService) SaveContentImage(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", apperr.BadRequest("Empty image upload")
	}

	if len(data) > s.cfg.MaxBytes {
		return "", apperr.Conflict("Image exceeds the maximum allowed size")
	}

	settings, err := s.settings.Get()

	if err != nil {
		return "", err
	}

	image := &models.ArticleImage{
		Image:       data,
		ContentType: contentType,
	}

	if settings.CompressImages {
		compressed, err := s.Compress(data, contentType)

		if err != nil {
			return "", err
		}

		image.Image = compressed
		image.ContentType = "image/jpeg"
	}

	if err := s.articles.SaveImage(image); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/articles/image/%s", s.backendURL, image.ID), nil
}

// GetContentImages resolves a batch of image ids, cache first. Misses are
// loaded in a single store query and inserted into the cache only while the
// use-cache setting is on. Every requested id must resolve.
func (s *ImageService) GetContentImages(ids ...string) (map[string]*models.ArticleImage, error) {
	result := make(map[string]*models.ArticleImage, len(ids))

	var missing []string

	for _, id := range ids {
		if image, ok := s.cache.GetImage(id); ok {
			result[id] = image
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := s.articles.GetImages(missing)

	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get()

	if err != nil {
		return nil, err
	}

	for _, id := range missing {
		image, ok := loaded[id]

		if !ok {
			return nil, apperr.NotFound("Image %s not found", id)
		}

		if settings.UseCache {
			s.cache.SetImage(image)
		}

		result[id] = image
	}

	return result, nil
}
