package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/gamehub-dev/gamehub/internal/models"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) FindByNames(names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var tags []models.Tag

	if err := r.db.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}

	return tags, nil
}

// Top returns the tags used on the most articles.
func (r *TagRepository) Top(size int) ([]models.Tag, error) {
	var tags []models.Tag

	err := r.db.Model(&models.Tag{}).
		Where("EXISTS (SELECT 1 FROM article_tags j WHERE j.tag_id = tags.id)").
		Order("(SELECT COUNT(*) FROM article_tags j WHERE j.tag_id = tags.id) DESC").
		Limit(size).
		Find(&tags).Error

	if err != nil {
		return nil, err
	}

	return tags, nil
}

// Search returns tags whose name contains the term, ordered by the creation
// date of their most recent article.
func (r *TagRepository) Search(term string, sortDir SortDir) ([]models.Tag, error) {
	query := r.db.Model(&models.Tag{})

	if term != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	latest := "(SELECT MAX(a.created_at) FROM article_tags j JOIN articles a ON a.id = j.article_id WHERE j.tag_id = tags.id)"

	if sortDir == SortOldest {
		query = query.Order(latest + " ASC")
	} else {
		query = query.Order(latest + " DESC")
	}

	var tags []models.Tag

	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}

	return tags, nil
}
