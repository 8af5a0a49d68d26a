package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gamehub-dev/gamehub/internal/models"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *ArticleRepository) Update(article *models.Article) error {
	if err := r.db.Model(article).Association("Tags").Replace(article.Tags); err != nil {
		return err
	}

	if article.GameInfo.ID != "" {
		if err := r.db.Save(&article.GameInfo).Error; err != nil {
			return err
		}
	}

	if article.Content.ID != "" {
		if err := r.db.Save(&article.Content).Error; err != nil {
			return err
		}
	}

	var previousImageID string

	if article.MainImage != nil {
		previousImageID = article.MainImageID

		if err := r.db.Save(article.MainImage).Error; err != nil {
			return err
		}

		article.MainImageID = article.MainImage.ID
	}

	if err := r.db.Omit(clause.Associations).Save(article).Error; err != nil {
		return err
	}

	// The replaced main image row is unreachable once the article points at
	// the new one.
	if previousImageID != "" && previousImageID != article.MainImageID {
		if err := r.db.Delete(&models.ArticleImage{}, "id = ?", previousImageID).Error; err != nil {
			return err
		}
	}

	return nil
}

// FindByID loads an article with author, game info, tags, content, and likes.
func (r *ArticleRepository) FindByID(id string) (*models.Article, error) {
	var article models.Article

	err := r.db.
		Preload("Author").
		Preload("Author.Avatar").
		Preload("GameInfo").
		Preload("Tags").
		Preload("Content").
		Preload("Likes").
		First(&article, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &article, nil
}

// GetPage returns one page of matching articles and the total page count.
func (r *ArticleRepository) GetPage(q ArticleQuery) ([]models.Article, int, error) {
	query := r.db.Model(&models.Article{})

	if q.FavoritesOf != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM user_favorites uf WHERE uf.article_id = articles.id AND uf.user_id = ?)",
			q.FavoritesOf,
		)
	}

	if q.Search != "" {
		switch q.FindBy {
		case FindAuthor:
			query = query.Where("articles.author_id = ?", q.Search)
			if q.ExcludeID != "" {
				query = query.Where("articles.id <> ?", q.ExcludeID)
			}
		case FindUsername:
			query = query.Where(
				"articles.author_id IN (SELECT u.id FROM users u WHERE u.username = ?)",
				q.Search,
			)
		case FindTag:
			// Tag names are accepted and stored either bare or "#"-prefixed.
			bare := strings.TrimPrefix(q.Search, "#")
			query = query.Where(
				"EXISTS (SELECT 1 FROM article_tags j JOIN tags t ON t.id = j.tag_id WHERE j.article_id = articles.id AND (t.name = ? OR t.name = ?))",
				bare, "#"+bare,
			)
		default:
			term := "%" + strings.ToLower(q.Search) + "%"
			query = query.Where(
				"LOWER(articles.name) LIKE ?"+
					" OR articles.author_id IN (SELECT u.id FROM users u WHERE LOWER(u.name) LIKE ?)"+
					" OR EXISTS (SELECT 1 FROM comments c WHERE c.article_id = articles.id AND NOT c.is_deleted AND LOWER(c.content) LIKE ?)",
				term, term, term,
			)
		}
	}

	var total int64

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Order {
	case OrderLikes:
		query = query.Order("(SELECT COUNT(*) FROM user_favorites uf WHERE uf.article_id = articles.id) DESC")
	default:
		if q.Sort == SortOldest {
			query = query.Order("articles.created_at ASC")
		} else {
			query = query.Order("articles.created_at DESC")
		}
	}

	var articles []models.Article

	err := query.
		Scopes(Paginate(q.Page, q.Size)).
		Preload("Author").
		Preload("Author.Avatar").
		Preload("GameInfo").
		Preload("Tags").
		Preload("Likes").
		Find(&articles).Error

	if err != nil {
		return nil, 0, err
	}

	return articles, TotalPages(total, q.Size), nil
}

// ToggleLike flips membership of the article in the user's favorites set.
func (r *ArticleRepository) ToggleLike(user *models.User, article *models.Article) error {
	var count int64

	err := r.db.Table("user_favorites").
		Where("user_id = ? AND article_id = ?", user.ID, article.ID).
		Count(&count).Error

	if err != nil {
		return err
	}

	assoc := r.db.Model(user).Association("Favorites")

	if count > 0 {
		return assoc.Delete(article)
	}

	return assoc.Append(article)
}

// AuthorsMatching returns the distinct authors of at least one article whose
// name, surname, or username contains the term, ordered by their most recent
// article.
func (r *ArticleRepository) AuthorsMatching(search string, sort SortDir) ([]models.User, error) {
	query := r.db.Model(&models.User{}).
		Where("EXISTS (SELECT 1 FROM articles a WHERE a.author_id = users.id)")

	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(users.name) LIKE ? OR LOWER(users.surname) LIKE ? OR LOWER(users.username) LIKE ?",
			term, term, term,
		)
	}

	latest := "(SELECT MAX(a.created_at) FROM articles a WHERE a.author_id = users.id)"

	if sort == SortOldest {
		query = query.Order(latest + " ASC")
	} else {
		query = query.Order(latest + " DESC")
	}

	var authors []models.User

	if err := query.Preload("Avatar").Find(&authors).Error; err != nil {
		return nil, err
	}

	return authors, nil
}

// TopAuthors orders authors by the total like count across their articles.
func (r *ArticleRepository) TopAuthors(size int) ([]models.User, error) {
	var authors []models.User

	err := r.db.Model(&models.User{}).
		Where("EXISTS (SELECT 1 FROM articles a WHERE a.author_id = users.id)").
		Order("(SELECT COUNT(*) FROM user_favorites uf JOIN articles a ON a.id = uf.article_id WHERE a.author_id = users.id) DESC").
		Limit(size).
		Preload("Avatar").
		Find(&authors).Error

	if err != nil {
		return nil, err
	}

	return authors, nil
}

func (r *ArticleRepository) SaveImage(image *models.ArticleImage) error {
	return r.db.Create(image).Error
}

// GetImages loads a batch of images keyed by id.
func (r *ArticleRepository) GetImages(ids []string) (map[string]*models.ArticleImage, error) {
	var images []models.ArticleImage

	if err := r.db.Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, err
	}

	result := make(map[string]*models.ArticleImage, len(images))

	for idx := range images {
		result[images[idx].ID] = &images[idx]
	}

	return result, nil
}

// Delete removes the article and its owned rows: game info, content, main
// image, comments, and both join tables. Matches the store-cascade the
// original schema expects.
func (r *ArticleRepository) Delete(id string) error {
	var article models.Article

	if err := r.db.First(&article, "id = ?", id).Error; err != nil {
		return err
	}

	if err := r.db.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	if err := r.db.Where("article_id = ?", id).Delete(&models.GameInfo{}).Error; err != nil {
		return err
	}

	if err := r.db.Where("article_id = ?", id).Delete(&models.ArticleContent{}).Error; err != nil {
		return err
	}

	if err := r.db.Exec("DELETE FROM article_tags WHERE article_id = ?", id).Error; err != nil {
		return err
	}

	if err := r.db.Exec("DELETE FROM user_favorites WHERE article_id = ?", id).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&models.Article{}, "id = ?", id).Error; err != nil {
		return err
	}

	if article.MainImageID != "" {
		if err := r.db.Delete(&models.ArticleImage{}, "id = ?", article.MainImageID).Error; err != nil {
			return err
		}
	}

	return nil
}
