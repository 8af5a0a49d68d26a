package services

import (
	"encoding/base64"
	"time"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/config"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

const (
	maxArticleTags = 5
	minGameYear    = 1000
	maxGameYear    = 3000

	moreFromAuthorCount = 5
)

// ArticleInput is the write shape for create and update.
type ArticleInput struct {
	Name        string
	Description string
	Content     string
	GameType    string
	Platform    string
	Year        int
	MainImage   string // base64
	ContentType string
	Tags        []string
}

// ListQuery is the read shape for listings.
type ListQuery struct {
	Search    string
	FindBy    repository.FindBy
	Favorites bool
	Order     repository.OrderKey
	Sort      repository.SortDir
	Page      int
	Size      int
}

// ArticleListItem pairs an article with its resolved main image and the
// caller's like state.
type ArticleListItem struct {
	Article *models.Article
	Image   *models.ArticleImage
	Liked   bool
}

// ArticleDetail is the full read shape for a single article.
type ArticleDetail struct {
	Article        *models.Article
	Image          *models.ArticleImage
	Liked          bool
	MoreFromAuthor []models.Article
}

type ArticleService struct {
	articles *repository.ArticleRepository
	comments *repository.CommentRepository
	tags     *repository.TagRepository
	users    *repository.UserRepository
	images   *ImageService
	settings *SettingsService
	cfg      config.ImageConfig
}

func NewArticleService(
	articles *repository.ArticleRepository,
	comments *repository.CommentRepository,
	tags *repository.TagRepository,
	users *repository.UserRepository,
	images *ImageService,
	settings *SettingsService,
	cfg config.ImageConfig,
) *ArticleService {
	return &ArticleService{
		articles: articles,
		comments: comments,
		tags:     tags,
		users:    users,
		images:   images,
		settings: settings,
		cfg:      cfg,
	}
}

// Create validates the input against the article invariants and stores the
// article with its game info, content, main image, and tags.
func (s *ArticleService) Create(authorID string, in ArticleInput) (*models.Article, error) {
	author, err := s.users.FindByID(authorID)

	if err != nil {
		return nil, err
	}

	if author == nil {
		return nil, apperr.NotFound("User not found")
	}

	if err := validateYear(in.Year); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(in.Tags)

	if err != nil {
		return nil, err
	}

	imageBytes, contentType, err := s.prepareMainImage(in.MainImage, in.ContentType)

	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Name:        in.Name,
		Description: in.Description,
		Published:   time.Now().UTC(),
		AuthorID:    author.ID,
		GameInfo: models.GameInfo{
			GameType: in.GameType,
			Platform: in.Platform,
			Year:     in.Year,
		},
		Content: models.ArticleContent{Content: in.Content},
		MainImage: &models.ArticleImage{
			Image:       imageBytes,
			ContentType: contentType,
		},
		Tags: tags,
	}

	if err := s.articles.Create(article); err != nil {
		return nil, err
	}

	article.Author = *author

	return article, nil
}

// Update rewrites an article in place. Authors may only touch their own
// articles; super admins may touch any.
func (s *ArticleService) Update(articleID, callerID string, in ArticleInput) error {
	article, err := s.authorize(articleID, callerID)

	if err != nil {
		return err
	}

	if err := validateYear(in.Year); err != nil {
		return err
	}

	tags, err := s.resolveTags(in.Tags)

	if err != nil {
		return err
	}

	imageBytes, contentType, err := s.prepareMainImage(in.MainImage, in.ContentType)

	if err != nil {
		return err
	}

	article.Name = in.Name
	article.Description = in.Description
	article.GameInfo.GameType = in.GameType
	article.GameInfo.Platform = in.Platform
	article.GameInfo.Year = in.Year
	article.Content.Content = in.Content
	article.Tags = tags

	if article.MainImage == nil {
		article.MainImage = &models.ArticleImage{}
	}

	article.MainImage.Image = imageBytes
	article.MainImage.ContentType = contentType

	return s.articles.Update(article)
}

// Delete removes the article and everything it owns, with the same
// author-or-admin rule as Update.
func (s *ArticleService) Delete(articleID, callerID string) error {
	if _, err := s.authorize(articleID, callerID); err != nil {
		return err
	}

	return s.articles.Delete(articleID)
}

// GetPage returns one page of article previews with images and the caller's
// like states. A zero-match page is a valid empty page.
func (s *ArticleService) GetPage(q ListQuery, callerID string) ([]ArticleListItem, int, error) {
	var caller *models.User

	if callerID != "" {
		var err error

		caller, err = s.users.FindByID(callerID)

		if err != nil {
			return nil, 0, err
		}
	}

	if q.Favorites && caller == nil {
		return nil, 0, apperr.Forbidden("Sign in to filter by favorites")
	}

	repoQuery := repository.ArticleQuery{
		Search: q.Search,
		FindBy: q.FindBy,
		Order:  q.Order,
		Sort:   q.Sort,
		Page:   q.Page,
		Size:   q.Size,
	}

	if q.Favorites {
		repoQuery.FavoritesOf = caller.ID
	}

	articles, totalPages, err := s.articles.GetPage(repoQuery)

	if err != nil {
		return nil, 0, err
	}

	items, err := s.toListItems(articles, caller)

	if err != nil {
		return nil, 0, err
	}

	return items, totalPages, nil
}

// GetByID returns the article detail: comment tree, main image, like state
// for the caller, and up to five more articles by the same author.
func (s *ArticleService) GetByID(id, callerID string) (*ArticleDetail, error) {
	article, err := s.articles.FindByID(id)

	if err != nil {
		return nil, err
	}

	if article == nil {
		return nil, apperr.NotFound("Article not found")
	}

	comments, err := s.comments.FindAllByArticleID(id)

	if err != nil {
		return nil, err
	}

	article.Comments = comments

	var image *models.ArticleImage

	if article.MainImageID != "" {
		images, err := s.images.GetContentImages(article.MainImageID)

		if err != nil {
			return nil, err
		}

		image = images[article.MainImageID]
	}

	more, _, err := s.articles.GetPage(repository.ArticleQuery{
		Search:    article.AuthorID,
		FindBy:    repository.FindAuthor,
		ExcludeID: article.ID,
		Page:      1,
		Size:      moreFromAuthorCount,
	})

	if err != nil {
		return nil, err
	}

	detail := &ArticleDetail{
		Article:        article,
		Image:          image,
		MoreFromAuthor: more,
	}

	if callerID != "" {
		for _, u := range article.Likes {
			if u.ID == callerID {
				detail.Liked = true
				break
			}
		}
	}

	return detail, nil
}

// LikeBy toggles the caller's like on an article.
func (s *ArticleService) LikeBy(articleID, callerID string) error {
	caller, err := s.users.FindByID(callerID)

	if err != nil {
		return err
	}

	if caller == nil {
		return apperr.Forbidden("Sign in to like articles")
	}

	article, err := s.articles.FindByID(articleID)

	if err != nil {
		return err
	}

	if article == nil {
		return apperr.NotFound("Article not found")
	}

	return s.articles.ToggleLike(caller, article)
}

// TopAuthors lists authors by total likes across their articles.
func (s *ArticleService) TopAuthors(size int) ([]models.User, error) {
	return s.articles.TopAuthors(size)
}

// TopTags lists the most used tags.
func (s *ArticleService) TopTags(size int) ([]models.Tag, error) {
	return s.tags.Top(size)
}

// SearchAuthors finds article authors matching the term. Zero matches is a
// NotFound, matching the search endpoint's contract.
func (s *ArticleService) SearchAuthors(term string, sortDir repository.SortDir) ([]models.User, error) {
	authors, err := s.articles.AuthorsMatching(term, sortDir)

	if err != nil {
		return nil, err
	}

	if len(authors) == 0 {
		return nil, apperr.NotFound("No results")
	}

	return authors, nil
}

// SearchTags finds tags matching the term, NotFound on zero matches.
func (s *ArticleService) SearchTags(term string, sortDir repository.SortDir) ([]models.Tag, error) {
	tags, err := s.tags.Search(term, sortDir)

	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, apperr.NotFound("No results")
	}

	return tags, nil
}

func (s *ArticleService) toListItems(articles []models.Article, caller *models.User) ([]ArticleListItem, error) {
	items := make([]ArticleListItem, 0, len(articles))

	ids := make([]string, 0, len(articles))

	for i := range articles {
		if articles[i].MainImageID != "" {
			ids = append(ids, articles[i].MainImageID)
		}
	}

	var images map[string]*models.ArticleImage

	if len(ids) > 0 {
		var err error

		images, err = s.images.GetContentImages(ids...)

		if err != nil {
			return nil, err
		}
	}

	for i := range articles {
		item := ArticleListItem{Article: &articles[i]}

		if articles[i].MainImageID != "" {
			item.Image = images[articles[i].MainImageID]
		}

		if caller != nil {
			for _, u := range articles[i].Likes {
				if u.ID == caller.ID {
					item.Liked = true
					break
				}
			}
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *ArticleService) authorize(articleID, callerID string) (*models.Article, error) {
	caller, err := s.users.FindByID(callerID)

	if err != nil {
		return nil, err
	}

	if caller == nil {
		return nil, apperr.Forbidden("Sign in to modify articles")
	}

	article, err := s.articles.FindByID(articleID)

	if err != nil {
		return nil, err
	}

	if article == nil {
		return nil, apperr.NotFound("Article not found")
	}

	if caller.Role != models.RoleSuperAdmin && article.AuthorID != caller.ID {
		return nil, apperr.Forbidden("Only the author or an administrator may modify this article")
	}

	return article, nil
}

// validateYear accepts 0 as "not specified" and otherwise requires a value
// inside the plausible release window.
func validateYear(year int) error {
	if year > maxGameYear || (year < minGameYear && year != 0) {
		return apperr.Conflict("Year must be 0 or between %d and %d", minGameYear, maxGameYear)
	}
	return nil
}

// resolveTags reuses existing tag rows by name and creates the rest
// implicitly, enforcing the per-article tag budget.
func (s *ArticleService) resolveTags(names []string) ([]models.Tag, error) {
	if len(names) > maxArticleTags {
		return nil, apperr.Conflict("An article can carry at most %d tags", maxArticleTags)
	}

	existing, err := s.tags.FindByNames(names)

	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(existing))

	for _, tag := range existing {
		known[tag.Name] = true
	}

	tags := existing

	for _, name := range names {
		if !known[name] {
			tags = append(tags, models.Tag{Name: name})
			known[name] = true
		}
	}

	return tags, nil
}

// prepareMainImage decodes the payload and compresses it when the current
// settings require, enforcing the size limit either way.
func (s *ArticleService) prepareMainImage(encoded, contentType string) ([]byte, string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)

	if err != nil {
		return nil, "", apperr.BadRequest("Main image is not valid base64")
	}

	settings, err := s.settings.Get()

	if err != nil {
		return nil, "", err
	}

	if settings.CompressImages {
		compressed, err := s.images.Compress(data, contentType)

		if err != nil {
			return nil, "", err
		}

		return compressed, "image/jpeg", nil
	}

	if len(data) >= s.cfg.MaxBytes {
		return nil, "", apperr.Conflict("Image exceeds the maximum allowed size")
	}

	return data, contentType, nil
}
