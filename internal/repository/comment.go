package repository

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gamehub-dev/gamehub/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) Update(comment *models.Comment) error {
	return r.db.Omit(clause.Associations).Save(comment).Error
}

// SoftDelete marks the comment deleted without removing the row, so existing
// replies keep their parent.
func (r *CommentRepository) SoftDelete(comment *models.Comment) error {
	comment.IsDeleted = true
	return r.db.Model(comment).Update("is_deleted", true).Error
}

// FindAllByArticleID returns the top-level, non-deleted comments of an
// article, newest first, each with its reply subtree attached. The whole
// adjacency list is fetched in one query and assembled in memory.
func (r *CommentRepository) FindAllByArticleID(articleID string) ([]models.Comment, error) {
	all, err := r.loadArticleComments(articleID)

	if err != nil {
		return nil, err
	}

	return assembleTree(all, nil), nil
}

// FindByID returns a single non-deleted comment with its reply subtree, or
// nil when absent or soft-deleted.
func (r *CommentRepository) FindByID(id string) (*models.Comment, error) {
	var comment models.Comment

	err := r.db.
		Preload("Author").
		Preload("Author.Avatar").
		Preload("Article").
		Where("id = ? AND NOT is_deleted", id).
		First(&comment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	all, err := r.loadArticleComments(comment.ArticleID)

	if err != nil {
		return nil, err
	}

	comment.Replies = assembleTree(all, &comment.ID)

	return &comment, nil
}

// Search returns non-deleted comments whose content contains the term,
// ordered by their article's creation date.
func (r *CommentRepository) Search(term string, sortDir SortDir) ([]models.Comment, error) {
	query := r.db.Model(&models.Comment{}).Where("NOT is_deleted")

	if term != "" {
		query = query.Where("LOWER(content) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	articleCreated := "(SELECT a.created_at FROM articles a WHERE a.id = comments.article_id)"

	if sortDir == SortOldest {
		query = query.Order(articleCreated + " ASC")
	} else {
		query = query.Order(articleCreated + " DESC")
	}

	var comments []models.Comment

	err := query.
		Preload("Author").
		Preload("Author.Avatar").
		Preload("Article").
		Find(&comments).Error

	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *CommentRepository) loadArticleComments(articleID string) ([]models.Comment, error) {
	var all []models.Comment

	err := r.db.
		Preload("Author").
		Preload("Author.Avatar").
		Where("article_id = ? AND NOT is_deleted", articleID).
		Find(&all).Error

	if err != nil {
		return nil, err
	}

	return all, nil
}

// assembleTree links children to parents over the flat adjacency list and
// returns the children of root (nil root = top-level comments). Top-level
// comments come back newest first, replies oldest first.
func assembleTree(all []models.Comment, root *string) []models.Comment {
	children := make(map[string][]models.Comment)
	top := make([]models.Comment, 0)

	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		} else {
			top = append(top, c)
		}
	}

	var attach func(node *models.Comment)
	attach = func(node *models.Comment) {
		kids := children[node.ID]
		sort.SliceStable(kids, func(i, j int) bool {
			return kids[i].CreatedAt.Before(kids[j].CreatedAt)
		})
		node.Replies = kids
		for i := range node.Replies {
			attach(&node.Replies[i])
		}
	}

	if root != nil {
		parent := models.Comment{ID: *root}
		attach(&parent)
		return parent.Replies
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].CreatedAt.After(top[j].CreatedAt)
	})

	for i := range top {
		attach(&top[i])
	}

	return top
}
