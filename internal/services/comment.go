package services

import (
	"strings"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

type CommentService struct {
	comments *repository.CommentRepository
	users    *repository.UserRepository
	articles *repository.ArticleRepository
}

func NewCommentService(comments *repository.CommentRepository, users *repository.UserRepository, articles *repository.ArticleRepository) *CommentService {
	return &CommentService{comments: comments, users: users, articles: articles}
}

// Create adds a top-level comment to an article.
func (s *CommentService) Create(articleID, authorID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperr.BadRequest("Comment must not be blank")
	}

	author, err := s.users.FindByID(authorID)

	if err != nil {
		return nil, err
	}

	if author == nil {
		return nil, apperr.NotFound("User not found")
	}

	article, err := s.articles.FindByID(articleID)

	if err != nil {
		return nil, err
	}

	if article == nil {
		return nil, apperr.NotFound("Article not found")
	}

	comment := &models.Comment{
		Content:   content,
		AuthorID:  author.ID,
		ArticleID: article.ID,
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}

	comment.Author = *author

	return comment, nil
}

// Reply attaches a comment under an existing one; the reply lives on the
// parent's article.
func (s *CommentService) Reply(parentID, authorID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperr.BadRequest("Comment must not be blank")
	}

	author, err := s.users.FindByID(authorID)

	if err != nil {
		return nil, err
	}

	if author == nil {
		return nil, apperr.NotFound("User not found")
	}

	parent, err := s.comments.FindByID(parentID)

	if err != nil {
		return nil, err
	}

	if parent == nil {
		return nil, apperr.NotFound("Comment not found")
	}

	reply := &models.Comment{
		Content:   content,
		AuthorID:  author.ID,
		ArticleID: parent.ArticleID,
		ParentID:  &parent.ID,
	}

	if err := s.comments.Create(reply); err != nil {
		return nil, err
	}

	reply.Author = *author

	return reply, nil
}

// CreateOrReply creates a top-level comment when parentID is empty and a
// reply otherwise.
func (s *CommentService) CreateOrReply(articleID, parentID, authorID, content string) (*models.Comment, error) {
	if parentID == "" {
		return s.Create(articleID, authorID, content)
	}
	return s.Reply(parentID, authorID, content)
}

// Edit replaces a comment's content. Only the comment's author or a super
// admin may edit.
func (s *CommentService) Edit(id, callerID, content string) error {
	comment, _, err := s.authorize(id, callerID)

	if err != nil {
		return err
	}

	comment.Content = content

	return s.comments.Update(comment)
}

// Delete soft-marks a comment. Only the comment's author or a super admin
// may delete; replies stay in place.
func (s *CommentService) Delete(id, callerID string) error {
	comment, _, err := s.authorize(id, callerID)

	if err != nil {
		return err
	}

	return s.comments.SoftDelete(comment)
}

func (s *CommentService) FindAllByArticleID(articleID string) ([]models.Comment, error) {
	return s.comments.FindAllByArticleID(articleID)
}

func (s *CommentService) FindByID(id string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(id)

	if err != nil {
		return nil, err
	}

	if comment == nil {
		return nil, apperr.NotFound("Comment not found")
	}

	return comment, nil
}

// Search returns non-deleted comments whose content contains the term.
// Zero matches is a NotFound, matching the search endpoint's contract.
func (s *CommentService) Search(term string, sortDir repository.SortDir) ([]models.Comment, error) {
	comments, err := s.comments.Search(term, sortDir)

	if err != nil {
		return nil, err
	}

	if len(comments) == 0 {
		return nil, apperr.NotFound("No results")
	}

	return comments, nil
}

func (s *CommentService) authorize(id, callerID string) (*models.Comment, *models.User, error) {
	caller, err := s.users.FindByID(callerID)

	if err != nil {
		return nil, nil, err
	}

	comment, err := s.comments.FindByID(id)

	if err != nil {
		return nil, nil, err
	}

	if comment == nil {
		return nil, nil, apperr.NotFound("Comment not found")
	}

	if caller == nil || (callerID != comment.AuthorID && caller.Role != models.RoleSuperAdmin) {
		return nil, nil, apperr.Forbidden("Only the author or an administrator may modify this comment")
	}

	return comment, caller, nil
}
