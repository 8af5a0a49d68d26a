package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamehub-dev/gamehub/internal/middleware"
	"github.com/gamehub-dev/gamehub/internal/repository"
	"github.com/gamehub-dev/gamehub/internal/services"
)

type CommentSearchResponse struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Author      UserResponse `json:"author"`
	ArticleID   string       `json:"articleId"`
	ArticleName string       `json:"articleName"`
}

type SearchHandler struct {
	articles *services.ArticleService
	comments *services.CommentService
}

func NewSearchHandler(articles *services.ArticleService, comments *services.CommentService) *SearchHandler {
	return &SearchHandler{articles: articles, comments: comments}
}

// Search dispatches on the category query value: articles, tags, users, or
// comments. The article category pages like the listing endpoint; the other
// categories return NotFound on zero matches.
func (h *SearchHandler) Search(ctx *gin.Context) {
	term := ctx.Query("query")
	sortDir := repository.SortDir(ctx.DefaultQuery("sort", string(repository.SortNewest)))

	switch ctx.Query("category") {
	case "articles":
		h.searchArticles(ctx, term, sortDir)
	case "tags":
		h.searchTags(ctx, term, sortDir)
	case "users":
		h.searchUsers(ctx, term, sortDir)
	case "comments":
		h.searchComments(ctx, term, sortDir)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown search category"})
	}
}

func (h *SearchHandler) searchArticles(ctx *gin.Context, term string, sortDir repository.SortDir) {
	page, size := pageParams(ctx)

	items, totalPages, err := h.articles.GetPage(services.ListQuery{
		Search: term,
		Order:  repository.OrderKey(ctx.DefaultQuery("order", string(repository.OrderCreated))),
		Sort:   sortDir,
		Page:   page,
		Size:   size,
	}, middleware.CurrentUserID(ctx))

	if err != nil {
		ctx.Error(err)
		return
	}

	resp := ArticlePageResponse{
		Articles:    make([]ArticlePreviewResponse, 0, len(items)),
		TotalPages:  totalPages,
		CurrentPage: page,
	}

	for _, item := range items {
		resp.Articles = append(resp.Articles, toArticlePreview(item.Article, item.Image, item.Liked))
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *SearchHandler) searchTags(ctx *gin.Context, term string, sortDir repository.SortDir) {
	tags, err := h.articles.SearchTags(term, sortDir)

	if err != nil {
		ctx.Error(err)
		return
	}

	resp := make([]string, 0, len(tags))

	for _, tag := range tags {
		resp = append(resp, tag.Name)
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *SearchHandler) searchUsers(ctx *gin.Context, term string, sortDir repository.SortDir) {
	authors, err := h.articles.SearchAuthors(term, sortDir)

	if err != nil {
		ctx.Error(err)
		return
	}

	resp := make([]UserResponse, 0, len(authors))

	for i := range authors {
		resp = append(resp, toUserResponse(&authors[i]))
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *SearchHandler) searchComments(ctx *gin.Context, term string, sortDir repository.SortDir) {
	comments, err := h.comments.Search(term, sortDir)

	if err != nil {
		ctx.Error(err)
		return
	}

	resp := make([]CommentSearchResponse, 0, len(comments))

	for i := range comments {
		resp = append(resp, CommentSearchResponse{
			ID:          comments[i].ID,
			Content:     comments[i].Content,
			Author:      toUserResponse(&comments[i].Author),
			ArticleID:   comments[i].ArticleID,
			ArticleName: comments[i].Article.Name,
		})
	}

	ctx.JSON(http.StatusOK, resp)
}
