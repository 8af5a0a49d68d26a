package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamehub-dev/gamehub/internal/middleware"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/services"
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type EditCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	Author    UserResponse      `json:"author"`
	Replies   []CommentResponse `json:"replies"`
}

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create adds a top-level comment to the article, or a reply when the route
// carries a parent comment id.
func (h *CommentHandler) Create(ctx *gin.Context) {
	var req CreateCommentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := h.comments.CreateOrReply(
		ctx.Param("id"),
		ctx.Param("commentId"),
		middleware.CurrentUserID(ctx),
		req.Content,
	)

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h *CommentHandler) GetByID(ctx *gin.Context) {
	comment, err := h.comments.FindByID(ctx.Param("commentId"))

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, toCommentResponse(comment))
}

// GetByArticle returns the article's full comment tree.
func (h *CommentHandler) GetByArticle(ctx *gin.Context) {
	comments, err := h.comments.FindAllByArticleID(ctx.Param("id"))

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, toCommentResponses(comments))
}

func (h *CommentHandler) Edit(ctx *gin.Context) {
	var req EditCommentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.comments.Edit(ctx.Param("commentId"), middleware.CurrentUserID(ctx), req.Content)

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *CommentHandler) Delete(ctx *gin.Context) {
	if err := h.comments.Delete(ctx.Param("commentId"), middleware.CurrentUserID(ctx)); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func toCommentResponse(comment *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    toUserResponse(&comment.Author),
		Replies:   toCommentResponses(comment.Replies),
	}
}

func toCommentResponses(comments []models.Comment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))

	for i := range comments {
		resp = append(resp, toCommentResponse(&comments[i]))
	}

	return resp
}
