package handlers

import (
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamehub-dev/gamehub/internal/middleware"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
	"github.com/gamehub-dev/gamehub/internal/services"
)

type ArticleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	GameType    string   `json:"gameType"`
	Platform    string   `json:"platform"`
	Year        int      `json:"year"`
	MainImage   string   `json:"mainImage" binding:"required"` // base64
	ContentType string   `json:"contentType" binding:"required"`
	Tags        []string `json:"tags"`
}

type GameInfoResponse struct {
	GameType string `json:"gameType"`
	Platform string `json:"platform"`
	Year     int    `json:"year"`
}

type ImageResponse struct {
	Image       string `json:"image"` // base64
	ContentType string `json:"contentType"`
}

type ArticlePreviewResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Published   time.Time        `json:"published"`
	Author      UserResponse     `json:"author"`
	GameInfo    GameInfoResponse `json:"gameInfo"`
	Tags        []string         `json:"tags"`
	Likes       int              `json:"likes"`
	Liked       bool             `json:"liked"`
	Image       *ImageResponse   `json:"image,omitempty"`
}

type ArticleDetailResponse struct {
	ArticlePreviewResponse
	Content        string                   `json:"content"`
	Comments       []CommentResponse        `json:"comments"`
	MoreFromAuthor []ArticlePreviewResponse `json:"moreFromAuthor"`
}

type ArticlePageResponse struct {
	Articles    []ArticlePreviewResponse `json:"articles"`
	TotalPages  int                      `json:"totalPages"`
	CurrentPage int                      `json:"currentPage"`
}

type ContentImageResponse struct {
	URL string `json:"url"`
}

type ArticleHandler struct {
	articles *services.ArticleService
	images   *services.ImageService
}

func NewArticleHandler(articles *services.ArticleService, images *services.ImageService) *ArticleHandler {
	return &ArticleHandler{articles: articles, images: images}
}

func (h *ArticleHandler) Create(ctx *gin.Context) {
	var req ArticleRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	article, err := h.articles.Create(middleware.CurrentUserID(ctx), toArticleInput(req))

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": article.ID})
}

func (h *ArticleHandler) Update(ctx *gin.Context) {
	var req ArticleRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.articles.Update(ctx.Param("id"), middleware.CurrentUserID(ctx), toArticleInput(req))

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ArticleHandler) Delete(ctx *gin.Context) {
	if err := h.articles.Delete(ctx.Param("id"), middleware.CurrentUserID(ctx)); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetPage lists article previews. Filters, ordering, and paging all come in
// as query values; anonymous callers simply get no like states.
func (h *ArticleHandler) GetPage(ctx *gin.Context) {
	page, size := pageParams(ctx)

	query := services.ListQuery{
		Search:    ctx.Query("search"),
		FindBy:    repository.FindBy(ctx.Query("findBy")),
		Favorites: ctx.Query("favorites") == "true",
		Order:     repository.OrderKey(ctx.DefaultQuery("order", string(repository.OrderCreated))),
		Sort:      repository.SortDir(ctx.DefaultQuery("sort", string(repository.SortNewest))),
		Page:      page,
		Size:      size,
	}

	items, totalPages, err := h.articles.GetPage(query, middleware.CurrentUserID(ctx))

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

func (h *ArticleHandler) GetByID(ctx *gin.Context) {
	detail, err := h.articles.GetByID(ctx.Param("id"), middleware.CurrentUserID(ctx))

	if err != nil {
		ctx.Error(err)
		return
	}

	resp := ArticleDetailResponse{
		ArticlePreviewResponse: toArticlePreview(detail.Article, detail.Image, detail.Liked),
		Content:                detail.Article.Content.Content,
		Comments:               toCommentResponses(detail.Article.Comments),
		MoreFromAuthor:         make([]ArticlePreviewResponse, 0, len(detail.MoreFromAuthor)),
	}

	for i := range detail.MoreFromAuthor {
		resp.MoreFromAuthor = append(resp.MoreFromAuthor, toArticlePreview(&detail.MoreFromAuthor[i], nil, false))
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *ArticleHandler) Like(ctx *gin.Context) {
	if err := h.articles.LikeBy(ctx.Param("id"), middleware.CurrentUserID(ctx)); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UploadImage stores an editor-uploaded content image and returns the URL it
// will be served from. The image arrives as the "image" part of a multipart
// form.
func (h *ArticleHandler) UploadImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("image")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	file, err := fileHeader.Open()

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	url, err := h.images.SaveContentImage(data, fileHeader.Header.Get("Content-Type"))

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, ContentImageResponse{URL: url})
}

// GetImage serves a stored image as raw bytes with its original content type.
func (h *ArticleHandler) GetImage(ctx *gin.Context) {
	id := ctx.Param("id")

	images, err := h.images.GetContentImages(id)

	if err != nil {
		ctx.Error(err)
		return
	}

	image := images[id]

	ctx.Data(http.StatusOK, image.ContentType, image.Image)
}

func (h *ArticleHandler) TopAuthors(ctx *gin.Context) {
	_, size := pageParams(ctx)

	authors, err := h.articles.TopAuthors(size)

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

func (h *ArticleHandler) TopTags(ctx *gin.Context) {
	_, size := pageParams(ctx)

	tags, err := h.articles.TopTags(size)

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

func toArticleInput(req ArticleRequest) services.ArticleInput {
	return services.ArticleInput{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		GameType:    req.GameType,
		Platform:    req.Platform,
		Year:        req.Year,
		MainImage:   req.MainImage,
		ContentType: req.ContentType,
		Tags:        req.Tags,
	}
}

func toArticlePreview(article *models.Article, image *models.ArticleImage, liked bool) ArticlePreviewResponse {
	resp := ArticlePreviewResponse{
		ID:          article.ID,
		Name:        article.Name,
		Description: article.Description,
		Published:   article.Published,
		Author:      toUserResponse(&article.Author),
		GameInfo: GameInfoResponse{
			GameType: article.GameInfo.GameType,
			Platform: article.GameInfo.Platform,
			Year:     article.GameInfo.Year,
		},
		Tags:  make([]string, 0, len(article.Tags)),
		Likes: len(article.Likes),
		Liked: liked,
	}

	for _, tag := range article.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}

	if image != nil {
		resp.Image = &ImageResponse{
			Image:       base64.StdEncoding.EncodeToString(image.Image),
			ContentType: image.ContentType,
		}
	}

	return resp
}
