package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gamehub-dev/gamehub/internal/auth"
	"github.com/gamehub-dev/gamehub/internal/handlers"
	"github.com/gamehub-dev/gamehub/internal/middleware"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Settings *handlers.SettingsHandler
	Articles *handlers.ArticleHandler
	Comments *handlers.CommentHandler
	Users    *handlers.UserHandler
	Search   *handlers.SearchHandler
	Health   *handlers.HealthHandler
}

func NewRouter(h Handlers, issuer *auth.Issuer, users *repository.UserRepository, frontendURL string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.Errors())

	requireAuth := middleware.RequireAuth(issuer, users)
	optionalAuth := middleware.OptionalAuth(issuer, users)
	requireAdmin := middleware.RequireRoles(models.RoleSuperAdmin)
	requireWriter := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAuthor)

	r.GET("/health", h.Health.Check)
	r.GET("/search", optionalAuth, h.Search.Search)

	settings := r.Group("/application_settings")
	{
		settings.GET("", h.Settings.Get)
		settings.PUT("", requireAuth, requireAdmin, h.Settings.Update)
	}

	authorization := r.Group("/authorization")
	{
		authorization.POST("/login", h.Auth.Login)
		authorization.POST("/refresh-tokens", h.Auth.Refresh)
	}

	articles := r.Group("/articles")
	{
		articles.GET("", optionalAuth, h.Articles.GetPage)
		articles.GET("/top/authors", h.Articles.TopAuthors)
		articles.GET("/top/tags", h.Articles.TopTags)
		articles.GET("/:id", optionalAuth, h.Articles.GetByID)
		articles.POST("", requireAuth, requireWriter, h.Articles.Create)
		articles.PUT("/:id", requireAuth, requireWriter, h.Articles.Update)
		articles.DELETE("/:id", requireAuth, requireWriter, h.Articles.Delete)
		articles.PUT("/:id/like", requireAuth, h.Articles.Like)

		articles.POST("/image", requireAuth, requireWriter, h.Articles.UploadImage)
		articles.GET("/image/:id", h.Articles.GetImage)

		articles.GET("/:id/comments", h.Comments.GetByArticle)
		articles.GET("/:id/comments/:commentId", h.Comments.GetByID)
		articles.POST("/:id/comments", requireAuth, h.Comments.Create)
		articles.POST("/:id/comments/:commentId", requireAuth, h.Comments.Create)
		articles.PUT("/:id/comments/:commentId", requireAuth, h.Comments.Edit)
		articles.DELETE("/:id/comments/:commentId", requireAuth, h.Comments.Delete)
	}

	usersGroup := r.Group("/users")
	{
		usersGroup.POST("", h.Users.Register)
		usersGroup.GET("", requireAuth, requireAdmin, h.Users.GetAll)
		usersGroup.GET("/current", requireAuth, h.Users.Current)
		usersGroup.GET("/:id", requireAuth, requireAdmin, h.Users.GetByID)
		usersGroup.PUT("", requireAuth, h.Users.Update)
		usersGroup.PUT("/avatar", requireAuth, h.Users.UpdateAvatar)
		usersGroup.PATCH("", requireAuth, requireAdmin, h.Users.UpdateRoles)
		usersGroup.DELETE("/:id", requireAuth, requireAdmin, h.Users.Delete)

		usersGroup.GET("/confirm/:id", h.Users.Confirm)
		usersGroup.POST("/confirm", h.Users.ResendConfirmation)
		usersGroup.POST("/reset-password", h.Users.RequestPasswordReset)
		usersGroup.PATCH("/reset-password/:id", h.Users.ResetPassword)
	}

	return r
}
