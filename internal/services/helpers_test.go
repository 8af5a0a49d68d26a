package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gamehub-dev/gamehub/db"
	"github.com/gamehub-dev/gamehub/internal/auth"
	"github.com/gamehub-dev/gamehub/internal/cache"
	"github.com/gamehub-dev/gamehub/internal/config"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

// testImageBase64 is a 1x1 transparent PNG.
const testImageBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type stubMailer struct {
	sent []sentMail
	fail error
}

func (m *stubMailer) Send(to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}

	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})

	return nil
}

type fixture struct {
	gdb    *gorm.DB
	cache  *cache.Cache
	mailer *stubMailer
	issuer *auth.Issuer

	settings *SettingsService
	images   *ImageService
	accounts *AccountService
	users    *UserService
	comments *CommentService
	articles *ArticleService
}

func testImageConfig() config.ImageConfig {
	return config.ImageConfig{
		MaxBytes:     1024 * 1024,
		JPEGQuality:  75,
		AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png"},
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:              "test-secret",
		Issuer:              "gamehub",
		Audience:            "gamehub",
		AccessTokenMinutes:  15,
		RefreshTokenMinutes: 60,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.SeedDefaults(gdb, "", "", ""))

	f := &fixture{
		gdb:    gdb,
		cache:  cache.New(10),
		mailer: &stubMailer{},
		issuer: auth.NewIssuer(testJWTConfig()),
	}

	userRepo := repository.NewUserRepository(gdb)
	articleRepo := repository.NewArticleRepository(gdb)
	commentRepo := repository.NewCommentRepository(gdb)
	tagRepo := repository.NewTagRepository(gdb)
	settingsRepo := repository.NewSettingsRepository(gdb)

	f.settings = NewSettingsService(settingsRepo, f.cache)
	f.images = NewImageService(articleRepo, f.settings, f.cache, testImageConfig(), "http://localhost:3000")
	f.accounts = NewAccountService(userRepo, f.issuer)
	f.users = NewUserService(userRepo, f.images, f.settings, f.mailer, "http://localhost:5173", "http://localhost:3000")
	f.comments = NewCommentService(commentRepo, userRepo, articleRepo)
	f.articles = NewArticleService(articleRepo, commentRepo, tagRepo, userRepo, f.images, f.settings, testImageConfig())

	return f
}

// createUser inserts a confirmed account directly, bypassing the email flow.
func (f *fixture) createUser(t *testing.T, username, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          email,
		Name:           "Test",
		Surname:        "User",
		PasswordHash:   string(hash),
		Role:           role,
		EmailConfirmed: true,
	}

	require.NoError(t, f.gdb.Create(user).Error)

	return user
}

// createArticle inserts an article with content, game info, and a main image.
func (f *fixture) createArticle(t *testing.T, authorID, name string, tags ...string) *models.Article {
	t.Helper()

	article, err := f.articles.Create(authorID, ArticleInput{
		Name:        name,
		Description: "About " + name,
		Content:     "<p>" + name + "</p>",
		GameType:    "RPG",
		Platform:    "PC",
		Year:        2020,
		MainImage:   testImageBase64,
		ContentType: "image/png",
		Tags:        tags,
	})
	require.NoError(t, err)

	return article
}
