package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

func validInput() ArticleInput {
	return ArticleInput{
		Name:        "Skyfall",
		Description: "A short description",
		Content:     "<p>Body</p>",
		GameType:    "RPG",
		Platform:    "PC",
		Year:        2020,
		MainImage:   testImageBase64,
		ContentType: "image/png",
		Tags:        []string{"rpg", "indie"},
	}
}

func TestCreateArticle(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	article, err := f.articles.Create(author.ID, validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, article.ID)
	assert.Equal(t, author.ID, article.AuthorID)
	assert.Len(t, article.Tags, 2)

	stored, err := f.articles.GetByID(article.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "Skyfall", stored.Article.Name)
	assert.Equal(t, 2020, stored.Article.GameInfo.Year)
	assert.Equal(t, "<p>Body</p>", stored.Article.Content.Content)
}

func TestCreateArticleYearRules(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	tests := []struct {
		name string
		year int
		ok   bool
	}{
		{"plausible year", 2500, true},
		{"zero means unspecified", 0, true},
		{"too old", 500, false},
		{"too far out", 3001, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			in.Name = "Year " + tc.name
			in.Year = tc.year

			_, err := f.articles.Create(author.ID, in)

			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsConflict(err))
			}
		})
	}
}

func TestCreateArticleTagBudget(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	in := validInput()
	in.Tags = []string{"a", "b", "c", "d", "e", "f"}

	_, err := f.articles.Create(author.ID, in)
	assert.True(t, apperr.IsConflict(err))

	in.Tags = []string{"a", "b", "c", "d", "e"}

	article, err := f.articles.Create(author.ID, in)
	require.NoError(t, err)
	assert.Len(t, article.Tags, 5)
}

func TestCreateArticleReusesTags(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	f.createArticle(t, author.ID, "First", "rpg")
	f.createArticle(t, author.ID, "Second", "rpg", "indie")

	var count int64
	require.NoError(t, f.gdb.Model(&models.Tag{}).Where("name = ?", "rpg").Count(&count).Error)

	assert.Equal(t, int64(1), count)
}

func TestUpdateArticleOwnership(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)
	other := f.createUser(t, "bob", "bob@example.com", models.RoleAuthor)
	admin := f.createUser(t, "root", "root@example.com", models.RoleSuperAdmin)

	article := f.createArticle(t, author.ID, "Skyfall")

	in := validInput()
	in.Name = "Renamed"

	err := f.articles.Update(article.ID, other.ID, in)
	assert.True(t, apperr.IsForbidden(err))

	require.NoError(t, f.articles.Update(article.ID, admin.ID, in))

	stored, err := f.articles.GetByID(article.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Article.Name)
}

func TestDeleteArticle(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	article := f.createArticle(t, author.ID, "Skyfall")

	_, err := f.comments.Create(article.ID, author.ID, "first")
	require.NoError(t, err)

	require.NoError(t, f.articles.Delete(article.ID, author.ID))

	_, err = f.articles.GetByID(article.ID, "")
	assert.True(t, apperr.IsNotFound(err))

	var comments int64
	require.NoError(t, f.gdb.Model(&models.Comment{}).Where("article_id = ?", article.ID).Count(&comments).Error)
	assert.Zero(t, comments)
}

func TestLikeToggle(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)
	reader := f.createUser(t, "bob", "bob@example.com", models.RoleUser)

	article := f.createArticle(t, author.ID, "Skyfall")

	require.NoError(t, f.articles.LikeBy(article.ID, reader.ID))

	detail, err := f.articles.GetByID(article.ID, reader.ID)
	require.NoError(t, err)
	assert.True(t, detail.Liked)
	assert.Len(t, detail.Article.Likes, 1)

	// A second call removes the like.
	require.NoError(t, f.articles.LikeBy(article.ID, reader.ID))

	detail, err = f.articles.GetByID(article.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, detail.Liked)
	assert.Empty(t, detail.Article.Likes)
}

func TestFavoritesRequireCaller(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.articles.GetPage(ListQuery{Favorites: true, Page: 1, Size: 10}, "")

	assert.True(t, apperr.IsForbidden(err))
}

func TestFavoritesFilter(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)
	reader := f.createUser(t, "bob", "bob@example.com", models.RoleUser)

	liked := f.createArticle(t, author.ID, "Liked")
	f.createArticle(t, author.ID, "Ignored")

	require.NoError(t, f.articles.LikeBy(liked.ID, reader.ID))

	items, _, err := f.articles.GetPage(ListQuery{Favorites: true, Page: 1, Size: 10}, reader.ID)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Liked", items[0].Article.Name)
	assert.True(t, items[0].Liked)
}

func TestGetPageEmptyResultIsValid(t *testing.T) {
	f := newFixture(t)

	items, totalPages, err := f.articles.GetPage(ListQuery{Search: "nothing-matches", Page: 1, Size: 10}, "")
	require.NoError(t, err)

	assert.Empty(t, items)
	assert.Zero(t, totalPages)
}

func TestGetPageByTag(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	f.createArticle(t, author.ID, "Tagged", "platformer")
	f.createArticle(t, author.ID, "Other", "rpg")

	for _, term := range []string{"platformer", "#platformer"} {
		items, _, err := f.articles.GetPage(ListQuery{
			Search: term,
			FindBy: repository.FindTag,
			Page:   1,
			Size:   10,
		}, "")
		require.NoError(t, err)

		require.Len(t, items, 1)
		assert.Equal(t, "Tagged", items[0].Article.Name)
	}
}

func TestGetByIDIncludesMoreFromAuthor(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	current := f.createArticle(t, author.ID, "Current")

	for _, name := range []string{"One", "Two", "Three"} {
		f.createArticle(t, author.ID, name)
	}

	detail, err := f.articles.GetByID(current.ID, "")
	require.NoError(t, err)

	assert.Len(t, detail.MoreFromAuthor, 3)

	for _, more := range detail.MoreFromAuthor {
		assert.NotEqual(t, current.ID, more.ID)
	}
}

func TestSearchAuthorsNoResults(t *testing.T) {
	f := newFixture(t)

	_, err := f.articles.SearchAuthors("nobody", repository.SortNewest)

	assert.True(t, apperr.IsNotFound(err))
}

func TestSearchTags(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)

	f.createArticle(t, author.ID, "Tagged", "metroidvania")

	tags, err := f.articles.SearchTags("metroid", repository.SortNewest)
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, "metroidvania", tags[0].Name)

	_, err = f.articles.SearchTags("unknown", repository.SortNewest)
	assert.True(t, apperr.IsNotFound(err))
}
