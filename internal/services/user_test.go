package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/models"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:       "alice",
		Email:          "alice@example.com",
		Name:           "Alice",
		Surname:        "Smith",
		Password:       "Passw0rd!",
		RepeatPassword: "Passw0rd!",
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(validRegistration())
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.EmailConfirmed)
	assert.NotEmpty(t, user.ConfirmToken)
	assert.NotEqual(t, "Passw0rd!", user.PasswordHash)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].Body, user.ConfirmToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	in := validRegistration()
	in.Username = "alice2"

	_, err := f.users.Register(in)

	assert.True(t, apperr.IsBadRequest(err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	in := validRegistration()
	in.Email = "other@example.com"

	_, err := f.users.Register(in)

	assert.True(t, apperr.IsBadRequest(err))
}

func TestRegisterPasswordMismatch(t *testing.T) {
	f := newFixture(t)

	in := validRegistration()
	in.RepeatPassword = "Different1!"

	_, err := f.users.Register(in)

	assert.True(t, apperr.IsBadRequest(err))
}

func TestRegisterPasswordComplexity(t *testing.T) {
	f := newFixture(t)

	weak := []string{
		"short1!A",                 // valid; control for the rest
		"alllowercase1!",           // no uppercase
		"ALLUPPERCASE1!",           // no lowercase
		"NoDigitsHere!",            // no digit
		"NoSpecials123A",           // no special character
		"Aa1!",                     // too short
		strings.Repeat("Aa1!", 20), // too long
	}

	for i, password := range weak {
		in := validRegistration()
		in.Password = password
		in.RepeatPassword = password

		_, err := f.users.Register(in)

		if i == 0 {
			assert.NoError(t, err, password)
		} else {
			assert.True(t, apperr.IsBadRequest(err), password)
		}
	}
}

func TestRegisterInvalidUsername(t *testing.T) {
	f := newFixture(t)

	in := validRegistration()
	in.Username = "a b c"

	_, err := f.users.Register(in)

	assert.True(t, apperr.IsBadRequest(err))
}

func TestConfirmRegistration(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(validRegistration())
	require.NoError(t, err)

	token := user.ConfirmToken

	require.NoError(t, f.users.ConfirmRegistration(user.ID, token))

	stored, err := f.users.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)
	assert.Empty(t, stored.ConfirmToken)

	// Tokens are single use.
	err = f.users.ConfirmRegistration(user.ID, token)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestConfirmRegistrationWrongToken(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(validRegistration())
	require.NoError(t, err)

	err = f.users.ConfirmRegistration(user.ID, "wrong")
	assert.True(t, apperr.IsBadRequest(err))
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	require.NoError(t, f.users.SendResetPasswordEmail("alice@example.com"))
	require.Len(t, f.mailer.sent, 1)

	stored, err := f.users.GetByID(user.ID)
	require.NoError(t, err)
	token := stored.ResetToken
	require.NotEmpty(t, token)

	err = f.users.ResetPassword(user.ID, token, "NewPassw0rd!", "NewPassw0rd!")
	require.NoError(t, err)

	// The new password works, the token does not work twice.
	_, err = f.accounts.Login("alice", "NewPassw0rd!")
	require.NoError(t, err)

	err = f.users.ResetPassword(user.ID, token, "Another1!", "Another1!")
	assert.True(t, apperr.IsBadRequest(err))
}

func TestResetPasswordRequiresConfirmedEmail(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(validRegistration())
	require.NoError(t, err)
	_ = user

	err = f.users.SendResetPasswordEmail("alice@example.com")
	assert.True(t, apperr.IsForbidden(err))
}

func TestUpdateUserKeepsEmptyFields(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	updated, err := f.users.Update(user.ID, user.ID, UpdateInput{Name: "Alicia"})
	require.NoError(t, err)

	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "User", updated.Surname)
	assert.Equal(t, "alice", updated.Username)
}

func TestUpdateUserForbiddenForOthers(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice", "alice@example.com", models.RoleUser)
	other := f.createUser(t, "bob", "bob@example.com", models.RoleUser)

	_, err := f.users.Update(user.ID, other.ID, UpdateInput{Name: "Hijack"})

	assert.True(t, apperr.IsForbidden(err))
}

func TestUpdateRoles(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	require.NoError(t, f.users.UpdateRoles(user.ID, models.RoleAuthor))

	stored, err := f.users.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthor, stored.Role)

	// Assigning the same role again is a conflict.
	err = f.users.UpdateRoles(user.ID, models.RoleAuthor)
	assert.True(t, apperr.IsConflict(err))

	err = f.users.UpdateRoles(user.ID, "Wizard")
	assert.True(t, apperr.IsBadRequest(err))
}

func TestDeleteUserKeepsArticles(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "alice", "alice@example.com", models.RoleAuthor)
	article := f.createArticle(t, author.ID, "Skyfall")

	_, err := f.comments.Create(article.ID, author.ID, "own comment")
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(author.ID, author.ID))

	_, err = f.users.GetByID(author.ID)
	assert.True(t, apperr.IsNotFound(err))

	var comments int64
	require.NoError(t, f.gdb.Model(&models.Comment{}).Where("author_id = ?", author.ID).Count(&comments).Error)
	assert.Zero(t, comments)

	var articles int64
	require.NoError(t, f.gdb.Model(&models.Article{}).Where("id = ?", article.ID).Count(&articles).Error)
	assert.Equal(t, int64(1), articles)
}
