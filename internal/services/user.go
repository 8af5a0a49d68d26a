package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 50

	passwordSpecials = "-_+=!@#$%^&*."
)

// Mailer abstracts outbound mail so account flows can run without SMTP.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// RegisterInput is the write shape for sign-up.
type RegisterInput struct {
	Username       string
	Email          string
	Name           string
	Surname        string
	Password       string
	RepeatPassword string
}

// UpdateInput carries profile fields; empty fields keep the current value.
type UpdateInput struct {
	Username string
	Name     string
	Surname  string
}

type UserService struct {
	users    *repository.UserRepository
	images   *ImageService
	settings *SettingsService
	mailer   Mailer

	// Confirmation links point at the API, which redirects after redeeming;
	// reset links point at the frontend's reset page.
	frontendURL string
	backendURL  string
}

func NewUserService(users *repository.UserRepository, images *ImageService, settings *SettingsService, mailer Mailer, frontendURL, backendURL string) *UserService {
	return &UserService{
		users:       users,
		images:      images,
		settings:    settings,
		mailer:      mailer,
		frontendURL: frontendURL,
		backendURL:  backendURL,
	}
}

// Register creates an unconfirmed account and mails the confirmation link.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	if !usernamePattern.MatchString(in.Username) {
		return nil, apperr.BadRequest("Username must be 2-50 characters of letters, digits, or -_+=!")
	}

	if !emailPattern.MatchString(in.Email) || len(in.Email) > 50 {
		return nil, apperr.BadRequest("Email is not valid")
	}

	if in.Password != in.RepeatPassword {
		return nil, apperr.BadRequest("Passwords do not match")
	}

	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	if existing, err := s.users.FindByEmail(in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.BadRequest("Email is already registered")
	}

	if existing, err := s.users.FindByUsername(in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.BadRequest("Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)

	if err != nil {
		return nil, err
	}

	token, err := randomToken()

	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		Surname:      in.Surname,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		ConfirmToken: token,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	if err := s.sendConfirmation(user); err != nil {
		return nil, err
	}

	return user, nil
}

// SendConfirmationEmail re-issues the confirmation token and mails it again.
func (s *UserService) SendConfirmationEmail(email string) error {
	user, err := s.users.FindByEmail(email)

	if err != nil {
		return err
	}

	if user == nil {
		return apperr.NotFound("User not found")
	}

	if user.EmailConfirmed {
		return apperr.Conflict("Email is already confirmed")
	}

	token, err := randomToken()

	if err != nil {
		return err
	}

	user.ConfirmToken = token

	if err := s.users.Update(user); err != nil {
		return err
	}

	return s.sendConfirmation(user)
}

// ConfirmRegistration redeems a confirmation token. Tokens are single use:
// redeeming clears the stored token.
func (s *UserService) ConfirmRegistration(userID, token string) error {
	user, err := s.users.FindByID(userID)

	if err != nil {
		return err
	}

	if user == nil {
		return apperr.NotFound("User not found")
	}

	if token == "" || user.ConfirmToken != token {
		return apperr.BadRequest("Invalid confirmation token")
	}

	user.EmailConfirmed = true
	user.ConfirmToken = ""

	return s.users.Update(user)
}

// SendResetPasswordEmail issues a reset token and mails the reset link. Only
// confirmed accounts may reset.
func (s *UserService) SendResetPasswordEmail(email string) error {
	user, err := s.users.FindByEmail(email)

	if err != nil {
		return err
	}

	if user == nil {
		return apperr.NotFound("User not found")
	}

	if !user.EmailConfirmed {
		return apperr.Forbidden("Email is not confirmed")
	}

	token, err := randomToken()

	if err != nil {
		return err
	}

	user.ResetToken = token

	if err := s.users.Update(user); err != nil {
		return err
	}

	body := fmt.Sprintf(resetBody, user.Name, s.frontendURL, user.ID, token)

	return s.mailer.Send(user.Email, resetSubject, body)
}

// ResetPassword redeems a reset token and installs the new password. The
// token is cleared on use, so a link works at most once.
func (s *UserService) ResetPassword(userID, token, password, repeat string) error {
	user, err := s.users.FindByID(userID)

	if err != nil {
		return err
	}

	if user == nil {
		return apperr.NotFound("User not found")
	}

	if token == "" || user.ResetToken != token {
		return apperr.BadRequest("Invalid reset token")
	}

	if password != repeat {
		return apperr.BadRequest("Passwords do not match")
	}

	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.ResetToken = ""

	return s.users.Update(user)
}

func (s *UserService) GetAll(page, size int) ([]models.User, int, error) {
	return s.users.GetAll(page, size)
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	user, err := s.users.FindByID(id)

	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	return user, nil
}

// Update edits profile fields of the caller's own account; super admins may
// edit anyone. Empty fields keep their current value.
func (s *UserService) Update(userID, callerID string, in UpdateInput) (*models.User, error) {
	user, err := s.authorize(userID, callerID)

	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if !usernamePattern.MatchString(in.Username) {
			return nil, apperr.BadRequest("Username must be 2-50 characters of letters, digits, or -_+=!")
		}

		existing, err := s.users.FindByUsername(in.Username)

		if err != nil {
			return nil, err
		}

		if existing != nil {
			return nil, apperr.BadRequest("Username is already taken")
		}

		user.Username = in.Username
	}

	if in.Name != "" {
		user.Name = in.Name
	}

	if in.Surname != "" {
		user.Surname = in.Surname
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateAvatar replaces the user's avatar, compressing the upload when the
// application settings say so.
func (s *UserService) UpdateAvatar(userID, callerID string, data []byte, contentType string) error {
	user, err := s.authorize(userID, callerID)

	if err != nil {
		return err
	}

	if len(data) == 0 {
		return apperr.BadRequest("Empty image upload")
	}

	settings, err := s.settings.Get()

	if err != nil {
		return err
	}

	if settings.CompressImages {
		data, err = s.images.Compress(data, contentType)

		if err != nil {
			return err
		}

		contentType = "image/jpeg"
	}

	avatar := user.Avatar

	if avatar == nil {
		avatar = &models.Avatar{UserID: user.ID}
	}

	avatar.Image = data
	avatar.ContentType = contentType

	return s.users.SaveAvatar(avatar)
}

// UpdateRoles changes a user's role. Assigning the role the user already has
// is a conflict.
func (s *UserService) UpdateRoles(userID, role string) error {
	if role != models.RoleSuperAdmin && role != models.RoleAuthor && role != models.RoleUser {
		return apperr.BadRequest("Unknown role: %s", role)
	}

	user, err := s.users.FindByID(userID)

	if err != nil {
		return err
	}

	if user == nil {
		return apperr.NotFound("User not found")
	}

	if user.Role == role {
		return apperr.Conflict("User already has role %s", role)
	}

	user.Role = role

	return s.users.Update(user)
}

// Delete removes the account with its comments, avatar, and favorites.
// Authored articles stay.
func (s *UserService) Delete(userID, callerID string) error {
	user, err := s.authorize(userID, callerID)

	if err != nil {
		return err
	}

	return s.users.Delete(user)
}

func (s *UserService) authorize(userID, callerID string) (*models.User, error) {
	caller, err := s.users.FindByID(callerID)

	if err != nil {
		return nil, err
	}

	if caller == nil {
		return nil, apperr.Forbidden("Sign in to modify accounts")
	}

	user, err := s.users.FindByID(userID)

	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if caller.Role != models.RoleSuperAdmin && caller.ID != user.ID {
		return nil, apperr.Forbidden("Only the owner or an administrator may modify this account")
	}

	return user, nil
}

func (s *UserService) sendConfirmation(user *models.User) error {
	body := fmt.Sprintf(confirmationBody, user.Name, s.backendURL, user.ID, user.ConfirmToken)

	return s.mailer.Send(user.Email, confirmationSubject, body)
}

// validatePassword enforces length plus one lowercase, one uppercase, one
// digit, and one special character.
func validatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return apperr.BadRequest("Password must be %d-%d characters long", minPasswordLen, maxPasswordLen)
	}

	var lower, upper, digit, special bool

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			for _, sp := range passwordSpecials {
				if r == sp {
					special = true
					break
				}
			}
		}
	}

	if !lower || !upper || !digit || !special {
		return apperr.BadRequest("Password must contain a lowercase letter, an uppercase letter, a digit, and a special character")
	}

	return nil
}

// randomToken returns a URL-safe random string for confirmation and reset
// links.
func randomToken() (string, error) {
	buf := make([]byte, 32)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
