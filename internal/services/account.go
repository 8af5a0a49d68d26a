package services

import (
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/auth"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9\-_+=!]{2,50}$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]+$`)
)

type AccountService struct {
	users  *repository.UserRepository
	issuer *auth.Issuer
}

func NewAccountService(users *repository.UserRepository, issuer *auth.Issuer) *AccountService {
	return &AccountService{users: users, issuer: issuer}
}

// Login resolves the identifier as a username or an email depending on its
// shape, verifies the password, and issues a token pair. The refresh token
// and its expiry are persisted on the user.
func (s *AccountService) Login(identifier, password string) (*auth.TokenPair, error) {
	user, err := s.resolveIdentifier(identifier)

	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if !user.EmailConfirmed {
		return nil, apperr.Forbidden("Email is not confirmed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.BadRequest("Invalid password")
	}

	pair, err := s.issuer.GeneratePair(user.ID, user.Email, user.Role)

	if err != nil {
		return nil, err
	}

	user.RefreshToken = pair.RefreshToken
	user.RefreshTokenExpiry = pair.RefreshExpiry

	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	return &pair, nil
}

// Refresh rotates a token pair. The presented refresh token must verify, must
// equal the one stored on the user, and the stored expiry must not have
// passed; the stored token is then overwritten, so each refresh token works
// at most once in sequence.
func (s *AccountService) Refresh(refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperr.BadRequest("Invalid client request")
	}

	claims, err := s.issuer.VerifyRefresh(refreshToken)

	if err != nil {
		return nil, apperr.BadRequest("Invalid access token or refresh token")
	}

	user, err := s.users.FindByID(claims.UserID)

	if err != nil {
		return nil, err
	}

	if user == nil || user.RefreshToken != refreshToken {
		return nil, apperr.BadRequest("Invalid access token or refresh token")
	}

	if !user.RefreshTokenExpiry.After(time.Now().UTC()) {
		return nil, apperr.BadRequest("Refresh token has expired")
	}

	pair, err := s.issuer.GeneratePair(user.ID, user.Email, user.Role)

	if err != nil {
		return nil, err
	}

	user.RefreshToken = pair.RefreshToken
	user.RefreshTokenExpiry = pair.RefreshExpiry

	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	return &pair, nil
}

func (s *AccountService) resolveIdentifier(identifier string) (*models.User, error) {
	if usernamePattern.MatchString(identifier) {
		return s.users.FindByUsername(identifier)
	}

	if emailPattern.MatchString(identifier) && len(identifier) <= 50 {
		return s.users.FindByEmail(identifier)
	}

	return nil, apperr.BadRequest("Identifier is neither a valid username nor a valid email")
}
