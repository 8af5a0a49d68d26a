package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gamehub-dev/gamehub/internal/config"
)

// Claims carried by both access and refresh tokens. IsRefresh marks the
// refresh token so it cannot be presented as an access credential.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	IsRefresh bool
}

type TokenPair struct {
	AccessToken   string
	RefreshToken  string
	AccessExpiry  time.Time
	RefreshExpiry time.Time
}

// Issuer creates and validates the signed bearer tokens.
type Issuer struct {
	cfg config.JWTConfig
}

func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{cfg: cfg}
}

// GeneratePair issues a short-lived access token and a longer-lived refresh
// token for the same identity.
func (i *Issuer) GeneratePair(userID, email, role string) (TokenPair, error) {
	now := time.Now().UTC()

	accessExpiry := now.Add(time.Duration(i.cfg.AccessTokenMinutes) * time.Minute)
	refreshExpiry := now.Add(time.Duration(i.cfg.RefreshTokenMinutes) * time.Minute)

	access, err := i.sign(userID, email, role, false, now, accessExpiry)

	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := i.sign(userID, email, role, true, now, refreshExpiry)

	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:   access,
		RefreshToken:  refresh,
		AccessExpiry:  accessExpiry,
		RefreshExpiry: refreshExpiry,
	}, nil
}

func (i *Issuer) sign(userID, email, role string, isRefresh bool, now, expiry time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":       userID,
		"email":     email,
		"role":      role,
		"isRefresh": isRefresh,
		"iss":       i.cfg.Issuer,
		"aud":       i.cfg.Audience,
		"iat":       now.Unix(),
		"exp":       expiry.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(i.cfg.Secret))
}

// VerifyAccess validates a bearer token presented on a request and returns
// its claims. Refresh tokens are rejected here.
func (i *Issuer) VerifyAccess(tokenString string) (Claims, error) {
	claims, err := i.parse(tokenString)

	if err != nil {
		return Claims{}, err
	}

	if claims.IsRefresh {
		return Claims{}, fmt.Errorf("refresh token used as access token")
	}

	return claims, nil
}

// VerifyRefresh validates a presented refresh token: signature, issuer,
// audience, its own expiry, and the refresh marker.
func (i *Issuer) VerifyRefresh(tokenString string) (Claims, error) {
	claims, err := i.parse(tokenString)

	if err != nil {
		return Claims{}, err
	}

	if !claims.IsRefresh {
		return Claims{}, fmt.Errorf("not a refresh token")
	}

	return claims, nil
}

func (i *Issuer) parse(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(i.cfg.Secret), nil
	},
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	isRefresh, _ := mapClaims["isRefresh"].(bool)

	if sub == "" {
		return Claims{}, fmt.Errorf("missing subject claim")
	}

	return Claims{
		UserID:    sub,
		Email:     email,
		Role:      role,
		IsRefresh: isRefresh,
	}, nil
}
