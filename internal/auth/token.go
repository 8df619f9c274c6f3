package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by both access and refresh tokens. TokenType
// distinguishes the two so a refresh token cannot be replayed as an
// access token.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Token type values.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer mints and parses the JWT pairs used by the API.
type Issuer struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewIssuer constructs a token issuer.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssuePair mints an access/refresh token pair for the given user.
func (i *Issuer) IssuePair(userID uint, email string) (TokenPair, error) {
	access, err := i.sign(userID, email, TokenTypeAccess, i.accessSecret, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := i.sign(userID, email, TokenTypeRefresh, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess mints a standalone access token.
func (i *Issuer) IssueAccess(userID uint, email string) (string, error) {
	return i.sign(userID, email, TokenTypeAccess, i.accessSecret, i.accessTTL)
}

// ParseRefresh validates a refresh token and returns its claims.
func (i *Issuer) ParseRefresh(tokenString string) (*Claims, error) {
	return parse(tokenString, TokenTypeRefresh, i.refreshSecret)
}

// ParseAccess validates an access token and returns its claims.
func (i *Issuer) ParseAccess(tokenString string) (*Claims, error) {
	return parse(tokenString, TokenTypeAccess, i.accessSecret)
}

func (i *Issuer) sign(userID uint, email, tokenType, secret string, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(tokenString, wantType, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if claims.TokenType != wantType {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
