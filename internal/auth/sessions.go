package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"streamly/internal/domain"
)

const accessTokenType = "access"

type TokenClaims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// UserFinder resolves the identity a session token points at.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (domain.User, error)
}

// Sessions issues and validates HS256 bearer tokens. A zero TTL issues tokens without expiry.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	users  UserFinder
	now    func() time.Time
}

func NewSessions(secret []byte, ttl time.Duration, users UserFinder) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, users: users, now: time.Now}
}

func (s *Sessions) Issue(userID string) (string, error) {
	now := s.now()
	claims := &TokenClaims{
		UserID:    userID,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, expiry and token type, and returns the claims.
func (s *Sessions) Verify(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.TokenType != accessTokenType || claims.UserID == "" {
		return nil, domain.ErrInvalidSession
	}
	return claims, nil
}

// Resolve maps a raw token to the user it was issued for.
func (s *Sessions) Resolve(ctx context.Context, raw string) (domain.User, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return domain.User{}, err
	}
	if !domain.IsID(claims.UserID) {
		return domain.User{}, domain.ErrInvalidSession
	}
	u, err := s.users.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.Authentication("user not found")
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
