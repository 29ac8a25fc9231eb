package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhub/project-management-api/internal/constants"
	"github.com/taskhub/project-management-api/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the payload embedded in every issued token. The role is
// trusted as-is until expiry; demoting a user does not invalidate
// tokens already in circulation.
type Claims struct {
	UserID uint64      `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-SHA256 signed tokens.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	clockSkew  time.Duration
	timeFunc   func() time.Time // injectable for testing
}

// NewTokenService creates a TokenService from the shared secret and the
// token lifetime in hours.
func NewTokenService(secret string, ttlHours int) (*TokenService, error) {
	if len(secret) < constants.MinTokenSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", constants.MinTokenSecretLength)
	}

	return &TokenService{
		signingKey: []byte(secret),
		ttl:        time.Duration(ttlHours) * time.Hour,
		clockSkew:  2 * time.Minute,
		timeFunc:   time.Now,
	}, nil
}

// SetTimeFunc overrides the clock used for issuing and verifying tokens.
func (s *TokenService) SetTimeFunc(fn func() time.Time) {
	s.timeFunc = fn
}

// Generate signs a token embedding the user's id, email, and role.
func (s *TokenService) Generate(user *models.User) (string, error) {
	now := s.timeFunc()

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
