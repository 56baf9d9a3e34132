package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure: malformed input,
// wrong signing method or secret, and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated user id alongside the registered claims.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Service signs and verifies the two token classes. Access and refresh tokens
// use distinct secrets so one class can never be replayed as the other.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess signs a short-lived access token for the given user id.
func (s *Service) IssueAccess(userID string) (string, error) {
	return sign(userID, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a refresh token for the given user id. Each call produces
// a distinct token string (jti claim), so rotation always displaces the
// previous stored token even within the same second.
func (s *Service) IssueRefresh(userID string) (string, error) {
	return sign(userID, s.refreshSecret, s.refreshTTL)
}

// VerifyAccess returns the user id asserted by a valid access token.
func (s *Service) VerifyAccess(tokenStr string) (string, error) {
	return verify(tokenStr, s.accessSecret)
}

// VerifyRefresh returns the user id asserted by a valid refresh token.
func (s *Service) VerifyRefresh(tokenStr string) (string, error) {
	return verify(tokenStr, s.refreshSecret)
}

func sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verify(tokenStr string, secret []byte) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
