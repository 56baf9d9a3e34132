package main

import (
	"errors"
	"strings"

	"be04/models"
	"be04/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

// Failure kinds the handlers map to HTTP statuses.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRefreshInvalid     = errors.New("invalid or expired refresh token")
	ErrRefreshNotFound    = errors.New("refresh token not found")
)

// AuthService orchestrates registration, login, logout and refresh-token
// rotation against the credential store and token service.
type AuthService struct {
	users  UserStore
	tokens *token.Service
}

func NewAuthService(users UserStore, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// AuthResult is returned by Register, Login and Refresh.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AuthService) Register(email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if _, err := a.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, Password: string(hash)}
	if err := a.users.Create(user); err != nil {
		return nil, err
	}
	return a.issueTokens(user)
}

func (a *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := a.users.FindByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same failure for unknown email and wrong password so callers
			// cannot enumerate accounts.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return a.issueTokens(user)
}

// Logout clears the stored refresh token. Best effort: a missing user record
// is treated as already logged out.
func (a *AuthService) Logout(userID string) error {
	user, err := a.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	user.RefreshToken = nil
	return a.users.Save(user)
}

// Refresh rotates a refresh token. The presented token must both verify and
// match the exact token stored for some user, which catches tokens that were
// valid once but already rotated out.
func (a *AuthService) Refresh(refreshToken string) (*AuthResult, error) {
	if _, err := a.tokens.VerifyRefresh(refreshToken); err != nil {
		return nil, ErrRefreshInvalid
	}
	user, err := a.users.FindByRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}
	return a.issueTokens(user)
}

// issueTokens signs a fresh pair and persists the refresh token on the user
// row, displacing whatever token was stored before.
func (a *AuthService) issueTokens(user *models.User) (*AuthResult, error) {
	access, err := a.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := a.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = &refresh
	if err := a.users.Save(user); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
