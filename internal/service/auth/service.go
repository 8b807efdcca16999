// Package auth handles operator sign-in for the dashboard. There is a
// single operator account configured through the environment; sessions are
// short-lived JWTs with redis-backed refresh tokens.
package auth

import (
	"strings"
	"time"

	internaljwt "support-desk-backend/internal/jwt"
)

type Service struct {
	username     string
	passwordHash string
	now          func() time.Time
}

var createTokenWithRefresh = internaljwt.CreateTokenWithRefresh

func SetTokenIssuer(issuer func(internaljwt.User, internaljwt.Role, int64) (internaljwt.TokenResponse, error)) {
	if issuer == nil {
		createTokenWithRefresh = internaljwt.CreateTokenWithRefresh
		return
	}
	createTokenWithRefresh = issuer
}

// New hashes the configured operator password once at startup so the plain
// text never sits in memory past construction.
func New(username, password string) (*Service, error) {
	user, err := internaljwt.NewUser(username, password)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to prepare operator account", err)
	}
	return &Service{
		username:     strings.TrimSpace(username),
		passwordHash: user.PasswordHash,
		now:          time.Now,
	}, nil
}

func (s *Service) Login(params LoginParams) (AuthResult, error) {
	username := strings.TrimSpace(params.Username)
	password := strings.TrimSpace(params.Password)

	if username == "" || password == "" {
		return AuthResult{}, newError(ErrorCodeValidation, "missing required fields", nil)
	}

	if username != s.username || !internaljwt.ValidatePassword(s.passwordHash, password) {
		return AuthResult{}, newError(ErrorCodeUnauthorized, "invalid credentials", nil)
	}

	user := internaljwt.User{
		Id:    "operator",
		Email: s.username,
	}
	tokens, err := createTokenWithRefresh(user, internaljwt.RoleUser, 0)
	if err != nil {
		return AuthResult{}, newError(ErrorCodeInternal, "failed to issue tokens", err)
	}

	return AuthResult{
		User:   user,
		Tokens: tokens,
	}, nil
}

func (s *Service) Refresh(refreshToken string) (internaljwt.TokenResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return internaljwt.TokenResponse{}, newError(ErrorCodeValidation, "refresh token is required", nil)
	}

	accessToken, err := internaljwt.RefreshToken(refreshToken, internaljwt.RoleUser)
	if err != nil {
		return internaljwt.TokenResponse{}, newError(ErrorCodeUnauthorized, "invalid refresh token", err)
	}

	return internaljwt.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) IdentityFromAuthorizationHeader(header string) (Identity, error) {
	authHeader := strings.TrimSpace(header)
	if authHeader == "" {
		return Identity{}, newError(ErrorCodeUnauthorized, "missing authorization header", nil)
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Identity{}, newError(ErrorCodeUnauthorized, "invalid authorization header format", nil)
	}

	return s.IdentityFromToken(strings.TrimPrefix(authHeader, "Bearer "))
}

// IdentityFromToken validates a bare access token. Websocket clients
// cannot set headers, so they pass the token as a query parameter.
func (s *Service) IdentityFromToken(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, newError(ErrorCodeUnauthorized, "empty token", nil)
	}

	claims, err := internaljwt.ParseToken(token, internaljwt.RoleUser)
	if err != nil {
		return Identity{}, newError(ErrorCodeUnauthorized, "invalid token", err)
	}

	userID, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return Identity{}, newError(ErrorCodeUnauthorized, "token missing identifiers", nil)
	}

	return Identity{
		UserID: userID,
		Email:  email,
	}, nil
}
