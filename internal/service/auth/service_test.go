package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaljwt "support-desk-backend/internal/jwt"
)

func stubIssuer(t *testing.T) {
	t.Helper()
	SetTokenIssuer(func(user internaljwt.User, _ internaljwt.Role, _ int64) (internaljwt.TokenResponse, error) {
		return internaljwt.TokenResponse{
			AccessToken:  "access-" + user.Email,
			RefreshToken: "refresh-" + user.Email,
		}, nil
	})
	t.Cleanup(func() { SetTokenIssuer(nil) })
}

func TestLoginSuccess(t *testing.T) {
	stubIssuer(t)
	svc, err := New("operator@velora.io", "hunter2hunter2")
	require.NoError(t, err)

	result, err := svc.Login(LoginParams{Username: "operator@velora.io", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "operator", result.User.Id)
	assert.Equal(t, "access-operator@velora.io", result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestLoginWrongCredentials(t *testing.T) {
	stubIssuer(t)
	svc, err := New("operator@velora.io", "hunter2hunter2")
	require.NoError(t, err)

	var svcErr *Error

	_, err = svc.Login(LoginParams{Username: "operator@velora.io", Password: "wrong"})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeUnauthorized, svcErr.Code)

	_, err = svc.Login(LoginParams{Username: "someone@else.io", Password: "hunter2hunter2"})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeUnauthorized, svcErr.Code)
}

func TestLoginValidation(t *testing.T) {
	svc, err := New("operator@velora.io", "hunter2hunter2")
	require.NoError(t, err)

	var svcErr *Error
	_, err = svc.Login(LoginParams{Username: " ", Password: ""})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeValidation, svcErr.Code)
}

func TestIssuerFailureWrapped(t *testing.T) {
	SetTokenIssuer(func(internaljwt.User, internaljwt.Role, int64) (internaljwt.TokenResponse, error) {
		return internaljwt.TokenResponse{}, errors.New("redis down")
	})
	t.Cleanup(func() { SetTokenIssuer(nil) })

	svc, err := New("operator@velora.io", "hunter2hunter2")
	require.NoError(t, err)

	var svcErr *Error
	_, err = svc.Login(LoginParams{Username: "operator@velora.io", Password: "hunter2hunter2"})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeInternal, svcErr.Code)
}

func TestIdentityFromAuthorizationHeader(t *testing.T) {
	svc, err := New("operator@velora.io", "hunter2hunter2")
	require.NoError(t, err)

	var svcErr *Error

	_, err = svc.IdentityFromAuthorizationHeader("")
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeUnauthorized, svcErr.Code)

	_, err = svc.IdentityFromAuthorizationHeader("Basic abc")
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeUnauthorized, svcErr.Code)
}
