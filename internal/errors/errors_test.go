package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestAPIError_MatchesKind(t *testing.T) {
	err := fmt.Errorf("loading tasks: %w", &apperrors.APIError{
		Kind:       apperrors.ErrAuthentication,
		StatusCode: http.StatusUnauthorized,
		Message:    "Could not validate credentials",
	})

	require.ErrorIs(t, err, apperrors.ErrAuthentication)
	require.NotErrorIs(t, err, apperrors.ErrServer)
	require.True(t, apperrors.IsSessionInvalid(err))
	require.Equal(t, "Could not validate credentials", apperrors.Message(err))
}

func TestAPIError_NotFoundMatchesBothKinds(t *testing.T) {
	err := &apperrors.APIError{Kind: apperrors.ErrServer, StatusCode: http.StatusNotFound}

	require.ErrorIs(t, err, apperrors.ErrServer)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Equal(t, "server error (404 Not Found)", err.Error())
}

func TestValidation(t *testing.T) {
	err := apperrors.Validation("title is required")

	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.False(t, apperrors.IsSessionInvalid(err))
	require.Equal(t, "title is required", err.Error())
}

func TestWrapf(t *testing.T) {
	require.Nil(t, apperrors.Wrapf(nil, "context"))

	err := apperrors.Wrapf(apperrors.ErrNetwork, "GET %s", "/api/auth/me")
	require.EqualError(t, err, "GET /api/auth/me: network error")
	require.True(t, apperrors.Is(err, apperrors.ErrNetwork))
}
