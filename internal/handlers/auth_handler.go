package handlers

import (
	"errors"
	"net/http"

	"github.com/SimpnicServerTeam/scs-credstore/internal/models"
	"github.com/SimpnicServerTeam/scs-credstore/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler is the request-authentication surface: it turns protocol
// credentials (JSON body or Basic auth header) into store lookups.
type AuthHandler struct {
	AuthService service.CredentialManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.CredentialManager) *AuthHandler {
	return &AuthHandler{
		AuthService: authService,
	}
}

// SignIn verifies a username/password pair and issues a bearer token for the
// admin API.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	token, expiresAt, err := h.AuthService.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn().Str("username", req.Username).Msg("Sign-in rejected")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Sign-in failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign in")
	}

	return c.JSON(http.StatusOK, models.SignInResponse{Token: token, ExpiresAt: expiresAt})
}

// VerifyCredentials checks HTTP Basic credentials against the store. The
// answer is purely 204/401; nothing about the user leaks in the response.
func (h *AuthHandler) VerifyCredentials(c echo.Context) error {
	username, password, ok := c.Request().BasicAuth()
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Basic authorization header is missing")
	}

	if !h.AuthService.VerifyPassword(username, password) {
		log.Warn().Str("username", username).Msg("Credential verification rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	return c.NoContent(http.StatusNoContent)
}
