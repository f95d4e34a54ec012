package handlers

import (
	"errors"
	"net/http"

	"github.com/SimpnicServerTeam/scs-credstore/internal/credstore"
	"github.com/SimpnicServerTeam/scs-credstore/internal/models"
	"github.com/SimpnicServerTeam/scs-credstore/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// UserHandler is the administration surface over the credential store.
type UserHandler struct {
	AuthService service.CredentialManager
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService service.CredentialManager) *UserHandler {
	return &UserHandler{
		AuthService: authService,
	}
}

// CreateUser registers a user from a plaintext password.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username is required")
	}

	if err := h.AuthService.RegisterUser(c.Request().Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, credstore.ErrDuplicateUser) {
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	log.Info().Str("username", req.Username).Msg("User created")
	return c.JSON(http.StatusCreated, echo.Map{"username": req.Username})
}

// ImportUser registers a user from a hex-encoded precomputed digest.
func (h *UserHandler) ImportUser(c echo.Context) error {
	var req models.ImportCredentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username is required")
	}

	if err := h.AuthService.ImportCredential(c.Request().Context(), req.Username, req.Digest); err != nil {
		switch {
		case errors.Is(err, credstore.ErrMalformedHash):
			return echo.NewHTTPError(http.StatusBadRequest, "Digest must be valid hex of the configured hash length")
		case errors.Is(err, credstore.ErrDuplicateUser):
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to import credential")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to import credential")
	}

	log.Info().Str("username", req.Username).Msg("Credential imported")
	return c.JSON(http.StatusCreated, echo.Map{"username": req.Username})
}

// DeleteUser removes a user. Deleting an unknown user still answers 204.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	username := c.Param("username")

	if err := h.AuthService.RemoveUser(c.Request().Context(), username); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to delete user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}

	log.Info().Str("username", username).Msg("User deleted")
	return c.NoContent(http.StatusNoContent)
}

// ListUsers returns a snapshot of the registered usernames.
func (h *UserHandler) ListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, models.UserListResponse{Users: h.AuthService.Users()})
}

// GetPasswordHash exports the stored digest as uppercase hex, for the
// persistence tooling that round-trips credentials through import.
func (h *UserHandler) GetPasswordHash(c echo.Context) error {
	username := c.Param("username")

	digest, err := h.AuthService.PasswordHash(username)
	if err != nil {
		if errors.Is(err, credstore.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to export password hash")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export password hash")
	}

	return c.JSON(http.StatusOK, models.Credential{Username: username, Digest: digest})
}

// ChangePassword replaces a user's password after verifying the current one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	username := c.Param("username")

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	err := h.AuthService.ChangePassword(c.Request().Context(), username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, credstore.ErrAuthentication) {
			log.Warn().Str("username", username).Msg("Password change rejected")
			return echo.NewHTTPError(http.StatusForbidden, "User or password incorrect")
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to change password")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to change password")
	}

	log.Info().Str("username", username).Msg("Password changed")
	return c.NoContent(http.StatusNoContent)
}
