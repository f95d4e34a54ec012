package router

import (
	"github.com/SimpnicServerTeam/scs-credstore/internal/config"
	"github.com/SimpnicServerTeam/scs-credstore/internal/handlers"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// SetupAuthRoutes registers the unauthenticated verification endpoints.
func SetupAuthRoutes(e *echo.Echo, authHandler *handlers.AuthHandler) {
	api := e.Group("/api/auth")

	api.POST("/login", authHandler.SignIn)            // Credentials -> bearer token
	api.GET("/verify", authHandler.VerifyCredentials) // HTTP Basic check
}

// SetupUserRoutes registers the admin endpoints, guarded by the bearer
// tokens issued at sign-in.
func SetupUserRoutes(e *echo.Echo, userHandler *handlers.UserHandler, cfg *config.Config) {
	api := e.Group("/api/users")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	api.POST("", userHandler.CreateUser)
	api.POST("/import", userHandler.ImportUser)
	api.GET("", userHandler.ListUsers)
	api.GET("/:username/hash", userHandler.GetPasswordHash)
	api.PUT("/:username/password", userHandler.ChangePassword)
	api.DELETE("/:username", userHandler.DeleteUser)
}
