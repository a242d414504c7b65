package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ontrakhq/ontrak/internal/middleware"
	"github.com/ontrakhq/ontrak/internal/service"
)

type AuthHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
}

func NewAuthHandler(authService *service.AuthService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

// Register POST /v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	user, err := h.authService.Register(c.Context(), req.Username, req.Password, req.Name, req.Timezone)
	if err != nil {
		return respondError(c, err)
	}

	pair, err := h.tokenService.GenerateTokenPair(c.Context(), user, c.Get("User-Agent"), c.IP())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"tokens": pair,
	})
}

// Login POST /v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	user, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	pair, err := h.tokenService.GenerateTokenPair(c.Context(), user, c.Get("User-Agent"), c.IP())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh POST /v1/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	pair, err := h.tokenService.RefreshAccessToken(c.Context(), req.RefreshToken, c.Get("User-Agent"), c.IP())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(pair)
}

// Logout POST /v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.tokenService.RevokeRefreshToken(c.Context(), req.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me GET /v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateTimezone PUT /v1/auth/timezone
func (h *AuthHandler) UpdateTimezone(c *fiber.Ctx) error {
	var req struct {
		Timezone string `json:"timezone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	user, err := h.authService.UpdateTimezone(c.Context(), middleware.UserID(c), req.Timezone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
