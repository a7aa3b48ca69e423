package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/magicplay247/agent-panel/internal/api/dto"
	"github.com/magicplay247/agent-panel/internal/auth"
	"github.com/magicplay247/agent-panel/internal/service"
	apperrors "github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

// AuthHandler manages administrator session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, session, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	}})
}

// Logout POST /auth/logout. Revokes the presented token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Logout(c.Context(), principal.TokenID, principal.ExpiresAt); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
