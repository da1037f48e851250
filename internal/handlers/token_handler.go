package handlers

import (
	"microblog/internal/middleware"
	"microblog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TokenHandler handles bearer-token issuance and revocation.
type TokenHandler struct {
	authService *services.AuthService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(authService *services.AuthService) *TokenHandler {
	return &TokenHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the token routes. Issue authenticates with basic
// credentials, revoke with the bearer token being revoked.
func (h *TokenHandler) RegisterRoutes(router fiber.Router, basicAuthRequired, tokenRequired fiber.Handler) {
	tokens := router.Group("/tokens")
	tokens.Post("/", basicAuthRequired, h.HandleIssueToken)
	tokens.Delete("/", tokenRequired, h.HandleRevokeToken)
}

// HandleIssueToken returns the user's API token. Issuance is idempotent
// while the current token stays valid.
func (h *TokenHandler) HandleIssueToken(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	token, expiration, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token":            token,
		"user_id":          user.ID,
		"token_expiration": expiration,
	})
}

// HandleRevokeToken expires the presented token immediately.
func (h *TokenHandler) HandleRevokeToken(c *fiber.Ctx) error {
	if err := h.authService.RevokeToken(middleware.CurrentUser(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
