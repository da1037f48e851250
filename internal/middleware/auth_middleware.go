package middleware

import (
	"encoding/base64"
	"log"
	"strconv"
	"strings"

	"microblog/internal/apperrors"
	"microblog/internal/authz"
	"microblog/internal/models"
	"microblog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "current_user"

// CurrentUser returns the authenticated identity stored by the auth
// middleware, or nil when the route is unauthenticated.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// TokenRequired is a fiber middleware that resolves the bearer token to a
// user identity. The identity travels in the request context, never in a
// global. A valid request also bumps the user's last-seen timestamp.
func TokenRequired(authService *services.AuthService, userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.Authentication("Authorization header is required")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apperrors.Authentication("Authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.ResolveToken(parts[1])
		if err != nil {
			return err
		}
		if user == nil {
			return apperrors.Authentication("invalid or expired token")
		}

		if err := userService.TouchLastSeen(user); err != nil {
			log.Printf("Warning: failed to update last seen for user %d: %v", user.ID, err)
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// BasicAuthRequired is a fiber middleware that authenticates username and
// password credentials. It is used only on the token issue route.
func BasicAuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Basic" {
			return apperrors.Authentication("Authorization header format must be 'Basic <credentials>'")
		}

		decoded, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return apperrors.Authentication("invalid basic auth encoding")
		}
		username, password, ok := strings.Cut(string(decoded), ":")
		if !ok {
			return apperrors.Authentication("invalid basic auth credentials")
		}

		user, err := authService.Authenticate(username, password)
		if err != nil {
			return err
		}
		if user == nil {
			return apperrors.Authentication("invalid credentials")
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// ParamID parses a numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, apperrors.NotFound("invalid " + name)
	}
	return uint(id), nil
}

// RequireProfileOwner is a fiber middleware enforcing that the authenticated
// identity owns the user id in the named route parameter. It runs after the
// authentication middleware and before the handler, so ownership failures
// (403) surface before existence checks (404).
func RequireProfileOwner(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParamID(c, param)
		if err != nil {
			return err
		}
		if err := authz.CanUpdateProfile(CurrentUser(c), id); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequirePostCreation is a fiber middleware enforcing the post-creation
// capability: a payload user_id must be present (400 before any ownership
// failure) and both the route user id and the payload user id must match the
// authenticated identity.
func RequirePostCreation(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParamID(c, param)
		if err != nil {
			return err
		}
		var req models.CreatePostRequest
		// An unparsable body counts as an empty payload, so the missing
		// user_id rule applies to it.
		_ = c.BodyParser(&req)
		if err := authz.CanCreatePost(CurrentUser(c), id, req.UserID); err != nil {
			return err
		}
		return c.Next()
	}
}
