package handlers

import (
	"fmt"
	"log"

	"microblog/internal/apperrors"
	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/pagination"
	"microblog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users and the follow graph.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes. tokenRequired is the bearer-auth
// middleware; each protected route composes its chain explicitly as
// authenticate, authorize, handle.
func (h *UserHandler) RegisterRoutes(router fiber.Router, tokenRequired fiber.Handler) {
	users := router.Group("/users")
	users.Post("/", h.HandleCreateUser)
	users.Get("/", tokenRequired, h.HandleGetUsers)
	users.Get("/:id", tokenRequired, h.HandleGetUser)
	users.Put("/:id", tokenRequired, middleware.RequireProfileOwner("id"), h.HandleUpdateUser)
	users.Delete("/:id", tokenRequired, middleware.RequireProfileOwner("id"), h.HandleDeleteUser)
	users.Get("/:id/followers", tokenRequired, h.HandleGetFollowers)
	users.Get("/:id/followed", tokenRequired, h.HandleGetFollowed)
	users.Post("/:id/followed/:target_id", tokenRequired, middleware.RequireProfileOwner("id"), h.HandleFollow)
	users.Delete("/:id/followed/:target_id", tokenRequired, middleware.RequireProfileOwner("id"), h.HandleUnfollow)
}

// HandleCreateUser handles registration. Registration is open: it requires no
// credentials and mints no token.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return apperrors.ErrUserFieldsMissing
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.ErrUserFieldsMissing
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		return err
	}

	resp, err := h.userService.Serialize(user)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderLocation, fmt.Sprintf("/api/users/%d", user.ID))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleGetUsers returns the paginated user collection.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	page, perPage := pagination.ParseParams(c)
	users, total, err := h.userService.ListUsers(page, perPage)
	if err != nil {
		return err
	}
	items, err := h.userService.SerializeList(users)
	if err != nil {
		return err
	}
	return c.JSON(pagination.NewEnvelope(items, page, perPage, total, c.Path()))
}

// HandleGetUser returns a single user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(id)
	if err != nil {
		return err
	}
	resp, err := h.userService.Serialize(user)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// HandleUpdateUser applies a partial profile update. Ownership was already
// enforced by the route middleware.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(id)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return apperrors.Validation("invalid request body")
	}
	if err := h.userService.Update(user, &req); err != nil {
		return err
	}

	resp, err := h.userService.Serialize(user)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// HandleDeleteUser removes a user together with their posts and follow edges.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(id)
	if err != nil {
		return err
	}
	if err := h.userService.Delete(user); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleGetFollowers returns the paginated followers of a user.
func (h *UserHandler) HandleGetFollowers(c *fiber.Ctx) error {
	return h.handleFollowPage(c, h.userService.Followers)
}

// HandleGetFollowed returns the paginated users a user follows.
func (h *UserHandler) HandleGetFollowed(c *fiber.Ctx) error {
	return h.handleFollowPage(c, h.userService.Followed)
}

func (h *UserHandler) handleFollowPage(c *fiber.Ctx, list func(uint, int, int) ([]models.User, int64, error)) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userService.GetUser(id); err != nil {
		return err
	}

	page, perPage := pagination.ParseParams(c)
	users, total, err := list(id, page, perPage)
	if err != nil {
		return err
	}
	items, err := h.userService.SerializeList(users)
	if err != nil {
		return err
	}
	return c.JSON(pagination.NewEnvelope(items, page, perPage, total, c.Path()))
}

// HandleFollow adds a follow edge from the authenticated user to the target.
// Re-following is a no-op.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	targetID, err := middleware.ParamID(c, "target_id")
	if err != nil {
		return err
	}
	if err := h.userService.Follow(middleware.CurrentUser(c), targetID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUnfollow removes the follow edge if present.
func (h *UserHandler) HandleUnfollow(c *fiber.Ctx) error {
	targetID, err := middleware.ParamID(c, "target_id")
	if err != nil {
		return err
	}
	if err := h.userService.Unfollow(middleware.CurrentUser(c), targetID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
