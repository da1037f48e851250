package handlers

import (
	"fmt"
	"log"

	"microblog/internal/apperrors"
	"microblog/internal/authz"
	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/pagination"
	"microblog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts and the feed.
type PostHandler struct {
	postService *services.PostService
	userService *services.UserService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, userService *services.UserService) *PostHandler {
	return &PostHandler{
		postService: postService,
		userService: userService,
	}
}

// RegisterRoutes registers the post routes. Capability middleware runs before
// the handler, so ownership failures surface before existence checks.
func (h *PostHandler) RegisterRoutes(router fiber.Router, tokenRequired fiber.Handler) {
	posts := router.Group("/users/:user_id/posts")
	posts.Get("/", tokenRequired, h.HandleGetPosts)
	posts.Post("/", tokenRequired, middleware.RequirePostCreation("user_id"), h.HandleCreatePost)
	posts.Get("/:post_id", tokenRequired, h.HandleGetPost)
	posts.Put("/:post_id", tokenRequired, middleware.RequireProfileOwner("user_id"), h.HandleUpdatePost)
	posts.Delete("/:post_id", tokenRequired, middleware.RequireProfileOwner("user_id"), h.HandleDeletePost)

	router.Get("/feed", tokenRequired, h.HandleFeed)
}

// HandleGetPosts returns the paginated posts of a user.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	userID, err := middleware.ParamID(c, "user_id")
	if err != nil {
		return err
	}
	if _, err := h.userService.GetUser(userID); err != nil {
		return err
	}

	page, perPage := pagination.ParseParams(c)
	posts, total, err := h.postService.ListByUser(userID, page, perPage)
	if err != nil {
		return err
	}
	items := h.postService.SerializeList(posts)
	return c.JSON(pagination.NewEnvelope(items, page, perPage, total, c.Path()))
}

// HandleCreatePost creates a post under a user's collection. The capability
// middleware has already checked the payload user_id and ownership.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	userID, err := middleware.ParamID(c, "user_id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(userID)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing post request body: %v", err)
		return apperrors.ErrPostBodyMissing
	}

	post, err := h.postService.Create(user.ID, &req)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderLocation, fmt.Sprintf("/api/users/%d/posts/%d", user.ID, post.ID))
	return c.Status(fiber.StatusCreated).JSON(post.ToResponse())
}

// HandleGetPost returns a single post.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	postID, err := middleware.ParamID(c, "post_id")
	if err != nil {
		return err
	}
	post, err := h.postService.Get(postID)
	if err != nil {
		return err
	}
	return c.JSON(post.ToResponse())
}

// HandleUpdatePost updates a post's body. The stored author is the
// authorization target; a payload user_id, when present, must match it.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	postID, err := middleware.ParamID(c, "post_id")
	if err != nil {
		return err
	}
	post, err := h.postService.Get(postID)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing post update body: %v", err)
		return apperrors.ErrPostBodyMissing
	}
	if err := authz.CanUpdatePost(middleware.CurrentUser(c), post, req.UserID); err != nil {
		return err
	}
	if err := h.postService.Update(post, &req); err != nil {
		return err
	}
	return c.JSON(post.ToResponse())
}

// HandleDeletePost removes a post, owner-only.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	postID, err := middleware.ParamID(c, "post_id")
	if err != nil {
		return err
	}
	post, err := h.postService.Get(postID)
	if err != nil {
		return err
	}
	if err := authz.CanDeletePost(middleware.CurrentUser(c), post); err != nil {
		return err
	}
	if err := h.postService.Delete(post); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleFeed returns the authenticated user's feed: their own posts plus
// those of everyone they follow, newest first.
func (h *PostHandler) HandleFeed(c *fiber.Ctx) error {
	identity := middleware.CurrentUser(c)

	page, perPage := pagination.ParseParams(c)
	posts, total, err := h.postService.FollowedPosts(identity.ID, page, perPage)
	if err != nil {
		return err
	}
	items := h.postService.SerializeList(posts)
	return c.JSON(pagination.NewEnvelope(items, page, perPage, total, c.Path()))
}
