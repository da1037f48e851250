package services

import (
	"fmt"
	"log"
	"time"

	"microblog/internal/apperrors"
	"microblog/internal/models"
	"microblog/internal/repositories"
	"microblog/pkg/rabbitmq"
)

// PostService handles business logic for posts and the feed.
type PostService struct {
	postRepo repositories.PostRepository
	mqClient *rabbitmq.Client
}

// NewPostService creates a new PostService. mqClient may be nil, in which
// case event publication is skipped.
func NewPostService(postRepo repositories.PostRepository, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo: postRepo,
		mqClient: mqClient,
	}
}

// Create stores a new post authored by userID. The body must be non-empty;
// the timestamp is server-assigned.
func (s *PostService) Create(userID uint, req *models.CreatePostRequest) (*models.Post, error) {
	if req.Body == nil || *req.Body == "" {
		return nil, apperrors.ErrPostBodyMissing
	}

	post := &models.Post{
		Body:      *req.Body,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Language:  req.Language,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	if s.mqClient != nil {
		err := s.mqClient.PublishEvent("post.created", map[string]interface{}{
			"post_id": post.ID,
			"user_id": post.UserID,
		})
		if err != nil {
			log.Printf("Warning: failed to publish post.created event for post %d: %v", post.ID, err)
		}
	}
	return post, nil
}

// Get retrieves a post or fails with a not-found error.
func (s *PostService) Get(id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("post %d does not exist", id))
	}
	return post, nil
}

// Update changes the post body (and language when supplied). The body must be
// non-empty; the author is immutable.
func (s *PostService) Update(post *models.Post, req *models.CreatePostRequest) error {
	if req.Body == nil || *req.Body == "" {
		return apperrors.ErrPostBodyMissing
	}
	post.Body = *req.Body
	if req.Language != "" {
		post.Language = req.Language
	}
	return s.postRepo.Update(post)
}

// Delete removes a post.
func (s *PostService) Delete(post *models.Post) error {
	return s.postRepo.Delete(post.ID)
}

// ListByUser returns one page of a user's posts, newest first.
func (s *PostService) ListByUser(userID uint, page, perPage int) ([]models.Post, int64, error) {
	return s.postRepo.ListByUser(userID, page, perPage)
}

// FollowedPosts returns one page of the user's feed: their own posts plus
// those of everyone they follow, newest first.
func (s *PostService) FollowedPosts(userID uint, page, perPage int) ([]models.Post, int64, error) {
	return s.postRepo.FollowedPosts(userID, page, perPage)
}

// SerializeList builds the public representation of a page of posts.
func (s *PostService) SerializeList(posts []models.Post) []models.PostResponse {
	responses := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, posts[i].ToResponse())
	}
	return responses
}
