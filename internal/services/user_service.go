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

// UserService handles business logic for users and the follow graph.
type UserService struct {
	userRepo   repositories.UserRepository
	postRepo   repositories.PostRepository
	followRepo repositories.FollowRepository
	auth       *AuthService
	mqClient   *rabbitmq.Client
}

// NewUserService creates a new UserService. mqClient may be nil, in which
// case event publication is skipped.
func NewUserService(userRepo repositories.UserRepository, postRepo repositories.PostRepository,
	followRepo repositories.FollowRepository, auth *AuthService, mqClient *rabbitmq.Client) *UserService {
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		auth:       auth,
		mqClient:   mqClient,
	}
}

// Register creates a new user. Username and email uniqueness are checked
// before the insert to produce descriptive conflicts; the unique indexes
// remain the authoritative guard under concurrency. No token is minted here.
func (s *UserService) Register(req *models.RegisterUserRequest) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}
	if existing, err := s.userRepo.GetByEmail(req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		LastSeen:     time.Now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.publish("user.registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

// GetUser retrieves a user or fails with a not-found error.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("user %d does not exist", id))
	}
	return user, nil
}

// ListUsers returns one page of users and the total count.
func (s *UserService) ListUsers(page, perPage int) ([]models.User, int64, error) {
	return s.userRepo.List(page, perPage)
}

// Update applies a partial profile update. Only username, email, about_me and
// password are mutable; username/email changes re-check uniqueness against
// all other users. The password changes only when supplied non-empty, it is
// never blank-cleared.
func (s *UserService) Update(user *models.User, req *models.UpdateUserRequest) error {
	if req.Username != nil && *req.Username != user.Username {
		other, err := s.userRepo.GetByUsername(*req.Username)
		if err != nil {
			return err
		}
		if other != nil && other.ID != user.ID {
			return apperrors.ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		other, err := s.userRepo.GetByEmail(*req.Email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != user.ID {
			return apperrors.ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.AboutMe != nil {
		user.AboutMe = *req.AboutMe
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.auth.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	return s.userRepo.Update(user)
}

// Delete removes the user, cascading to their posts and follow edges.
func (s *UserService) Delete(user *models.User) error {
	return s.userRepo.Delete(user.ID)
}

// Follow adds a follow edge from follower to the target user. Re-following
// is a no-op. The target must exist.
func (s *UserService) Follow(follower *models.User, targetID uint) error {
	if _, err := s.GetUser(targetID); err != nil {
		return err
	}
	if err := s.followRepo.Follow(follower.ID, targetID); err != nil {
		return err
	}
	s.publish("user.followed", map[string]interface{}{
		"follower_id": follower.ID,
		"followed_id": targetID,
	})
	return nil
}

// Unfollow removes the follow edge if present. The target must exist.
func (s *UserService) Unfollow(follower *models.User, targetID uint) error {
	if _, err := s.GetUser(targetID); err != nil {
		return err
	}
	return s.followRepo.Unfollow(follower.ID, targetID)
}

// Followers returns one page of the users following the given user.
func (s *UserService) Followers(userID uint, page, perPage int) ([]models.User, int64, error) {
	return s.followRepo.Followers(userID, page, perPage)
}

// Followed returns one page of the users the given user follows.
func (s *UserService) Followed(userID uint, page, perPage int) ([]models.User, int64, error) {
	return s.followRepo.Followed(userID, page, perPage)
}

// TouchLastSeen bumps the user's last-seen timestamp.
func (s *UserService) TouchLastSeen(user *models.User) error {
	user.LastSeen = time.Now().UTC()
	return s.userRepo.Update(user)
}

// Serialize builds the public representation of a user, pulling the post and
// follow counts from their stores.
func (s *UserService) Serialize(user *models.User) (models.UserResponse, error) {
	postCount, err := s.postRepo.CountByUser(user.ID)
	if err != nil {
		return models.UserResponse{}, err
	}
	followerCount, err := s.followRepo.CountFollowers(user.ID)
	if err != nil {
		return models.UserResponse{}, err
	}
	followedCount, err := s.followRepo.CountFollowed(user.ID)
	if err != nil {
		return models.UserResponse{}, err
	}
	return user.ToResponse(postCount, followerCount, followedCount), nil
}

// SerializeList builds the public representation of a page of users.
func (s *UserService) SerializeList(users []models.User) ([]models.UserResponse, error) {
	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		resp, err := s.Serialize(&users[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// publish sends a domain event best-effort; failures are logged, never
// surfaced to the request.
func (s *UserService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
