package repositories

import "microblog/internal/models"

// FollowRepository defines the interface for follow graph data access.
// Follow and Unfollow are idempotent: an existing edge is left alone, an
// absent edge is not an error.
type FollowRepository interface {
	Follow(followerID, followedID uint) error
	Unfollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) (bool, error)
	// Followers lists the users following userID (incoming edges).
	Followers(userID uint, page, perPage int) ([]models.User, int64, error)
	// Followed lists the users userID follows (outgoing edges).
	Followed(userID uint, page, perPage int) ([]models.User, int64, error)
	CountFollowers(userID uint) (int64, error)
	CountFollowed(userID uint) (int64, error)
}
