package repositories

import (
	"fmt"

	"microblog/internal/models"
	"microblog/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{
		db: db,
	}
}

// Follow inserts the edge if it does not exist yet. The conflict target is
// the unique (follower_id, followed_id) index, which makes re-following a
// no-op.
func (r *GORMFollowRepository) Follow(followerID, followedID uint) error {
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	if err != nil {
		return fmt.Errorf("failed to follow user %d: %w", followedID, err)
	}
	return nil
}

// Unfollow removes the edge if present. Removing an absent edge is a no-op.
func (r *GORMFollowRepository) Unfollow(followerID, followedID uint) error {
	err := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("failed to unfollow user %d: %w", followedID, err)
	}
	return nil
}

// IsFollowing reports whether the directed edge exists.
func (r *GORMFollowRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}

func (r *GORMFollowRepository) listUsers(joinColumn, whereColumn string, userID uint, page, perPage int) ([]models.User, int64, error) {
	scope := r.db.Model(&models.User{}).
		Joins(fmt.Sprintf("JOIN follows ON follows.%s = users.id", joinColumn)).
		Where(fmt.Sprintf("follows.%s = ?", whereColumn), userID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count follow edges of user %d: %w", userID, err)
	}

	var users []models.User
	err := scope.Order("users.id ASC").
		Offset(pagination.Offset(page, perPage)).
		Limit(perPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list follow edges of user %d: %w", userID, err)
	}
	return users, total, nil
}

// Followers returns one page of the users following userID.
func (r *GORMFollowRepository) Followers(userID uint, page, perPage int) ([]models.User, int64, error) {
	return r.listUsers("follower_id", "followed_id", userID, page, perPage)
}

// Followed returns one page of the users userID follows.
func (r *GORMFollowRepository) Followed(userID uint, page, perPage int) ([]models.User, int64, error) {
	return r.listUsers("followed_id", "follower_id", userID, page, perPage)
}

// CountFollowers returns the number of incoming edges.
func (r *GORMFollowRepository) CountFollowers(userID uint) (int64, error) {
	return r.countEdges("followed_id", userID)
}

// CountFollowed returns the number of outgoing edges.
func (r *GORMFollowRepository) CountFollowed(userID uint) (int64, error) {
	return r.countEdges("follower_id", userID)
}

func (r *GORMFollowRepository) countEdges(column string, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where(fmt.Sprintf("%s = ?", column), userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count follow edges of user %d: %w", userID, err)
	}
	return count, nil
}
