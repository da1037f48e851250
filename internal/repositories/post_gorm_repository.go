package repositories

import (
	"errors"
	"fmt"

	"microblog/internal/models"
	"microblog/internal/pagination"

	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create inserts a new post.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by its ID.
func (r *GORMPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// Update persists all fields of the post row.
func (r *GORMPostRepository) Update(post *models.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	return nil
}

// Delete removes a post by its ID.
func (r *GORMPostRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Post{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return nil
}

// ListByUser returns one page of a user's posts, newest first.
func (r *GORMPostRepository) ListByUser(userID uint, page, perPage int) ([]models.Post, int64, error) {
	scope := r.db.Model(&models.Post{}).Where("user_id = ?", userID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts of user %d: %w", userID, err)
	}

	var posts []models.Post
	err := scope.Order("timestamp DESC, id DESC").
		Offset(pagination.Offset(page, perPage)).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts of user %d: %w", userID, err)
	}
	return posts, total, nil
}

// FollowedPosts returns one page of the posts visible in the user's feed:
// their own plus those of everyone they follow, ordered by timestamp
// descending with ID descending as the tiebreaker.
func (r *GORMPostRepository) FollowedPosts(userID uint, page, perPage int) ([]models.Post, int64, error) {
	scope := r.db.Model(&models.Post{}).Where(
		"user_id = ? OR user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)",
		userID, userID,
	)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count followed posts of user %d: %w", userID, err)
	}

	var posts []models.Post
	err := scope.Order("timestamp DESC, id DESC").
		Offset(pagination.Offset(page, perPage)).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list followed posts of user %d: %w", userID, err)
	}
	return posts, total, nil
}

// CountByUser returns the number of posts authored by the user.
func (r *GORMPostRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts of user %d: %w", userID, err)
	}
	return count, nil
}
