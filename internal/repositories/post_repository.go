package repositories

import "microblog/internal/models"

// PostRepository defines the interface for post data access. GetByID returns
// (nil, nil) when no row matches. The paginated listings return the page plus
// the total count so handlers can build the page envelope.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	Update(post *models.Post) error
	Delete(id uint) error
	ListByUser(userID uint, page, perPage int) ([]models.Post, int64, error)
	// FollowedPosts returns posts authored by the user or by anyone the user
	// follows, newest first, ties broken by post ID descending.
	FollowedPosts(userID uint, page, perPage int) ([]models.Post, int64, error)
	CountByUser(userID uint) (int64, error)
}
