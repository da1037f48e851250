package repositories

import "microblog/internal/models"

// UserRepository defines the interface for user data access. Lookup methods
// return (nil, nil) when no row matches so callers can map absence to the
// right failure kind.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByToken(token string) (*models.User, error)
	Update(user *models.User) error
	// Delete removes the user together with their posts and follow edges in
	// one transaction.
	Delete(id uint) error
	List(page, perPage int) ([]models.User, int64, error)
}
