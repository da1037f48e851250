package models

import (
	"fmt"
	"time"
)

// User represents an account holder. The password is stored only as a bcrypt
// hash, and the API token is an opaque server-stored credential with its own
// expiry (at most one active token per user).
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Username        string    `json:"username" gorm:"uniqueIndex;type:varchar(100)"`
	Email           string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(255)"`
	AboutMe         string    `json:"about_me"`
	LastSeen        time.Time `json:"last_seen"`
	Token           *string   `json:"-" gorm:"index;type:varchar(64)"`
	TokenExpiration time.Time `json:"-"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// RegisterUserRequest is the payload for user registration.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateUserRequest is the payload for a partial profile update. Only fields
// present in the request are changed; a nil field is left untouched.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	AboutMe  *string `json:"about_me"`
	Password *string `json:"password"`
}

// UserLinks is the hypermedia block attached to a serialized user.
type UserLinks struct {
	Self      string `json:"self"`
	Followers string `json:"followers"`
	Followed  string `json:"followed"`
}

// UserResponse is the public representation of a user. Email and password
// hash are never serialized.
type UserResponse struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	AboutMe       string    `json:"about_me"`
	LastSeen      time.Time `json:"last_seen"`
	PostCount     int64     `json:"post_count"`
	FollowerCount int64     `json:"follower_count"`
	FollowedCount int64     `json:"followed_count"`
	Links         UserLinks `json:"_links"`
}

// ToResponse builds the public representation of the user. The counts are
// supplied by the caller since they live in the post and follow stores.
func (u *User) ToResponse(postCount, followerCount, followedCount int64) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		AboutMe:       u.AboutMe,
		LastSeen:      u.LastSeen,
		PostCount:     postCount,
		FollowerCount: followerCount,
		FollowedCount: followedCount,
		Links: UserLinks{
			Self:      fmt.Sprintf("/api/users/%d", u.ID),
			Followers: fmt.Sprintf("/api/users/%d/followers", u.ID),
			Followed:  fmt.Sprintf("/api/users/%d/followed", u.ID),
		},
	}
}
