package models

import (
	"fmt"
	"time"
)

// Post is authored content. The owning user is fixed at creation time and the
// timestamp is server-assigned so the feed ordering is deterministic.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Language  string    `json:"language" gorm:"type:varchar(16)"`
}

// CreatePostRequest is the payload for post creation and update. Pointer
// fields distinguish "absent" from "empty" for the capability checks.
type CreatePostRequest struct {
	Body     *string `json:"body"`
	UserID   *uint   `json:"user_id"`
	Language string  `json:"language"`
}

// PostLinks is the hypermedia block attached to a serialized post.
type PostLinks struct {
	Self   string `json:"self"`
	Author string `json:"author"`
}

// PostResponse is the public representation of a post.
type PostResponse struct {
	ID        uint      `json:"id"`
	Body      string    `json:"body"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Language  string    `json:"language"`
	Links     PostLinks `json:"_links"`
}

// ToResponse builds the public representation of the post.
func (p *Post) ToResponse() PostResponse {
	return PostResponse{
		ID:        p.ID,
		Body:      p.Body,
		UserID:    p.UserID,
		Timestamp: p.Timestamp,
		Language:  p.Language,
		Links: PostLinks{
			Self:   fmt.Sprintf("/api/users/%d/posts/%d", p.UserID, p.ID),
			Author: fmt.Sprintf("/api/users/%d", p.UserID),
		},
	}
}
