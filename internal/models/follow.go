package models

import "time"

// Follow is a directed edge in the follow graph: follower sees followed's
// posts in their feed. The ordered pair is unique.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"uniqueIndex:idx_follower_followed"`
	FollowedID uint      `json:"followed_id" gorm:"uniqueIndex:idx_follower_followed"`
	CreatedAt  time.Time `json:"created_at"`
}
