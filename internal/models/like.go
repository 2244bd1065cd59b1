package models

import "time"

// Like represents one user's like of one post. The (post, user) pair is unique.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"size:36;not null;index;uniqueIndex:idx_post_user_like"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
