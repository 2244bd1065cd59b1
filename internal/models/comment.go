package models

import "time"

// AnonymousName is recorded for comments left without an identity.
const AnonymousName = "Anonymous"

// Comment represents a comment on a post. The commenter is free text, not a user reference.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;size:36;not null"`
	Name      string    `json:"name" gorm:"not null;default:Anonymous"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the form posted to /blog/:id/comment
type CreateCommentRequest struct {
	Text string `form:"text" validate:"required,max=1000"`
}
