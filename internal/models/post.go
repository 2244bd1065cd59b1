package models

import "time"

// Post is a blog post. It is stored in MongoDB when configured, otherwise in the SQL database,
// so it carries both bson and gorm tags. ID is an ObjectID hex string in Mongo and a UUID in SQL.
type Post struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" bson:"title" gorm:"not null"`
	Content     string    `json:"content" bson:"content" gorm:"type:text;not null"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	AuthorID    uint      `json:"author_id" bson:"author_id" gorm:"index;not null"`
	AuthorName  string    `json:"author_name" bson:"author_name"`   // Snapshot at creation time
	AuthorImage string    `json:"author_image" bson:"author_image"` // Snapshot at creation time
	CreatedAt   time.Time `json:"created_at" bson:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the text fields of the /blog/add form; images arrive as files.
type CreatePostRequest struct {
	Title      string `form:"title" validate:"required,max=200"`
	Content    string `form:"content" validate:"required"`
	AuthorName string `form:"authorName" validate:"omitempty,max=100"`
}

// UpdatePostRequest defines the /blog/:id/edit form. Empty fields keep their stored value.
type UpdatePostRequest struct {
	Title   string `form:"title" validate:"omitempty,max=200"`
	Content string `form:"content"`
}
