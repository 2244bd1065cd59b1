package repositories

import (
	"context"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	CountCommentsByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error)
}

// PostgresCommentRepository implements CommentRepository on any gorm dialect
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentsByPostID retrieves all comments for a specific post, newest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at DESC, id DESC").Find(&comments).Error
	return comments, err
}

// CountCommentsByPostIDs returns the comment count of every post in postIDs that has at least one comment
func (r *PostgresCommentRepository) CountCommentsByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPostIDs(r.db.WithContext(ctx).Model(&models.Comment{}), postIDs)
}

// DeleteCommentsByPostID removes every comment of a post and reports how many were deleted
func (r *PostgresCommentRepository) DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}

type postCount struct {
	PostID string
	Count  int64
}

// countByPostIDs groups the rows of a scoped model query by post_id
func countByPostIDs(scope *gorm.DB, postIDs []string) (map[string]int64, error) {
	result := make(map[string]int64)
	if len(postIDs) == 0 {
		return result, nil
	}
	var rows []postCount
	err := scope.
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PostID] = row.Count
	}
	return result, nil
}
