package repositories

import (
	"context"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLikeIfAbsent(ctx context.Context, postID string, userID uint) (bool, error)
	DeleteLike(ctx context.Context, postID string, userID uint) (bool, error)
	HasUserLikedPost(ctx context.Context, postID string, userID uint) (bool, error)
	GetLikerIDsByPostID(ctx context.Context, postID string) ([]uint, error)
	CountLikesByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	DeleteLikesByPostID(ctx context.Context, postID string) (int64, error)
}

// PostgresLikeRepository implements LikeRepository on any gorm dialect
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLikeIfAbsent inserts the (post, user) pair unless it already exists.
// The unique index makes concurrent inserts collapse into one row; it reports whether this call inserted.
func (r *PostgresLikeRepository) CreateLikeIfAbsent(ctx context.Context, postID string, userID uint) (bool, error) {
	like := &models.Like{PostID: postID, UserID: userID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLike removes the (post, user) pair and reports whether a row was removed
func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, postID string, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(ctx context.Context, postID string, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, err
}

// GetLikerIDsByPostID returns the distinct ids of users who liked a post
func (r *PostgresLikeRepository) GetLikerIDsByPostID(ctx context.Context, postID string) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.Like{}).Distinct().Where("post_id = ?", postID).Pluck("user_id", &ids).Error
	return ids, err
}

// CountLikesByPostIDs returns the raw like count of every post in postIDs that has at least one like
func (r *PostgresLikeRepository) CountLikesByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPostIDs(r.db.WithContext(ctx).Model(&models.Like{}), postIDs)
}

// DeleteLikesByPostID removes every like of a post and reports how many were deleted
func (r *PostgresLikeRepository) DeleteLikesByPostID(ctx context.Context, postID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Like{})
	return res.RowsAffected, res.Error
}
