package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLPostRepository implements PostRepository with gorm, used when no MongoDB is configured
type SQLPostRepository struct {
	db *gorm.DB
}

// NewSQLPostRepository creates a new SQLPostRepository
func NewSQLPostRepository(db *gorm.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

func (r *SQLPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = uuid.NewString()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *SQLPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *SQLPostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *SQLPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// SearchPosts matches the query as a literal, case-insensitive substring of title or content
func (r *SQLPostRepository) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	posts := []models.Post{}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"title":      post.Title,
		"content":    post.Content,
		"image":      post.Image,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLPostRepository) DeletePost(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
