package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/nano-blog/backend/internal/access"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/repositories"
)

// NewPost carries the fields of a post being created. Empty AuthorName and AuthorImage
// fall back to the author's identity.
type NewPost struct {
	Title       string
	Content     string
	Image       string
	AuthorName  string
	AuthorImage string
}

// PostUpdate is a partial edit; empty fields keep the stored value
type PostUpdate struct {
	Title   string
	Content string
	Image   string
}

// ContentService handles posts, comments and likes
type ContentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
}

// NewContentService creates a new ContentService
func NewContentService(posts repositories.PostRepository, comments repositories.CommentRepository, likes repositories.LikeRepository) *ContentService {
	return &ContentService{posts: posts, comments: comments, likes: likes}
}

// CreatePost stores a post owned by author, snapshotting the author's display name and image
func (s *ContentService) CreatePost(ctx context.Context, author *models.Identity, in NewPost) (*models.Post, error) {
	caller := access.FromIdentity(author)
	if !caller.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, ErrInvalidInput
	}

	post := &models.Post{
		Title:       in.Title,
		Content:     in.Content,
		Image:       in.Image,
		AuthorID:    caller.UserID(),
		AuthorName:  firstNonEmpty(strings.TrimSpace(in.AuthorName), author.FullName),
		AuthorImage: firstNonEmpty(in.AuthorImage, author.Avatar, models.DefaultAvatar),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *ContentService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetPostByID(ctx, id)
}

// ListPosts returns every post, newest first
func (s *ContentService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.posts.GetAllPosts(ctx)
}

// ListPostsByAuthor returns one user's posts, newest first
func (s *ContentService) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.posts.GetPostsByAuthorID(ctx, authorID)
}

// Editable loads a post for mutation: ErrNotFound when missing, ErrForbidden unless the caller owns it
func (s *ContentService) Editable(ctx context.Context, id string, caller access.Caller) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(post.AuthorID) {
		return nil, ErrForbidden
	}
	return post, nil
}

// UpdatePost applies a partial edit; only the owner may edit
func (s *ContentService) UpdatePost(ctx context.Context, id string, caller access.Caller, in PostUpdate) (*models.Post, error) {
	post, err := s.Editable(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		post.Title = title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.Image != "" {
		post.Image = in.Image
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post and its comments and likes; only the owner may delete
func (s *ContentService) DeletePost(ctx context.Context, id string, caller access.Caller) error {
	if _, err := s.Editable(ctx, id, caller); err != nil {
		return err
	}
	return s.removePost(ctx, id)
}

// removePost deletes the post, then its comments, then its likes. The steps are not
// transactional; a failure part way leaves the later rows behind.
func (s *ContentService) removePost(ctx context.Context, id string) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if _, err := s.comments.DeleteCommentsByPostID(ctx, id); err != nil {
		return fmt.Errorf("delete comments of post %s: %w", id, err)
	}
	if _, err := s.likes.DeleteLikesByPostID(ctx, id); err != nil {
		return fmt.Errorf("delete likes of post %s: %w", id, err)
	}
	return nil
}

// DeletePostsByAuthor removes every post of a user with the same cascade as DeletePost.
// It keeps going past individual failures and reports them together.
func (s *ContentService) DeletePostsByAuthor(ctx context.Context, authorID uint) error {
	posts, err := s.posts.GetPostsByAuthorID(ctx, authorID)
	if err != nil {
		return fmt.Errorf("list posts of user %d: %w", authorID, err)
	}
	var errs []error
	for _, post := range posts {
		if err := s.removePost(ctx, post.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddComment appends a comment to an existing post. Anyone may comment; an empty
// display name is recorded as Anonymous.
func (s *ContentService) AddComment(ctx context.Context, postID, displayName, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		Name:   firstNonEmpty(strings.TrimSpace(displayName), models.AnonymousName),
		Text:   text,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ToggleLike removes the user's like of a post, or adds it when there was none.
// It reports whether the post is liked afterwards.
func (s *ContentService) ToggleLike(ctx context.Context, postID string, userID uint) (bool, error) {
	if userID == 0 {
		return false, ErrLoginRequired
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return false, err
	}

	removed, err := s.likes.DeleteLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	if removed {
		return false, nil
	}
	// A concurrent toggle may have inserted first; the unique index keeps one row either way.
	if _, err := s.likes.CreateLikeIfAbsent(ctx, postID, userID); err != nil {
		return false, fmt.Errorf("create like: %w", err)
	}
	return true, nil
}

// SearchPosts finds posts whose title or content contains query, ignoring case.
// The query is matched as given, spaces included; an empty query matches nothing.
func (s *ContentService) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	if query == "" {
		return []models.Post{}, nil
	}
	return s.posts.SearchPosts(ctx, query)
}
