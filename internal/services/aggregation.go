package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-blog/backend/internal/access"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/repositories"
)

// PostSummary is a post as shown in listings
type PostSummary struct {
	models.Post
	LikesCount    int64
	CommentsCount int64
}

// PostDetail is a post as shown on its own page
type PostDetail struct {
	Post       *models.Post
	Comments   []models.Comment
	LikesCount int
	UserLiked  bool
}

// AggregationService derives counts for display. Nothing is cached; every call queries.
type AggregationService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
}

func NewAggregationService(posts repositories.PostRepository, comments repositories.CommentRepository, likes repositories.LikeRepository) *AggregationService {
	return &AggregationService{posts: posts, comments: comments, likes: likes}
}

// Summaries attaches raw like and comment counts to each post, in the given order
func (s *AggregationService) Summaries(ctx context.Context, posts []models.Post) ([]PostSummary, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, err := s.likes.CountLikesByPostIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	comments, err := s.comments.CountCommentsByPostIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	summaries := make([]PostSummary, len(posts))
	for i, p := range posts {
		summaries[i] = PostSummary{
			Post:          p,
			LikesCount:    likes[p.ID],
			CommentsCount: comments[p.ID],
		}
	}
	return summaries, nil
}

// Detail loads a post with its comments, its unique-liker count and whether caller liked it
func (s *AggregationService) Detail(ctx context.Context, postID string, caller access.Caller) (*PostDetail, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	likers, err := s.likes.GetLikerIDsByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list likers: %w", err)
	}

	detail := &PostDetail{
		Post:       post,
		Comments:   comments,
		LikesCount: len(likers),
	}
	if caller.IsAuthenticated() {
		detail.UserLiked, err = s.likes.HasUserLikedPost(ctx, postID, caller.UserID())
		if err != nil {
			return nil, fmt.Errorf("check like: %w", err)
		}
	}
	return detail, nil
}
