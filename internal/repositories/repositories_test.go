package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitSQL("sqlite", filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, AutoMigrate(db, true))
	return db
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresUserRepository(newTestDB(t))

	user := &models.User{FullName: "Alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("unique email", func(t *testing.T) {
		err := repo.CreateUser(ctx, &models.User{FullName: "Other", Email: "alice@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrDuplicatedKey)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := repo.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetUserByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteUser(ctx, user.ID))
		assert.ErrorIs(t, repo.DeleteUser(ctx, user.ID), ErrNotFound)
	})
}

func TestLikeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresLikeRepository(newTestDB(t))

	inserted, err := repo.CreateLikeIfAbsent(ctx, "p1", 1)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.CreateLikeIfAbsent(ctx, "p1", 1)
	require.NoError(t, err)
	assert.False(t, inserted, "the pair is unique")

	_, err = repo.CreateLikeIfAbsent(ctx, "p1", 2)
	require.NoError(t, err)
	_, err = repo.CreateLikeIfAbsent(ctx, "p2", 1)
	require.NoError(t, err)

	liked, err := repo.HasUserLikedPost(ctx, "p1", 2)
	require.NoError(t, err)
	assert.True(t, liked)

	ids, err := repo.GetLikerIDsByPostID(ctx, "p1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, ids)

	counts, err := repo.CountLikesByPostIDs(ctx, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"p1": 2, "p2": 1}, counts)

	removed, err := repo.DeleteLike(ctx, "p1", 2)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.DeleteLike(ctx, "p1", 2)
	require.NoError(t, err)
	assert.False(t, removed)

	n, err := repo.DeleteLikesByPostID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresCommentRepository(newTestDB(t))

	for _, text := range []string{"first", "second"} {
		require.NoError(t, repo.CreateComment(ctx, &models.Comment{PostID: "p1", Name: "Bob", Text: text}))
	}

	comments, err := repo.GetCommentsByPostID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text, "newest first")

	counts, err := repo.CountCommentsByPostIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)

	n, err := repo.DeleteCommentsByPostID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSQLPostRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLPostRepository(newTestDB(t))

	post := &models.Post{Title: "50% off", Content: "snake_case and back\\slash", AuthorID: 1}
	require.NoError(t, repo.CreatePost(ctx, post))
	assert.Len(t, post.ID, 36)
	other := &models.Post{Title: "Plain", Content: "nothing special", AuthorID: 2}
	require.NoError(t, repo.CreatePost(ctx, other))
	accented := &models.Post{Title: "Été à Paris", Content: "soleil", AuthorID: 2}
	require.NoError(t, repo.CreatePost(ctx, accented))

	tests := []struct {
		query string
		want  int
	}{
		{"50%", 1},
		{"% OFF", 1},
		{"e_c", 1},
		{"k\\s", 1},
		{"PLAIN", 1},
		{"n", 2},
		{"x%y", 0},
		{"été", 1},
		{"ÉTÉ", 1},
		{"À PARIS", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := repo.SearchPosts(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	post.Title = "60% off"
	require.NoError(t, repo.UpdatePost(ctx, post))
	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "60% off", got.Title)

	mine, err := repo.GetPostsByAuthorID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, repo.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, repo.DeletePost(ctx, post.ID), ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePost(ctx, post), ErrNotFound)
	_, err = repo.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchFilterQuotesRegex(t *testing.T) {
	filter := searchFilter("a.b*")
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	title := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, `a\.b\*`, title.Pattern)
	assert.Equal(t, "i", title.Options)
}
