package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anonto42/nano-blog/backend/internal/identity"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/uploads"
	"github.com/anonto42/nano-blog/backend/internal/validators"
	"github.com/anonto42/nano-blog/backend/internal/views"
	"github.com/anonto42/nano-blog/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer returns the app and the directory avatar and cover uploads land in
func newTestServer(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	dir := t.TempDir()

	sqlDB, err := config.InitSQL("sqlite", filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	db := &config.DB{SQL: sqlDB}
	t.Cleanup(db.CloseDB)

	cfg := &config.Config{
		Env:          "test",
		CookieSecret: "test-secret",
		StaticDir:    filepath.Join(dir, "public"),
		UploadDir:    filepath.Join(dir, "public", "uploads"),
	}
	store, err := uploads.NewDiskStore(cfg.UploadDir, "/uploads")
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validators.NewValidator()
	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer

	require.NoError(t, SetupRoutes(e, db, cfg, store))
	return e, cfg.UploadDir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

// session replays the identity cookie the way a browser would
type session struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func (s *session) do(req *http.Request) *httptest.ResponseRecorder {
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name != identity.CookieName {
			continue
		}
		if c.MaxAge < 0 || c.Value == "" {
			s.cookie = nil
		} else {
			s.cookie = c
		}
	}
	return rec
}

func (s *session) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *session) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return s.do(req)
}

func (s *session) postMultipart(path string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(s.t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return s.do(req)
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, location, rec.Header().Get(echo.HeaderLocation))
}

func (s *session) search(query string) []models.Post {
	rec := s.get("/blog/search?query=" + url.QueryEscape(query))
	require.Equal(s.t, http.StatusOK, rec.Code)
	var posts []models.Post
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &posts))
	return posts
}

func TestBlogFlow(t *testing.T) {
	e, uploadDir := newTestServer(t)
	anon := &session{t: t, e: e}
	alice := &session{t: t, e: e}
	bob := &session{t: t, e: e}

	assertRedirect(t, anon.get("/"), "/user/signin")
	assertRedirect(t, anon.get("/home"), "/user/signin")

	// signup
	assertRedirect(t, alice.postMultipart("/user/signup", map[string]string{
		"fullName": "Alice",
		"email":    "alice@example.com",
		"password": "secret",
		"dob":      "1990-04-01",
	}, map[string]string{"avatar": "me.png"}), "/")
	require.NotNil(t, alice.cookie)
	assert.True(t, alice.cookie.HttpOnly)

	assertRedirect(t, bob.postForm("/user/signup", url.Values{
		"fullName": {"Bob"},
		"email":    {"bob@example.com"},
		"password": {"hunter2"},
	}), "/")

	assertRedirect(t, anon.postForm("/user/signup", url.Values{
		"fullName": {"Impostor"},
		"email":    {"alice@example.com"},
		"password": {"x"},
	}), "/user/signup")
	assert.Nil(t, anon.cookie)

	stored := countFiles(t, uploadDir)
	assertRedirect(t, anon.postMultipart("/user/signup", map[string]string{
		"fullName": "Impostor",
		"email":    "alice@example.com",
		"password": "x",
	}, map[string]string{"avatar": "impostor.png"}), "/user/signup")
	assert.Nil(t, anon.cookie)
	assert.Equal(t, stored, countFiles(t, uploadDir), "rejected signup must not keep its avatar")

	assertRedirect(t, anon.postForm("/user/signup", url.Values{"email": {"c@example.com"}}), "/user/signup")

	assertRedirect(t, alice.get("/"), "/home")
	assert.Equal(t, http.StatusOK, alice.get("/home").Code)

	// create
	assertRedirect(t, alice.postMultipart("/blog/add", map[string]string{
		"title":   "Hello",
		"content": "world",
	}, map[string]string{"image": "cover.jpg"}), "/home")
	assertRedirect(t, alice.postForm("/blog/add", url.Values{"content": {"no title"}}), "/blog/add")
	assertRedirect(t, anon.postForm("/blog/add", url.Values{"title": {"x"}, "content": {"y"}}), "/user/signin")

	posts := anon.search("HELLO")
	require.Len(t, posts, 1)
	post := posts[0]
	assert.Equal(t, "Alice", post.AuthorName)
	assert.True(t, strings.HasPrefix(post.AuthorImage, "/uploads/"), "author image falls back to the avatar")
	require.True(t, strings.HasPrefix(post.Image, "/uploads/"))
	assert.True(t, strings.HasSuffix(post.Image, ".jpg"))
	assert.Equal(t, http.StatusOK, anon.get(post.Image).Code)

	assert.Empty(t, anon.search(""))
	assert.Empty(t, anon.search("hello "))
	assert.Len(t, anon.search("hello"), 1)

	listing := anon.get("/blog")
	assert.Equal(t, http.StatusOK, listing.Code)
	assert.Contains(t, listing.Body.String(), "Hello")

	// ownership
	postPath := "/blog/" + post.ID
	assert.Equal(t, http.StatusForbidden, bob.get(postPath+"/edit").Code)
	assert.Equal(t, http.StatusForbidden, bob.postForm(postPath+"/edit", url.Values{"title": {"Hacked"}}).Code)
	assert.Equal(t, http.StatusForbidden, bob.postForm(postPath+"/delete", nil).Code)
	assertRedirect(t, anon.postForm(postPath+"/delete", nil), "/user/signin")
	assertRedirect(t, alice.get("/blog/missing/edit"), "/home")

	assert.Equal(t, http.StatusOK, alice.get(postPath+"/edit").Code)
	assertRedirect(t, alice.postForm(postPath+"/edit", url.Values{"title": {"Hello2"}}), "/user/profile")
	posts = anon.search("hello2")
	require.Len(t, posts, 1)
	assert.Equal(t, "world", posts[0].Content)

	// likes
	assert.Equal(t, http.StatusUnauthorized, anon.postForm(postPath+"/like", nil).Code)

	req := httptest.NewRequest(http.MethodPost, postPath+"/like", nil)
	req.Header.Set("Referer", postPath)
	assertRedirect(t, bob.do(req), postPath)
	detail := bob.get(postPath)
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "1 likes")
	assert.Contains(t, detail.Body.String(), "Unlike")

	assertRedirect(t, bob.postForm(postPath+"/like", nil), "/home")
	assert.Contains(t, bob.get(postPath).Body.String(), "0 likes")

	// comments
	assertRedirect(t, anon.postForm(postPath+"/comment", url.Values{"text": {"nice post"}}), postPath)
	assertRedirect(t, bob.postForm(postPath+"/comment", url.Values{"text": {"agreed"}}), postPath)
	assertRedirect(t, anon.postForm("/blog/missing/comment", url.Values{"text": {"hello?"}}), "/blog")
	page := anon.get(postPath).Body.String()
	assert.Contains(t, page, "Anonymous")
	assert.Contains(t, page, "nice post")
	assert.Contains(t, page, "Bob")

	assertRedirect(t, anon.get("/blog/missing"), "/blog")

	// profile
	profile := alice.get("/user/profile")
	require.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), "Hello2")
	assertRedirect(t, anon.get("/user/profile"), "/user/signin")

	assertRedirect(t, alice.postForm("/user/profile/edit", url.Values{"fullName": {"Alice Cooper"}}), "/user/profile")
	assert.Contains(t, alice.get("/user/profile").Body.String(), "Alice Cooper")
	assertRedirect(t, alice.postForm("/user/profile/edit", url.Values{"email": {"bob@example.com"}}), "/user/profile")
	assert.Contains(t, alice.get("/user/profile/edit").Body.String(), "alice@example.com")

	// account deletion cascades to the user's posts
	assertRedirect(t, alice.get("/user/profile/delete"), "/user/signin")
	assert.Nil(t, alice.cookie)
	assert.Empty(t, anon.search("hello"))
	assertRedirect(t, anon.get(postPath), "/blog")

	// signin and logout
	assertRedirect(t, anon.postForm("/user/signin", url.Values{"email": {"alice@example.com"}, "password": {"secret"}}), "/user/signin")
	assertRedirect(t, bob.postForm("/user/signin", url.Values{"email": {"bob@example.com"}, "password": {"wrong"}}), "/user/signin")
	assertRedirect(t, bob.get("/user/logout"), "/user/signin")
	assert.Nil(t, bob.cookie)
	assertRedirect(t, bob.get("/home"), "/user/signin")
	assertRedirect(t, bob.postForm("/user/signin", url.Values{"email": {"bob@example.com"}, "password": {"hunter2"}}), "/")
	assertRedirect(t, bob.get("/"), "/home")
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	e, _ := newTestServer(t)
	forged, err := identity.NewManager("not-the-server-secret", identity.DefaultMaxAge, false).
		Issue(models.Identity{UserID: 1, FullName: "Mallory"})
	require.NoError(t, err)

	s := &session{t: t, e: e, cookie: &http.Cookie{Name: identity.CookieName, Value: forged}}
	assertRedirect(t, s.get("/home"), "/user/signin")
	assert.Equal(t, http.StatusUnauthorized, s.postForm("/blog/anything/like", nil).Code)
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
