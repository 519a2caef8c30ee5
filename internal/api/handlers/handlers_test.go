package handlers_test

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scribble/internal/api"
	"scribble/internal/auth"
	"scribble/internal/config"
	"scribble/internal/database"
	"scribble/internal/models"
	"scribble/internal/services"
	"scribble/internal/web"
	"scribble/internal/websocket"
)

// newTestApp wires the full application against an in-memory database and
// returns the running test server plus the database handle for direct
// assertions.
func newTestApp(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	hub := websocket.NewHub()
	go hub.Run()

	userService := services.NewUserService(db)
	postService := services.NewPostService(db, hub)
	sessions := auth.NewSessions(userService, "test-secret", time.Hour, false)

	render, err := web.NewRenderer()
	require.NoError(t, err)

	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	srv := httptest.NewServer(api.NewRouter(cfg, sessions, render, hub, userService, postService))
	t.Cleanup(srv.Close)
	return srv, db
}

// newClient returns an http client with its own cookie jar, i.e. its own
// browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, c *http.Client, url string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(url, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func signUp(t *testing.T, c *http.Client, base, username, password string) {
	t.Helper()
	resp, _ := postForm(t, c, base+"/auth/register", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postForm(t, c, base+"/auth/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEndFlow(t *testing.T) {
	srv, db := newTestApp(t)

	alice := newClient(t)
	signUp(t, alice, srv.URL, "alice", "pw1")

	// Alice writes a post and lands back on the feed.
	resp, body := postForm(t, alice, srv.URL+"/create", url.Values{"title": {"Hello"}, "body": {"World"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "by alice")

	var postID int64
	require.NoError(t, db.QueryRow("SELECT id FROM post WHERE title = 'Hello'").Scan(&postID))

	// Bob cannot touch Alice's post.
	bob := newClient(t)
	signUp(t, bob, srv.URL, "bob", "pw2")

	resp, _ = postForm(t, bob, srv.URL+"/"+itoa(postID)+"/update", url.Values{"title": {"Hijacked"}, "body": {""}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = postForm(t, bob, srv.URL+"/"+itoa(postID)+"/delete", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var title string
	require.NoError(t, db.QueryRow("SELECT title FROM post WHERE id = ?", postID).Scan(&title))
	assert.Equal(t, "Hello", title)

	// Alice can edit and delete her own post.
	resp, body = postForm(t, alice, srv.URL+"/"+itoa(postID)+"/update", url.Values{"title": {"Hello again"}, "body": {"World"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello again")

	resp, body = postForm(t, alice, srv.URL+"/"+itoa(postID)+"/delete", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "Hello again")
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	srv, _ := newTestApp(t)
	c := newClient(t)

	resp, body := get(t, c, srv.URL+"/create")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Log In")
	assert.Contains(t, resp.Request.URL.Path, "/auth/login")
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := newTestApp(t)
	c := newClient(t)

	resp, body := postForm(t, c, srv.URL+"/auth/register", url.Values{"username": {""}, "password": {"pw"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Username is required.")

	resp, body = postForm(t, c, srv.URL+"/auth/register", url.Values{"username": {"alice"}, "password": {""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Password is required.")

	resp, _ = postForm(t, c, srv.URL+"/auth/register", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = postForm(t, c, srv.URL+"/auth/register", url.Values{"username": {"alice"}, "password": {"other"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "already registered")
}

func TestLoginValidation(t *testing.T) {
	srv, _ := newTestApp(t)
	c := newClient(t)

	resp, _ := postForm(t, c, srv.URL+"/auth/register", url.Values{"username": {"alice"}, "password": {"pw1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postForm(t, c, srv.URL+"/auth/login", url.Values{"username": {"nobody"}, "password": {"pw"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Incorrect username.")

	resp, body = postForm(t, c, srv.URL+"/auth/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Incorrect password.")
}

func TestLogoutEndsSession(t *testing.T) {
	srv, _ := newTestApp(t)
	c := newClient(t)
	signUp(t, c, srv.URL, "alice", "pw1")

	resp, _ := get(t, c, srv.URL+"/auth/logout")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, c, srv.URL+"/create")
	assert.Contains(t, resp.Request.URL.Path, "/auth/login")
}

func TestEditMissingPostIs404(t *testing.T) {
	srv, _ := newTestApp(t)
	c := newClient(t)
	signUp(t, c, srv.URL, "alice", "pw1")

	resp, body := get(t, c, srv.URL+"/9999/update")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "doesn&#39;t exist")
}

func TestJSONFeed(t *testing.T) {
	srv, _ := newTestApp(t)

	alice := newClient(t)
	signUp(t, alice, srv.URL, "alice", "pw1")
	for _, title := range []string{"first", "second"} {
		resp, _ := postForm(t, alice, srv.URL+"/create", url.Values{"title": {title}, "body": {""}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := get(t, newClient(t), srv.URL+"/api/v1/posts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var posts []models.Post
	require.NoError(t, json.Unmarshal([]byte(body), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Title)
	assert.Equal(t, "first", posts[1].Title)
	assert.Equal(t, "alice", posts[0].AuthorName)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
