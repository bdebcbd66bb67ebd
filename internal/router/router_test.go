package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/auth"
	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/anonto42/socialgraph/backend/internal/storage"
	"github.com/anonto42/socialgraph/backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t *testing.T
	e *echo.Echo
}

type reply struct {
	Code int
	Body map[string]any
}

func (r reply) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func newClient(t *testing.T) *client {
	t.Helper()
	dir := t.TempDir()

	e := echo.New()
	log := logging.Discard()
	SetupMiddleware(e, log)
	SetupRoutes(e, Deps{
		DB:        testutil.NewDB(t),
		Logger:    log,
		Tokens:    auth.NewJWTManager("test-secret", time.Hour),
		Store:     storage.NewDiskStore(dir, "http://test.local"),
		UploadDir: dir,
	})
	return &client{t: t, e: e}
}

func (c *client) do(method, path, token string, body any) reply {
	c.t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case *http.Request:
		req = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	out := reply{Code: rec.Code}
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out.Body), rec.Body.String())
	}
	return out
}

func (c *client) signup(name string) (token string, id uint) {
	c.t.Helper()
	r := c.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": name,
		"email":    name + "@example.com",
		"password": "password1",
	})
	require.Equal(c.t, http.StatusCreated, r.Code, r.Body)
	user := r.data()["user"].(map[string]any)
	return r.data()["token"].(string), uint(user["id"].(float64))
}

func postIDs(r reply) []uint {
	var ids []uint
	for _, p := range r.data()["posts"].([]any) {
		ids = append(ids, uint(p.(map[string]any)["id"].(float64)))
	}
	return ids
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	r := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "healthy", r.Body["status"])
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)
	c.signup("alice")

	r := c.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "password1",
	})
	assert.Equal(t, http.StatusConflict, r.Code)
	assert.Equal(t, false, r.Body["success"])

	r = c.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "x", "email": "bad", "password": "1",
	})
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = c.do(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "alice@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, r.Code)
	token := r.data()["token"].(string)

	r = c.do(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "alice@example.com", "password": "nope-nope",
	})
	assert.Equal(t, http.StatusUnauthorized, r.Code)

	r = c.do(http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "alice", r.data()["username"])
	assert.NotContains(t, r.data(), "password_hash")

	r = c.do(http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{"idToken": "x"})
	assert.Equal(t, http.StatusUnauthorized, r.Code)
}

func TestUnauthenticated(t *testing.T) {
	c := newClient(t)
	for _, path := range []string{"/api/v1/feed", "/api/v1/profile", "/api/v1/posts/1"} {
		r := c.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, r.Code, path)
		assert.Equal(t, false, r.Body["success"])
	}
	r := c.do(http.MethodGet, "/api/v1/feed", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, r.Code)
}

func TestFollowLikeFeedScenario(t *testing.T) {
	c := newClient(t)
	alice, aliceID := c.signup("alice")
	bob, bobID := c.signup("bob")

	r := c.do(http.MethodGet, "/api/v1/feed", alice, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Empty(t, r.data()["posts"])

	follow := fmt.Sprintf("/api/v1/users/%d/follow", bobID)
	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, follow, alice, nil).Code)
	r = c.do(http.MethodPost, follow, alice, nil)
	assert.Equal(t, http.StatusConflict, r.Code)
	assert.Equal(t, "Already following", r.Body["message"])

	r = c.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", aliceID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Equal(t, "Cannot follow yourself", r.Body["message"])

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/v1/users/999/follow", alice, nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/users/abc/follow", alice, nil).Code)

	r = c.do(http.MethodGet, follow, alice, nil)
	assert.Equal(t, true, r.data()["following"])

	r = c.do(http.MethodPost, "/api/v1/posts", bob, map[string]string{"content": "from bob"})
	require.Equal(t, http.StatusCreated, r.Code, r.Body)
	p1 := uint(r.data()["id"].(float64))

	r = c.do(http.MethodPost, "/api/v1/posts", alice, map[string]string{"content": "from alice"})
	require.Equal(t, http.StatusCreated, r.Code)
	p2 := uint(r.data()["id"].(float64))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/posts", alice, map[string]string{"content": "  "}).Code)

	likes := fmt.Sprintf("/api/v1/posts/%d/likes", p1)
	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, likes, alice, nil).Code)
	r = c.do(http.MethodPost, likes, alice, nil)
	assert.Equal(t, http.StatusConflict, r.Code)
	assert.Equal(t, "Already liked", r.Body["message"])
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/v1/posts/999/likes", alice, nil).Code)

	r = c.do(http.MethodGet, "/api/v1/feed?page=1&limit=10", alice, nil)
	require.Equal(t, http.StatusOK, r.Code)
	require.Equal(t, []uint{p2, p1}, postIDs(r))
	bobsPost := r.data()["posts"].([]any)[1].(map[string]any)
	assert.Equal(t, true, bobsPost["liked"])
	assert.EqualValues(t, 1, bobsPost["like_count"])
	assert.Equal(t, "bob", bobsPost["author"].(map[string]any)["username"])
	meta := r.Body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["totalItems"])
	assert.Equal(t, false, meta["hasNextPage"])

	r = c.do(http.MethodGet, "/api/v1/feed", bob, nil)
	assert.Equal(t, []uint{p1}, postIDs(r))

	r = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", p2), bob, nil)
	assert.Equal(t, http.StatusForbidden, r.Code)
	assert.Equal(t, "Unauthorized", r.Body["message"])

	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, likes, alice, nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, likes, alice, nil).Code)

	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, follow, alice, nil).Code)
	r = c.do(http.MethodGet, "/api/v1/feed", alice, nil)
	assert.Equal(t, []uint{p2}, postIDs(r))

	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", p2), alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", p2), alice, nil).Code)
}

func TestComments(t *testing.T) {
	c := newClient(t)
	alice, _ := c.signup("alice")
	bob, _ := c.signup("bob")

	r := c.do(http.MethodPost, "/api/v1/posts", alice, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, r.Code)
	comments := fmt.Sprintf("/api/v1/posts/%d/comments", uint(r.data()["id"].(float64)))

	r = c.do(http.MethodPost, comments, bob, map[string]string{"content": "nice"})
	require.Equal(t, http.StatusCreated, r.Code)
	commentID := uint(r.data()["id"].(float64))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, comments, bob, map[string]string{"content": ""}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/posts/999/comments", bob, nil).Code)

	r = c.do(http.MethodGet, comments, alice, nil)
	require.Equal(t, http.StatusOK, r.Code)
	list := r.data()["comments"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].(map[string]any)["author"].(map[string]any)["username"])

	del := fmt.Sprintf("/api/v1/comments/%d", commentID)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, del, alice, nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, del, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, del, bob, nil).Code)

	// length is counted after trimming
	padded := "  " + strings.Repeat("y", 500) + "\n"
	r = c.do(http.MethodPost, comments, bob, map[string]string{"content": padded})
	require.Equal(t, http.StatusCreated, r.Code)
	assert.Equal(t, strings.Repeat("y", 500), r.data()["content"])
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, comments, bob, map[string]string{"content": strings.Repeat("y", 501)}).Code)
}

func TestCreatePostWithImage(t *testing.T) {
	c := newClient(t)
	alice, _ := c.signup("alice")

	multipartRequest := func(filename string, data []byte) *http.Request {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("content", "look"))
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", &buf)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		return req
	}

	png := []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")
	r := c.do(http.MethodPost, "", alice, multipartRequest("cat.png", png))
	require.Equal(t, http.StatusCreated, r.Code, r.Body)
	url := r.data()["image_url"].(string)
	require.True(t, strings.HasPrefix(url, "http://test.local/uploads/posts/"), url)

	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(url, "http://test.local"), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())

	r = c.do(http.MethodPost, "", alice, multipartRequest("notes.txt", []byte("just text")))
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Equal(t, "Unsupported image type", r.Body["message"])
}

func TestProfileAndSearch(t *testing.T) {
	c := newClient(t)
	alice, _ := c.signup("alice")
	bob, bobID := c.signup("bob")
	c.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", bobID), alice, nil)

	r := c.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", bobID), alice, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, true, r.data()["is_following"])
	assert.EqualValues(t, 1, r.data()["follower_count"])

	r = c.do(http.MethodGet, "/api/v1/users?search=BO", alice, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Len(t, r.data()["users"], 1)

	r = c.do(http.MethodPut, "/api/v1/profile", bob, map[string]string{"bio": "hi"})
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "hi", r.data()["bio"])

	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/v1/profile", bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", bobID), alice, nil).Code)
}
