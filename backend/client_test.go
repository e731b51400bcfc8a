package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/blogfront/backend"
	"github.com/cppla/blogfront/backend/backendtest"
	"github.com/cppla/blogfront/models"
	"github.com/cppla/blogfront/session"
)

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	fake := backendtest.NewServer()
	t.Cleanup(fake.Close)
	u := fake.AddUser("a", "pw")
	fake.AddPost(u.ID, "t", "b")
	token := fake.IssueToken(u.ID)

	c := backend.New(fake.URL)
	ctx := context.Background()

	posts, err := c.ListPosts(ctx, &session.Session{Token: token})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].AuthorName())

	_, err = c.ListPosts(ctx, &session.Session{})
	require.Error(t, err)
	assert.True(t, backend.IsUnauthorized(err))

	reqs := fake.RequestsTo(http.MethodGet, "/posts")
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer "+token, reqs[0].Authorization)
	assert.Equal(t, "", reqs[1].Authorization)
	assert.Equal(t, []string{"user"}, reqs[0].Query["_expand"])
}

func TestLogin(t *testing.T) {
	fake := backendtest.NewServer()
	t.Cleanup(fake.Close)
	fake.AddUser("kim", "secret")
	c := backend.New(fake.URL + "/")

	token, err := c.Login(context.Background(), "kim", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = c.Login(context.Background(), "kim", "wrong")
	assert.Equal(t, http.StatusUnauthorized, backend.StatusCode(err))

	reqs := fake.RequestsTo(http.MethodPost, "/users/login")
	require.Len(t, reqs, 2)
	assert.JSONEq(t, `{"username":"kim","password":"secret"}`, reqs[0].Body)
}

func TestListUsersByIDRepeatsIDs(t *testing.T) {
	fake := backendtest.NewServer()
	t.Cleanup(fake.Close)
	a := fake.AddUser("a", "pw")
	b := fake.AddUser("b", "pw")

	users, err := backend.New(fake.URL).ListUsersByID(context.Background(), nil, []int64{a.ID, b.ID, a.ID})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	reqs := fake.RequestsTo(http.MethodGet, "/users")
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"1", "2", "1"}, reqs[0].Query["id"])
}

func TestWritesSendJSON(t *testing.T) {
	fake := backendtest.NewServer()
	t.Cleanup(fake.Close)
	u := fake.AddUser("a", "pw")
	p := fake.AddPost(u.ID, "old", "old body")
	ts := &session.Session{Token: fake.IssueToken(u.ID)}
	c := backend.New(fake.URL)
	ctx := context.Background()

	require.NoError(t, c.CreatePost(ctx, ts, models.PostInput{Title: "T", Body: "B"}))
	require.NoError(t, c.UpdatePost(ctx, ts, p.ID, models.PostInput{Title: "new", Body: "new body"}))
	require.NoError(t, c.CreateComment(ctx, ts, p.ID, models.CommentInput{Body: "hi"}))

	creates := fake.RequestsTo(http.MethodPost, "/posts")
	require.Len(t, creates, 1)
	assert.JSONEq(t, `{"title":"T","body":"B"}`, creates[0].Body)

	patches := fake.RequestsTo(http.MethodPatch, "/posts/1")
	require.Len(t, patches, 1)
	assert.JSONEq(t, `{"title":"new","body":"new body"}`, patches[0].Body)

	comments := fake.RequestsTo(http.MethodPost, "/posts/1/comments")
	require.Len(t, comments, 1)
	assert.JSONEq(t, `{"body":"hi"}`, comments[0].Body)

	detail, err := c.GetPostDetail(ctx, ts, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", detail.Title)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "hi", detail.Comments[0].Body)
}

func TestStatusErrorAndTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/posts/9" {
			http.NotFound(w, r)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	c := backend.New(slow.URL, backend.WithTimeout(50*time.Millisecond))
	_, err := c.GetPost(context.Background(), nil, 9)
	var se *backend.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "/posts/9", se.Path)

	_, err = c.ListPosts(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 0, backend.StatusCode(err))
}

func TestCanceledContext(t *testing.T) {
	fake := backendtest.NewServer()
	t.Cleanup(fake.Close)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.New(fake.URL).ListUsersByID(ctx, nil, []int64{1})
	require.ErrorIs(t, err, context.Canceled)
}
