package views_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/blogfront/backend"
	"github.com/cppla/blogfront/backend/backendtest"
	"github.com/cppla/blogfront/session"
	"github.com/cppla/blogfront/views"
)

type fixture struct {
	fake     *backendtest.Server
	renderer *views.Renderer
	sess     *session.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := backendtest.NewServer()
	t.Cleanup(fake.Close)
	return &fixture{
		fake:     fake,
		renderer: views.NewRenderer(backend.New(fake.URL), views.MustLoadRegistry()),
	}
}

func (f *fixture) login(userID int64) {
	f.sess = &session.Session{ID: "s", Token: f.fake.IssueToken(userID)}
}

func TestPostListRendersOneRowPerPost(t *testing.T) {
	f := newFixture(t)
	posts := f.fake.SeedFake(5)
	f.login(posts[0].UserID)

	page, err := f.renderer.PostList(context.Background(), f.sess)
	require.NoError(t, err)

	html := string(page.Root)
	assert.Equal(t, views.State{Kind: views.PostList}, page.State)
	assert.Equal(t, 5, strings.Count(html, `class="post-item"`))
	assert.Contains(t, html, `<a class="create" href="/posts/new">`)
	for _, p := range posts {
		assert.Contains(t, html, `<td class="id">`+itoa(p.ID)+`</td>`)
		assert.Contains(t, html, `href="/posts/`+itoa(p.ID)+`"`)
	}
	reqs := f.fake.RequestsTo(http.MethodGet, "/posts")
	require.Len(t, reqs, 1)
}

func TestPostListShowsAuthor(t *testing.T) {
	f := newFixture(t)
	u := f.fake.AddUser("writer", "pw")
	f.fake.AddPost(u.ID, "Hello", "world")
	f.login(u.ID)

	page, err := f.renderer.PostList(context.Background(), f.sess)
	require.NoError(t, err)
	assert.Contains(t, string(page.Root), `<td class="author">writer</td>`)
	assert.Contains(t, string(page.Root), `>Hello</a>`)
}

func TestPostDetailResolvesCommentAuthorsInOrder(t *testing.T) {
	f := newFixture(t)
	a := f.fake.AddUser("a", "pw")
	b := f.fake.AddUser("b", "pw")
	p := f.fake.AddPost(a.ID, "Title", "Body")
	f.fake.AddComment(p.ID, a.ID, "hi")
	f.fake.AddComment(p.ID, b.ID, "bye")
	f.fake.AddComment(p.ID, a.ID, "again")
	f.login(a.ID)

	page, err := f.renderer.PostDetail(context.Background(), f.sess, p.ID)
	require.NoError(t, err)

	html := string(page.Root)
	assert.Equal(t, 3, strings.Count(html, `class="comment-item"`))
	hi := strings.Index(html, `<span class="author">a</span>
  <span class="body">hi</span>`)
	bye := strings.Index(html, `<span class="author">b</span>
  <span class="body">bye</span>`)
	again := strings.Index(html, `<span class="author">a</span>
  <span class="body">again</span>`)
	require.True(t, hi >= 0 && bye >= 0 && again >= 0, html)
	assert.True(t, hi < bye && bye < again)
	assert.Contains(t, html, `<h1 class="title">Title</h1>`)
	assert.Contains(t, html, `<p class="author">a</p>`)
	assert.Contains(t, html, `action="/posts/1/comments"`)
	assert.Contains(t, html, `<a class="update" href="/posts/1/edit">`)

	// one post read, then one user batch with the author ids repeated per comment
	reqs := f.fake.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/posts/1", reqs[0].Path)
	assert.Equal(t, []string{"user"}, reqs[0].Query["_expand"])
	assert.Equal(t, []string{"comments"}, reqs[0].Query["_embed"])
	assert.Equal(t, "/users", reqs[1].Path)
	assert.Equal(t, []string{"1", "2", "1"}, reqs[1].Query["id"])
}

func TestPostDetailWithoutCommentsSkipsUserLookup(t *testing.T) {
	f := newFixture(t)
	a := f.fake.AddUser("a", "pw")
	p := f.fake.AddPost(a.ID, "Quiet", "nobody replied")
	f.login(a.ID)

	page, err := f.renderer.PostDetail(context.Background(), f.sess, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, strings.Count(string(page.Root), `class="comment-item"`))
	assert.Empty(t, f.fake.RequestsTo(http.MethodGet, "/users"))
}

func TestEditPostFormPrefills(t *testing.T) {
	f := newFixture(t)
	a := f.fake.AddUser("a", "pw")
	p := f.fake.AddPost(a.ID, "Old title", "Old body")
	f.login(a.ID)

	page, err := f.renderer.EditPostForm(context.Background(), f.sess, p.ID)
	require.NoError(t, err)

	html := string(page.Root)
	assert.Contains(t, html, `value="Old title"`)
	assert.Contains(t, html, `>Old body</textarea>`)
	assert.Contains(t, html, `action="/posts/1"`)
	assert.Contains(t, html, `<a class="back" href="/posts">`)

	reqs := f.fake.RequestsTo(http.MethodGet, "/posts/1")
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Query, "edit reads the bare post")
}

func TestFormsWithoutFetch(t *testing.T) {
	f := newFixture(t)

	page, err := f.renderer.NewPostForm()
	require.NoError(t, err)
	assert.Contains(t, string(page.Root), `<form class="post-form" method="post" action="/posts">`)
	assert.Equal(t, views.State{Kind: views.NewPost}, page.State)

	page, err = f.renderer.LoginForm("kim", "invalid username or password", http.StatusUnauthorized)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, page.Status)
	assert.Contains(t, string(page.Root), `value="kim"`)
	assert.Contains(t, string(page.Root), "invalid username or password")

	assert.Empty(t, f.fake.Requests())
}

func TestRenderPropagatesBackendErrors(t *testing.T) {
	f := newFixture(t)
	a := f.fake.AddUser("a", "pw")
	f.login(a.ID)

	_, err := f.renderer.PostDetail(context.Background(), f.sess, 99)
	assert.Equal(t, http.StatusNotFound, backend.StatusCode(err))

	f.fake.RevokeTokens()
	_, err = f.renderer.PostList(context.Background(), f.sess)
	assert.True(t, backend.IsUnauthorized(err))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
