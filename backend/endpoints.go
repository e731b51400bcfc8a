package backend

import (
	"context"
	"net/url"

	"github.com/cppla/blogfront/models"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var res models.LoginResponse
	err := c.Post(ctx, nil, "/users/login", "/users/login", models.LoginRequest{Username: username, Password: password}, &res)
	if err != nil {
		return "", err
	}
	return res.Token, nil
}

// ListPosts returns every post with its author expanded.
func (c *Client) ListPosts(ctx context.Context, ts TokenSource) ([]models.Post, error) {
	var posts []models.Post
	err := c.Get(ctx, ts, "/posts", "/posts", url.Values{"_expand": {"user"}}, &posts)
	return posts, err
}

// GetPostDetail returns a post with its author expanded and its comments embedded.
func (c *Client) GetPostDetail(ctx context.Context, ts TokenSource, id int64) (models.Post, error) {
	var post models.Post
	err := c.Get(ctx, ts, "/posts/:id", "/posts/"+itoa(id), url.Values{"_expand": {"user"}, "_embed": {"comments"}}, &post)
	return post, err
}

// GetPost returns the bare post, without joins.
func (c *Client) GetPost(ctx context.Context, ts TokenSource, id int64) (models.Post, error) {
	var post models.Post
	err := c.Get(ctx, ts, "/posts/:id", "/posts/"+itoa(id), nil, &post)
	return post, err
}

// ListUsersByID fetches users with one id parameter per element of ids, duplicates included.
func (c *Client) ListUsersByID(ctx context.Context, ts TokenSource, ids []int64) ([]models.User, error) {
	q := url.Values{}
	for _, id := range ids {
		q.Add("id", itoa(id))
	}
	var users []models.User
	err := c.Get(ctx, ts, "/users", "/users", q, &users)
	return users, err
}

// CreatePost creates a post owned by the token's user.
func (c *Client) CreatePost(ctx context.Context, ts TokenSource, in models.PostInput) error {
	return c.Post(ctx, ts, "/posts", "/posts", in, nil)
}

// UpdatePost patches title and body of one post.
func (c *Client) UpdatePost(ctx context.Context, ts TokenSource, id int64, in models.PostInput) error {
	return c.Patch(ctx, ts, "/posts/:id", "/posts/"+itoa(id), in, nil)
}

// CreateComment adds a comment under a post.
func (c *Client) CreateComment(ctx context.Context, ts TokenSource, postID int64, in models.CommentInput) error {
	return c.Post(ctx, ts, "/posts/:id/comments", "/posts/"+itoa(postID)+"/comments", in, nil)
}
