package views

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/cppla/blogfront/backend"
	"github.com/cppla/blogfront/models"
	"github.com/cppla/blogfront/utils"
)

// API is the read side of the backend that the renderers need.
type API interface {
	ListPosts(ctx context.Context, ts backend.TokenSource) ([]models.Post, error)
	GetPostDetail(ctx context.Context, ts backend.TokenSource, id int64) (models.Post, error)
	GetPost(ctx context.Context, ts backend.TokenSource, id int64) (models.Post, error)
	ListUsersByID(ctx context.Context, ts backend.TokenSource, ids []int64) ([]models.User, error)
}

// Page is a fully populated fragment ready to replace the root mount point.
type Page struct {
	State  State
	Title  string
	Status int
	Root   template.HTML
}

// Renderer draws the six views. Every render starts from a fresh template execution.
type Renderer struct {
	api API
	reg *Registry
}

// NewRenderer returns a Renderer reading through api.
func NewRenderer(api API, reg *Registry) *Renderer {
	return &Renderer{api: api, reg: reg}
}

// Registry exposes the template registry for mounting pages.
func (r *Renderer) Registry() *Registry { return r.reg }

type loginFormView struct {
	Action   string
	Username string
	Error    string
}

type postItemView struct {
	ID     int64
	Title  string
	Author string
	Href   string
}

type postListView struct {
	Items      []postItemView
	CreateHref string
}

type commentItemView struct {
	Author string
	Body   string
}

type postDetailView struct {
	Title         string
	Author        string
	Body          string
	BackHref      string
	UpdateHref    string
	CommentAction string
	Comments      []commentItemView
}

type postFormView struct {
	Heading  string
	Action   string
	BackHref string
	Title    string
	Body     string
	Submit   string
}

// LoginForm needs no data. username and message refill the form after a failed attempt.
func (r *Renderer) LoginForm(username, message string, status int) (*Page, error) {
	state := State{Kind: LoggedOut}
	root, err := r.reg.Fragment(LoginFormTemplate, loginFormView{
		Action:   state.Path(),
		Username: username,
		Error:    message,
	})
	if err != nil {
		return nil, err
	}
	if status == 0 {
		status = http.StatusOK
	}
	return &Page{State: state, Title: "Log in", Status: status, Root: root}, nil
}

// PostList shows every post with its author in a single request.
func (r *Renderer) PostList(ctx context.Context, ts backend.TokenSource) (*Page, error) {
	state := State{Kind: PostList}

	posts, err := r.api.ListPosts(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("post list: %w", err)
	}

	view := postListView{
		Items:      make([]postItemView, 0, len(posts)),
		CreateHref: State{Kind: NewPost}.Path(),
	}
	for _, p := range posts {
		view.Items = append(view.Items, postItemView{
			ID:     p.ID,
			Title:  p.Title,
			Author: p.AuthorName(),
			Href:   State{Kind: PostDetail, PostID: p.ID}.Path(),
		})
	}

	root, err := r.reg.Fragment(PostListTemplate, view)
	if err != nil {
		return nil, err
	}
	return &Page{State: state, Title: "Posts", Status: http.StatusOK, Root: root}, nil
}

// PostDetail fetches the post with author and comments, then the comment authors.
// The two reads are sequential because the second depends on the first.
func (r *Renderer) PostDetail(ctx context.Context, ts backend.TokenSource, postID int64) (*Page, error) {
	state := State{Kind: PostDetail, PostID: postID}

	post, err := r.api.GetPostDetail(ctx, ts, postID)
	if err != nil {
		return nil, fmt.Errorf("post detail %d: %w", postID, err)
	}

	var users []models.User
	if len(post.Comments) > 0 {
		users, err = r.api.ListUsersByID(ctx, ts, models.CommentAuthorIDs(post.Comments))
		if err != nil {
			return nil, fmt.Errorf("comment authors of post %d: %w", postID, err)
		}
	}

	view := postDetailView{
		Title:         post.Title,
		Author:        post.AuthorName(),
		Body:          post.Body,
		BackHref:      State{Kind: PostList}.Path(),
		UpdateHref:    State{Kind: EditPost, PostID: postID}.Path(),
		CommentAction: state.Path() + "/comments",
		Comments:      make([]commentItemView, 0, len(post.Comments)),
	}
	for _, c := range post.Comments {
		author, ok := models.FindUser(users, c.UserID)
		if !ok {
			utils.Logger.Warn("comment author not returned by backend",
				zap.Int64("post_id", postID), zap.Int64("comment_id", c.ID), zap.Int64("user_id", c.UserID))
		}
		view.Comments = append(view.Comments, commentItemView{Author: author.Username, Body: c.Body})
	}

	root, err := r.reg.Fragment(PostDetailTemplate, view)
	if err != nil {
		return nil, err
	}
	return &Page{State: state, Title: post.Title, Status: http.StatusOK, Root: root}, nil
}

// NewPostForm is an empty post form.
func (r *Renderer) NewPostForm() (*Page, error) {
	state := State{Kind: NewPost}
	root, err := r.reg.Fragment(PostFormTemplate, postFormView{
		Heading:  "New post",
		Action:   State{Kind: PostList}.Path(),
		BackHref: State{Kind: PostList}.Path(),
		Submit:   "Create",
	})
	if err != nil {
		return nil, err
	}
	return &Page{State: state, Title: "New post", Status: http.StatusOK, Root: root}, nil
}

// EditPostForm pre-fills the post form from the bare post.
func (r *Renderer) EditPostForm(ctx context.Context, ts backend.TokenSource, postID int64) (*Page, error) {
	state := State{Kind: EditPost, PostID: postID}

	post, err := r.api.GetPost(ctx, ts, postID)
	if err != nil {
		return nil, fmt.Errorf("edit post %d: %w", postID, err)
	}

	root, err := r.reg.Fragment(PostFormTemplate, postFormView{
		Heading:  "Edit post",
		Action:   State{Kind: PostDetail, PostID: postID}.Path(),
		BackHref: State{Kind: PostList}.Path(),
		Title:    post.Title,
		Body:     post.Body,
		Submit:   "Save",
	})
	if err != nil {
		return nil, err
	}
	return &Page{State: state, Title: "Edit post", Status: http.StatusOK, Root: root}, nil
}
