package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogfront/middleware"
	"github.com/cppla/blogfront/models"
	"github.com/cppla/blogfront/session"
	"github.com/cppla/blogfront/views"
)

var errEmptyToken = errors.New("backend returned an empty token")

// PostController draws the post views and submits post and comment writes.
type PostController struct {
	viewController
}

// NewPostController creates a new PostController instance.
func NewPostController(d Deps) *PostController {
	return &PostController{viewController{d}}
}

type postForm struct {
	Title string `form:"title"`
	Body  string `form:"body"`
}

// input sends the field values as typed; escaping happens when templates render them.
func (f postForm) input() models.PostInput {
	return models.PostInput{Title: f.Title, Body: f.Body}
}

// ListPosts renders PostList.
func (p *PostController) ListPosts(ctx *gin.Context) {
	p.show(ctx, views.State{Kind: views.PostList}, func(c context.Context, s *session.Session) (*views.Page, error) {
		return p.Renderer.PostList(c, s)
	})
}

// ShowPost renders PostDetail.
func (p *PostController) ShowPost(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	p.show(ctx, views.State{Kind: views.PostDetail, PostID: id}, func(c context.Context, s *session.Session) (*views.Page, error) {
		return p.Renderer.PostDetail(c, s, id)
	})
}

// NewPost renders the empty post form.
func (p *PostController) NewPost(ctx *gin.Context) {
	p.show(ctx, views.State{Kind: views.NewPost}, func(context.Context, *session.Session) (*views.Page, error) {
		return p.Renderer.NewPostForm()
	})
}

// EditPost renders the post form pre-filled with the stored post.
func (p *PostController) EditPost(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	p.show(ctx, views.State{Kind: views.EditPost, PostID: id}, func(c context.Context, s *session.Session) (*views.Page, error) {
		return p.Renderer.EditPostForm(c, s, id)
	})
}

// CreatePost submits the new post form, then returns to the list.
func (p *PostController) CreatePost(ctx *gin.Context) {
	from := views.State{Kind: views.NewPost}
	var form postForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.String(http.StatusBadRequest, "invalid form")
		return
	}
	if err := p.API.CreatePost(ctx.Request.Context(), middleware.CurrentSession(ctx), form.input()); err != nil {
		p.fail(ctx, from, err)
		return
	}
	p.navigate(ctx, from, views.Event{Kind: views.PostSaved})
}

// UpdatePost submits the edit form as a PATCH, then returns to the list.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	from := views.State{Kind: views.EditPost, PostID: id}
	var form postForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.String(http.StatusBadRequest, "invalid form")
		return
	}
	if err := p.API.UpdatePost(ctx.Request.Context(), middleware.CurrentSession(ctx), id, form.input()); err != nil {
		p.fail(ctx, from, err)
		return
	}
	p.navigate(ctx, from, views.Event{Kind: views.PostSaved})
}

// CreateComment adds a comment, then redraws the same post from scratch.
func (p *PostController) CreateComment(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	from := views.State{Kind: views.PostDetail, PostID: id}
	in := models.CommentInput{Body: ctx.PostForm("body")}
	if err := p.API.CreateComment(ctx.Request.Context(), middleware.CurrentSession(ctx), id, in); err != nil {
		p.fail(ctx, from, err)
		return
	}
	p.navigate(ctx, from, views.Event{Kind: views.CommentAdded})
}
