package controllers

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/blogfront/backend"
	"github.com/cppla/blogfront/middleware"
	"github.com/cppla/blogfront/models"
	"github.com/cppla/blogfront/session"
	"github.com/cppla/blogfront/utils"
	"github.com/cppla/blogfront/views"
)

// statusClientClosed is nginx's "client closed request"; used when a newer navigation won.
const statusClientClosed = 499

// Backend is everything the controllers ask of the REST API.
type Backend interface {
	views.API
	Login(ctx context.Context, username, password string) (string, error)
	CreatePost(ctx context.Context, ts backend.TokenSource, in models.PostInput) error
	UpdatePost(ctx context.Context, ts backend.TokenSource, id int64, in models.PostInput) error
	CreateComment(ctx context.Context, ts backend.TokenSource, postID int64, in models.CommentInput) error
}

// Deps are shared by every controller.
type Deps struct {
	API         Backend
	Renderer    *views.Renderer
	Navigator   *views.Navigator
	Sessions    *session.Manager
	Cookie      middleware.CookieOptions
	NoticeTitle string
	NoticeHTML  template.HTML
}

type viewController struct {
	Deps
}

// show runs one render as the session's current navigation and commits it if still current.
func (v *viewController) show(ctx *gin.Context, state views.State, draw func(context.Context, *session.Session) (*views.Page, error)) {
	sess := middleware.CurrentSession(ctx)
	rctx, task := v.Navigator.Begin(ctx.Request.Context(), sess.ID, state)
	defer task.Done()

	page, err := draw(rctx, sess)
	if !task.Current() {
		middleware.RecordRender(state.Kind.String(), "superseded")
		utils.Logger.Debug("render superseded by newer navigation", zap.Stringer("view", state))
		ctx.AbortWithStatus(statusClientClosed)
		return
	}
	if err != nil {
		v.fail(ctx, state, err)
		return
	}
	middleware.RecordRender(state.Kind.String(), "ok")
	v.commit(ctx, sess, page, "")
}

// commit replaces the root mount point with the page.
func (v *viewController) commit(ctx *gin.Context, sess *session.Session, page *views.Page, message string) {
	var buf bytes.Buffer
	err := v.Renderer.Registry().Mount(&buf, views.Layout{
		Title:       page.Title,
		LoggedIn:    sess.Authenticated(),
		Username:    utils.TokenUsername(sess.BearerToken()),
		NoticeTitle: v.NoticeTitle,
		NoticeHTML:  v.NoticeHTML,
		Error:       message,
		Root:        page.Root,
	})
	if err != nil {
		utils.Logger.Error("mount page failed", zap.Stringer("view", page.State), zap.Error(err))
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ctx.Data(page.Status, "text/html; charset=utf-8", buf.Bytes())
}

// fail handles a backend error raised while in state from.
func (v *viewController) fail(ctx *gin.Context, from views.State, err error) {
	sess := middleware.CurrentSession(ctx)

	if backend.IsUnauthorized(err) {
		utils.Logger.Info("backend rejected token, logging out", zap.Stringer("view", from))
		if ierr := v.Sessions.Invalidate(ctx.Request.Context(), sess); ierr != nil {
			utils.Logger.Error("invalidate session failed", zap.Error(ierr))
		}
		middleware.WriteSessionCookie(ctx, v.Sessions, v.Cookie, sess)
		v.navigate(ctx, from, views.Event{Kind: views.Unauthorized})
		return
	}
	if errors.Is(err, context.Canceled) {
		ctx.AbortWithStatus(statusClientClosed)
		return
	}

	middleware.RecordRender(from.Kind.String(), "error")
	status, message := http.StatusBadGateway, "The blog service is unavailable, try again later."
	if backend.StatusCode(err) == http.StatusNotFound {
		status, message = http.StatusNotFound, "Not found."
	}
	utils.Logger.Error("backend request failed", zap.Stringer("view", from), zap.Int("status", status), zap.Error(err))
	v.commit(ctx, sess, &views.Page{State: from, Title: http.StatusText(status), Status: status}, message)
}

// navigate answers with a redirect to the view that follows from after ev.
func (v *viewController) navigate(ctx *gin.Context, from views.State, ev views.Event) {
	next, err := views.Transition(from, ev)
	if err != nil {
		utils.Logger.Error("navigation rejected", zap.Error(err))
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ctx.Redirect(http.StatusSeeOther, next.Path())
}

// postID parses the :id path parameter; invalid ids answer 404 without a backend call.
func postID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.String(http.StatusNotFound, "post not found")
		ctx.Abort()
		return 0, false
	}
	return id, true
}
