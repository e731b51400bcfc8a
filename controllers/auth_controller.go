package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/blogfront/backend"
	"github.com/cppla/blogfront/middleware"
	"github.com/cppla/blogfront/utils"
	"github.com/cppla/blogfront/views"
)

// AuthController handles bootstrap, login and logout.
type AuthController struct {
	viewController
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(d Deps) *AuthController {
	return &AuthController{viewController{d}}
}

// Bootstrap picks the first view from the persisted session.
func (a *AuthController) Bootstrap(ctx *gin.Context) {
	if middleware.CurrentSession(ctx).Authenticated() {
		ctx.Redirect(http.StatusSeeOther, views.State{Kind: views.PostList}.Path())
		return
	}
	ctx.Redirect(http.StatusSeeOther, views.State{Kind: views.LoggedOut}.Path())
}

// ShowLogin renders the login form.
func (a *AuthController) ShowLogin(ctx *gin.Context) {
	sess := middleware.CurrentSession(ctx)
	if sess.Authenticated() {
		ctx.Redirect(http.StatusSeeOther, views.State{Kind: views.PostList}.Path())
		return
	}
	page, err := a.Renderer.LoginForm("", "", http.StatusOK)
	if err != nil {
		ctx.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	a.commit(ctx, sess, page, "")
}

// Login exchanges the submitted credentials for a token and stores it in the session.
// A rejected login writes nothing and shows the form again.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.String(http.StatusBadRequest, "invalid form")
		return
	}
	username := strings.TrimSpace(req.Username)
	sess := middleware.CurrentSession(ctx)

	token, err := a.API.Login(ctx.Request.Context(), username, req.Password)
	if err == nil && token == "" {
		err = errEmptyToken
	}
	if err != nil {
		status := backend.StatusCode(err)
		message := "Login failed, try again later."
		switch {
		case status == http.StatusUnauthorized || status == http.StatusBadRequest:
			message = "Invalid username or password."
		case status == 0:
			status = http.StatusBadGateway
		}
		utils.Logger.Info("login rejected", zap.String("username", username), zap.Int("status", status), zap.Error(err))
		page, rerr := a.Renderer.LoginForm(username, message, status)
		if rerr != nil {
			ctx.AbortWithError(http.StatusInternalServerError, rerr)
			return
		}
		a.commit(ctx, sess, page, "")
		return
	}

	if err := a.Sessions.Login(ctx.Request.Context(), sess, token); err != nil {
		utils.Logger.Error("store session failed", zap.Error(err))
		ctx.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	middleware.WriteSessionCookie(ctx, a.Sessions, a.Cookie, sess)
	a.navigate(ctx, views.State{Kind: views.LoggedOut}, views.Event{Kind: views.LoginSucceeded})
}

// Logout forgets the token and returns to the login form.
func (a *AuthController) Logout(ctx *gin.Context) {
	sess := middleware.CurrentSession(ctx)
	if err := a.Sessions.Invalidate(ctx.Request.Context(), sess); err != nil {
		utils.Logger.Error("invalidate session failed", zap.Error(err))
	}
	middleware.WriteSessionCookie(ctx, a.Sessions, a.Cookie, sess)
	a.navigate(ctx, views.State{Kind: views.PostList}, views.Event{Kind: views.LogoutRequested})
}
