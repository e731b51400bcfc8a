package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/blogfront/session"
	"github.com/cppla/blogfront/utils"
)

// ContextSessionKey is the key used to store the request's *session.Session in Gin context.
const ContextSessionKey = "session"

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// LoadSession restores the session named by the cookie, or starts an anonymous one.
func LoadSession(m *session.Manager, opts CookieOptions) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, _ := ctx.Cookie(opts.Name)
		sess, err := m.Restore(ctx.Request.Context(), id)
		if err != nil {
			utils.Logger.Error("session restore failed", zap.Error(err))
			ctx.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		ctx.Set(ContextSessionKey, sess)
		ctx.Next()
	}
}

// WriteSessionCookie persists the session id in the browser. An empty token clears it.
func WriteSessionCookie(ctx *gin.Context, m *session.Manager, opts CookieOptions, sess *session.Session) {
	maxAge := int(m.TTL().Seconds())
	value := sess.ID
	if !sess.Authenticated() {
		maxAge = -1
		value = ""
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(opts.Name, value, maxAge, "/", "", opts.Secure, true)
}

// CurrentSession returns the session set by LoadSession.
func CurrentSession(ctx *gin.Context) *session.Session {
	if v, ok := ctx.Get(ContextSessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return &session.Session{}
}

// AuthRequired sends visitors without a token to the login form.
// The token is not validated here; an expired one is discovered on the first 401.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !CurrentSession(ctx).Authenticated() {
			ctx.Redirect(http.StatusSeeOther, "/login")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
