package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cppla/blogfront/session"
)

func TestRateLimiterIsPerKey(t *testing.T) {
	l := NewRateLimiter(2)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := session.NewManager(session.NewMemoryStore(), time.Hour)
	r := gin.New()
	r.Use(LoadSession(m, CookieOptions{Name: "sid"}), AuthRequired())
	r.GET("/private", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestCurrentSessionDefaultsToAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, CurrentSession(c).Authenticated())
}
