package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cppla/blogfront/config"
	"github.com/cppla/blogfront/controllers"
	"github.com/cppla/blogfront/middleware"
	"github.com/cppla/blogfront/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, deps controllers.Deps) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file; fall back to plain recovery without one
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, true))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.PrometheusMiddleware())

	r.Static("/static", cfg.StaticDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(deps)
	postController := controllers.NewPostController(deps)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	pages := r.Group("")
	pages.Use(middleware.LoadSession(deps.Sessions, deps.Cookie))

	pages.GET("/", authController.Bootstrap)
	pages.GET("/login", authController.ShowLogin)
	pages.POST("/login", loginLimiter.Middleware(), authController.Login)
	pages.POST("/logout", authController.Logout)

	posts := pages.Group("/posts")
	posts.Use(middleware.AuthRequired())
	posts.GET("", postController.ListPosts)
	posts.POST("", postController.CreatePost)
	posts.GET("/new", postController.NewPost)
	posts.GET("/:id", postController.ShowPost)
	posts.GET("/:id/edit", postController.EditPost)
	// HTML forms cannot send PATCH; the controller issues the PATCH to the backend
	posts.POST("/:id", postController.UpdatePost)
	posts.POST("/:id/comments", postController.CreateComment)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/static/") {
			ctx.String(http.StatusNotFound, "static asset not found")
			return
		}
		ctx.String(http.StatusNotFound, "page not found")
	})

	return r
}
