package main

import (
	"time"

	"github.com/cppla/blogfront/backend"
	"github.com/cppla/blogfront/config"
	"github.com/cppla/blogfront/controllers"
	"github.com/cppla/blogfront/middleware"
	"github.com/cppla/blogfront/routes"
	"github.com/cppla/blogfront/session"
	"github.com/cppla/blogfront/utils"
	"github.com/cppla/blogfront/views"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	var store session.Store = session.NewMemoryStore()
	rc, err := utils.NewRedisClient(cfg)
	if err != nil {
		utils.Sugar.Fatalf("redis unavailable: %v", err)
	}
	if rc != nil {
		store = session.NewRedisStore(rc)
		utils.Sugar.Infof("sessions stored in redis at %s", rc.Options().Addr)
	} else {
		utils.Sugar.Warn("REDIS_HOST not set, sessions kept in memory")
	}

	// Missing templates are a deployment error
	registry, err := views.LoadEmbedded()
	if err != nil {
		utils.Sugar.Fatalf("load templates: %v", err)
	}

	api := backend.New(cfg.APIBaseURL, backend.WithTimeout(time.Duration(cfg.APITimeoutSec)*time.Second))
	deps := controllers.Deps{
		API:         api,
		Renderer:    views.NewRenderer(api, registry),
		Navigator:   views.NewNavigator(),
		Sessions:    session.NewManager(store, time.Duration(cfg.SessionTTLHours)*time.Hour),
		Cookie:      middleware.CookieOptions{Name: cfg.CookieName, Secure: cfg.CookieSecure},
		NoticeTitle: cfg.NoticeTitle,
		NoticeHTML:  utils.SafeHTML(cfg.NoticeHTML),
	}

	r := routes.SetupRouter(cfg, deps)

	utils.Sugar.Infof("Starting blogfront on port %s (backend %s)", cfg.AppPort, cfg.APIBaseURL)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
