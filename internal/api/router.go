package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"scribble/internal/api/handlers"
	"scribble/internal/auth"
	"scribble/internal/config"
	"scribble/internal/services"
	"scribble/internal/web"
	ws "scribble/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, sessions *auth.Sessions, render *web.Renderer, hub *ws.Hub,
	userService services.UserServiceProvider, postService services.PostServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Resolve the session once per request, before any route logic.
	r.Use(sessions.LoadUser)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessions, render)
	blogHandler := handlers.NewBlogHandler(postService, render)
	feedHandler := handlers.NewFeedHandler(postService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/", blogHandler.Index)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/register", authHandler.ShowRegister)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.ShowLogin)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
	})

	// Pages that require a logged-in user.
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireLogin)
		r.Get("/create", blogHandler.ShowCreate)
		r.Post("/create", blogHandler.Create)
		r.Get("/{id:[0-9]+}/update", blogHandler.ShowUpdate)
		r.Post("/{id:[0-9]+}/update", blogHandler.Update)
		r.Post("/{id:[0-9]+}/delete", blogHandler.Delete)
	})

	// Read-only JSON feed for external readers.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/posts", feedHandler.List)
		r.Get("/posts/{id}", feedHandler.Get)
	})

	// Live feed over WebSocket.
	r.Get("/ws", wsHandler.Serve)

	return r
}
