// Package rest wires the chi router for the feed API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/application/services"
	"tomosu-backend/interfaces/http/rest/handlers"
	"tomosu-backend/interfaces/http/rest/middleware"
	"tomosu-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	engine   *cache.Engine
	feed     *services.FeedService
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	engine *cache.Engine,
	feed *services.FeedService,
	sessions *auth.SessionManager,
	logger *zap.Logger,
) *Router {
	return &Router{
		engine:   engine,
		feed:     feed,
		sessions: sessions,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.RequestTimer(rt.engine))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*.tomosu.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	postHandler := handlers.NewPostHandler(rt.engine, rt.feed, rt.logger)
	userHandler := handlers.NewUserHandler(rt.engine, rt.logger)
	tagHandler := handlers.NewTagHandler(rt.engine, rt.logger)
	surveyHandler := handlers.NewSurveyHandler(rt.engine, rt.logger)
	authHandler := handlers.NewAuthHandler(rt.engine, rt.sessions, rt.logger)
	systemHandler := handlers.NewSystemHandler(rt.engine, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Reads work anonymously; a valid token personalizes them.
		r.Use(middleware.OptionalAuth(rt.sessions))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)
			r.Get("/timeline", postHandler.ListPosts)
			r.Get("/tags/{tagName}", postHandler.ListPostsByTag)
			r.Get("/{postID}", postHandler.GetPost)
			r.Get("/{postID}/comments", postHandler.ListComments)
			r.Get("/{postID}/likes", postHandler.GetLikes)

			r.With(middleware.RequireAuth(rt.sessions)).Post("/", postHandler.CreatePost)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Get("/{userID}", userHandler.GetProfile)
			r.Get("/{userID}/followers", userHandler.ListFollowers)
			r.Get("/{userID}/following", userHandler.ListFollowing)
			r.Get("/{userID}/bookmarks", userHandler.ListBookmarks)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagHandler.ListTags)
			r.Get("/{tagName}", tagHandler.GetTag)
		})

		r.Route("/surveys", func(r chi.Router) {
			r.Get("/", surveyHandler.ListSurveys)
			r.Get("/{surveyID}", surveyHandler.GetSurvey)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session-status", authHandler.SessionStatus)
			r.Get("/stats", authHandler.Stats)
			r.Get("/default-credentials", authHandler.DefaultCredentials)

			r.With(middleware.RequireAuth(rt.sessions)).Get("/me", authHandler.Me)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/stats", systemHandler.Stats)
			r.Get("/performance", systemHandler.Performance)
			r.Get("/memory", systemHandler.Memory)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready only once the cache has been loaded.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !rt.engine.IsInitialized() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"initializing"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
