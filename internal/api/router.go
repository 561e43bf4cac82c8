package api

import (
	"net/http"

	"github.com/anavarro/melodia/internal/api/handlers"
	"github.com/anavarro/melodia/internal/api/middleware"
	"github.com/anavarro/melodia/internal/config"
	"github.com/anavarro/melodia/internal/service"
	"github.com/anavarro/melodia/internal/token"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(services *service.Services, issuer *token.Issuer, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.TrustedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, issuer, cfg)
	playlistHandler := handlers.NewPlaylistHandler(services.Playlist)

	r.Route("/api", func(r chi.Router) {
		// Public routes; logout only clears the cookie, so it needs no
		// verified identity either.
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// Everything below requires a verified session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(issuer))

			r.Get("/me", authHandler.Me)

			r.Route("/playlists", func(r chi.Router) {
				r.Get("/", playlistHandler.List)
				r.Post("/", playlistHandler.Create)
				r.Delete("/{id}", playlistHandler.Delete)
				r.Post("/{id}/songs", playlistHandler.AddSong)
				r.Get("/{id}/songs", playlistHandler.ListSongs)
				r.Delete("/{id}/songs/*", playlistHandler.RemoveSong)
			})
		})
	})

	return r
}
