package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/httpserver/handlers"
	"github.com/linkhaven/linkhaven/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	// Timeout sits here rather than globally so the event stream can
	// stay open indefinitely.
	r.With(middleware.Timeout(10*time.Second), mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMin,
		TrustProxy:        d.TrustProxy,
	})).Route("/api", func(api chi.Router) {
		api.Get("/bookmarks", handlers.ListBookmarks(d))
		api.Post("/bookmarks", handlers.AddBookmark(d))
		api.Put("/bookmarks/{id}", handlers.EditBookmark(d))
		api.Delete("/bookmarks/{id}", handlers.DeleteBookmark(d))
		api.Post("/bookmarks/{id}/pin", handlers.PinBookmark(d))
		api.Post("/bookmarks/{id}/archive", handlers.ArchiveBookmark(d))
		api.Post("/bookmarks/{id}/private", handlers.PrivateBookmark(d))
		api.Post("/private/verify", handlers.VerifyPrivate(d))
		api.Post("/refresh", handlers.Refresh(d))
	})
}
