package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/httpserver/handlers"
	"github.com/linkhaven/linkhaven/internal/httpserver/mw"
)

func init() { Register(registerSuggest) }

func registerSuggest(r chi.Router, d deps.Deps) {
	r.With(middleware.Timeout(5*time.Second), mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/api/suggest", handlers.Suggest(d))
}
