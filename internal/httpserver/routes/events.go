package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/httpserver/handlers"
	"github.com/linkhaven/linkhaven/internal/httpserver/mw"
)

func init() { Register(registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	// No request timeout here: the socket is long-lived.
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/api/events", handlers.Events(d))
}
