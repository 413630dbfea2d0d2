package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/httpserver/handlers"
	"github.com/linkhaven/linkhaven/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	sub := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	sub.Get("/healthz", handlers.Healthz(d))
	sub.Get("/readyz", handlers.Readyz(d))
}
