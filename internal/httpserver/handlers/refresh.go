package handlers

import (
	"net/http"

	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/session"
)

// Refresh re-fetches the owner's working set and tells sibling
// sessions to do the same.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			if err := s.Refresh(r.Context()); err != nil {
				writeError(w, d, err)
				return
			}
			d.Logger.Info("manual refresh triggered",
				logger.String("owner", s.Owner()),
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
		})
	}
}
