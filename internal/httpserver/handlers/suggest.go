package handlers

import (
	"net/http"

	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/logger"
)

type suggestRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Suggest returns advisory metadata for a draft bookmark. A failed
// suggestion is a 422, never an error that blocks saving.
func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body suggestRequest
		if !decodeBody(w, r, &body) {
			return
		}

		suggestion, err := d.Suggester.Suggest(r.Context(), body.URL, body.Title)
		if err != nil {
			d.Logger.Debug("suggestion failed",
				logger.String("url", body.URL),
				logger.Error(err))
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "no suggestion for this url"})
			return
		}
		writeJSON(w, http.StatusOK, suggestion)
	}
}
