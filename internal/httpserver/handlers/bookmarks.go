package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/session"
	"github.com/linkhaven/linkhaven/internal/store"
)

type listResponse struct {
	Bookmarks  []*domain.Bookmark `json:"bookmarks"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Categories []string           `json:"categories"`
	Tags       []string           `json:"tags"`
	Loading    bool               `json:"loading"`
}

type bookmarkDraft struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

type flagRequest struct {
	Pinned   *bool  `json:"pinned,omitempty"`
	Archived *bool  `json:"archived,omitempty"`
	Private  *bool  `json:"private,omitempty"`
	Password string `json:"password,omitempty"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

// withSession resolves the acting owner's session and hands it to fn.
func withSession(d deps.Deps, w http.ResponseWriter, r *http.Request, fn func(s *session.Session)) {
	owner := ownerID(r)
	if owner == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "owner is required"})
		return
	}

	s, err := d.Sessions.Get(r.Context(), owner)
	if err != nil {
		writeError(w, d, err)
		return
	}
	fn(s)
}

// ListBookmarks maps query parameters onto the view pipeline and
// returns one page plus the category and tag indexes.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			q := r.URL.Query()
			page, _ := strconv.Atoi(q.Get("page"))
			if page < 1 {
				page = 1
			}
			pageSize, _ := strconv.Atoi(q.Get("page_size"))

			f := store.Filter{
				Search:   q.Get("q"),
				Category: q.Get("category"),
				Tag:      q.Get("tag"),
				Archived: q.Get("archived") == "true",
				Private:  q.Get("private") == "true",
				Sort:     domain.ParseSortMode(q.Get("sort")),
				View:     store.ParseViewMode(q.Get("view")),
				Page:     page,
				PageSize: pageSize,
			}

			st := s.Store()
			writeJSON(w, http.StatusOK, listResponse{
				Bookmarks:  st.Page(f),
				Page:       page,
				TotalPages: st.TotalPages(f),
				Categories: st.Categories(f),
				Tags:       st.Tags(f),
				Loading:    st.Loading(),
			})
		})
	}
}

// AddBookmark creates a bookmark through the optimistic protocol.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			var body bookmarkDraft
			if !decodeBody(w, r, &body) {
				return
			}

			record, err := s.Add(r.Context(), &domain.Bookmark{
				Title:       body.Title,
				URL:         body.URL,
				Description: body.Description,
				Category:    body.Category,
				Tags:        body.Tags,
			})
			if err != nil {
				writeError(w, d, err)
				return
			}
			writeJSON(w, http.StatusCreated, record)
		})
	}
}

// EditBookmark applies a partial update to one bookmark.
func EditBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			var patch domain.BookmarkPatch
			if !decodeBody(w, r, &patch) {
				return
			}

			record, err := s.Edit(r.Context(), chi.URLParam(r, "id"), patch)
			if err != nil {
				writeError(w, d, err)
				return
			}
			writeJSON(w, http.StatusOK, record)
		})
	}
}

// DeleteBookmark removes one bookmark.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			if err := s.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeError(w, d, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// PinBookmark flips the pin flag.
func PinBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			var body flagRequest
			if !decodeBody(w, r, &body) {
				return
			}
			if body.Pinned == nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "pinned is required"})
				return
			}

			record, err := s.SetPinned(r.Context(), chi.URLParam(r, "id"), *body.Pinned)
			if err != nil {
				writeError(w, d, err)
				return
			}
			writeJSON(w, http.StatusOK, record)
		})
	}
}

// ArchiveBookmark moves a bookmark between the active and archived
// partitions.
func ArchiveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			var body flagRequest
			if !decodeBody(w, r, &body) {
				return
			}
			if body.Archived == nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "archived is required"})
				return
			}

			record, err := s.SetArchived(r.Context(), chi.URLParam(r, "id"), *body.Archived)
			if err != nil {
				writeError(w, d, err)
				return
			}
			writeJSON(w, http.StatusOK, record)
		})
	}
}

// PrivateBookmark moves a bookmark between the public and private
// partitions, guarded by the owner's shared password.
func PrivateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			var body flagRequest
			if !decodeBody(w, r, &body) {
				return
			}
			if body.Private == nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "private is required"})
				return
			}

			record, err := s.SetPrivate(r.Context(), chi.URLParam(r, "id"), *body.Private, body.Password)
			if err != nil {
				writeError(w, d, err)
				return
			}
			writeJSON(w, http.StatusOK, record)
		})
	}
}

// VerifyPrivate checks the owner's private-partition password.
func VerifyPrivate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			var body passwordRequest
			if !decodeBody(w, r, &body) {
				return
			}

			if err := s.VerifyPrivatePassword(r.Context(), body.Password); err != nil {
				writeError(w, d, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
	}
}
