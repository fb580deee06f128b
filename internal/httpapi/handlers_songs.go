package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"streamly/internal/catalog"
	"streamly/internal/domain"
)

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := catalog.ParsePage(q.Get("page"), q.Get("limit"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	res, err := s.catalog.ListPublished(r.Context(), domain.SongFilter{Search: q.Get("search"), Genre: q.Get("genre")}, page, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

func (s *Server) handlePopularSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.catalog.Popular(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleMySongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.catalog.ListMine(r.Context(), caller(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var body domain.SongFields
	if !decodeJSON(w, r, &body) {
		return
	}
	song, err := s.catalog.Create(r.Context(), caller(r), body)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"song": song})
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	var body domain.SongFields
	if !decodeJSON(w, r, &body) {
		return
	}
	song, err := s.catalog.Update(r.Context(), caller(r), chi.URLParam(r, "id"), body)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"song": song})
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Song deleted successfully"})
}

// handlePlaySong counts the play and then records it in the caller's history.
// A history failure is logged; the counter has already moved.
func (s *Server) handlePlaySong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := caller(r)
	n, err := s.catalog.RecordPlay(r.Context(), user, id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.engagement.AppendRecentlyPlayed(r.Context(), user, id); err != nil {
		s.logger.Warn("append recently played", "user", user.ID, "song", id, "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Play count updated", "playCount": n})
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.ToggleLike(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.Unlike(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"liked":   false,
		"likes":   res.Likes,
		"message": "Song unliked",
	})
}
